package persist

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
)

const writeBufferSize = 64 * 1024

// writeFile truncates path and streams encode's output into it through a
// buffered writer, then flushes and fsyncs before closing.
func writeFile(path string, encode func(io.Writer) error) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	w := bufio.NewWriterSize(file, writeBufferSize)
	if err := encode(w); err != nil {
		_ = file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}

// readFile opens path and hands a buffered reader to decode
func readFile(path string, decode func(io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return decode(bufio.NewReader(file))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
