package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ssargent/roster/pkg/student"
)

// Format identifies one of the record-list encodings
type Format int

const (
	FormatUnknown Format = iota
	FormatBinary
	FormatText
	FormatBytes
)

// Formats lists the known formats in fallback priority order.
var Formats = []Format{FormatBinary, FormatText, FormatBytes}

// Errors
var (
	ErrFormat        = errors.New("malformed record data")
	ErrUnknownFormat = errors.New("unknown record format")
)

// Codec encodes and decodes an ordered list of student records
type Codec interface {
	// Format returns the format this codec implements.
	Format() Format
	// Encode writes records to w.
	Encode(w io.Writer, records []student.Record) error
	// Decode reads every record from r. On error no records are returned.
	Decode(r io.Reader) ([]student.Record, error)
}

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatText:
		return "text"
	case FormatBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Extension returns the file extension for the format, including the dot
func (f Format) Extension() string {
	switch f {
	case FormatBinary:
		return ".dat"
	case FormatText:
		return ".txt"
	case FormatBytes:
		return ".bin"
	default:
		return ""
	}
}

// FormatFromPath resolves a format from the extension of path. Matching is
// case-insensitive.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dat":
		return FormatBinary, true
	case ".txt":
		return FormatText, true
	case ".bin":
		return FormatBytes, true
	default:
		return FormatUnknown, false
	}
}

// ParseFormat resolves a format from its name or extension
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "binary", "dat", ".dat":
		return FormatBinary, nil
	case "text", "txt", ".txt":
		return FormatText, nil
	case "bytes", "bin", ".bin":
		return FormatBytes, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ForFormat returns the codec for f, or nil if f is unknown
func ForFormat(f Format) Codec {
	switch f {
	case FormatBinary:
		return NewBinaryCodec()
	case FormatText:
		return NewTextCodec()
	case FormatBytes:
		return NewBytesCodec()
	default:
		return nil
	}
}

// Marshal encodes records in format f
func Marshal(f Format, records []student.Record) ([]byte, error) {
	c := ForFormat(f)
	if c == nil {
		return nil, ErrUnknownFormat
	}
	var buf bytes.Buffer
	if err := c.Encode(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes records in format f
func Unmarshal(f Format, data []byte) ([]student.Record, error) {
	c := ForFormat(f)
	if c == nil {
		return nil, ErrUnknownFormat
	}
	return c.Decode(bytes.NewReader(data))
}
