package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ssargent/roster/pkg/student"
)

const (
	fieldSeparator = ";"
	// MaxLineSize bounds a single line of the text format.
	MaxLineSize = 4 * MaxFieldSize
)

// TextCodec implements the line-oriented .txt format
type TextCodec struct{}

// NewTextCodec creates a new text codec instance
func NewTextCodec() *TextCodec {
	return &TextCodec{}
}

// Format returns FormatText
func (c *TextCodec) Format() Format {
	return FormatText
}

// Encode writes one line per record
func (c *TextCodec) Encode(w io.Writer, records []student.Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := bw.WriteString(formatLine(r)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads records line by line, skipping lines with too few fields
func (c *TextCodec) Decode(r io.Reader) ([]student.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	records := []student.Record{}
	for scanner.Scan() {
		if rec, ok := parseLine(scanner.Text()); ok {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	return records, nil
}

// BytesCodec implements the .bin format: the text encoding handled as a
// single byte blob
type BytesCodec struct{}

// NewBytesCodec creates a new bytes codec instance
func NewBytesCodec() *BytesCodec {
	return &BytesCodec{}
}

// Format returns FormatBytes
func (c *BytesCodec) Format() Format {
	return FormatBytes
}

// Encode builds the whole blob in memory and writes it at once
func (c *BytesCodec) Encode(w io.Writer, records []student.Record) error {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(formatLine(r))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Decode reads the whole blob and splits it into records
func (c *BytesCodec) Decode(r io.Reader) ([]student.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	records := []student.Record{}
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		if rec, ok := parseLine(strings.TrimSuffix(line, "\r")); ok {
			records = append(records, rec)
		}
	}

	return records, nil
}

func formatLine(r student.Record) string {
	return strings.Join([]string{
		r.FullName,
		r.Group,
		r.Subject,
		strconv.Itoa(r.Grade),
		formatFlag(r.Expelled),
	}, fieldSeparator)
}

func formatFlag(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// parseLine decodes one text record. Invalid UTF-8 is replaced so the
// fields can be re-encoded by every codec. ok is false when the line has
// fewer than four fields.
func parseLine(line string) (student.Record, bool) {
	line = strings.ToValidUTF8(line, "\uFFFD")
	parts := strings.Split(line, fieldSeparator)
	if len(parts) < 4 {
		return student.Record{}, false
	}

	rec := student.Record{
		FullName: parts[0],
		Group:    parts[1],
		Subject:  parts[2],
	}
	if g, err := strconv.Atoi(strings.TrimSpace(parts[3])); err == nil {
		rec.Grade = g
	}
	if len(parts) > 4 {
		rec.Expelled = strings.EqualFold(strings.TrimSpace(parts[4]), "true")
	}

	return rec, true
}
