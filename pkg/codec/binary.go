package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/ssargent/roster/pkg/student"
)

// MaxFieldSize is the largest string a binary record may declare.
const MaxFieldSize = 1 << 20

// BinaryCodec implements the length-prefixed .dat format
type BinaryCodec struct{}

// NewBinaryCodec creates a new binary codec instance
func NewBinaryCodec() *BinaryCodec {
	return &BinaryCodec{}
}

// Format returns FormatBinary
func (c *BinaryCodec) Format() Format {
	return FormatBinary
}

// Encode serializes records back to back
// Format: [len][FullName][len][Group][len][Subject][Grade(4)][Expelled(1)]
func (c *BinaryCodec) Encode(w io.Writer, records []student.Record) error {
	bw := bufio.NewWriter(w)
	var scratch [binary.MaxVarintLen64]byte

	for i, r := range records {
		if r.Grade < math.MinInt32 || r.Grade > math.MaxInt32 {
			return fmt.Errorf("record %d: grade %d does not fit in 32 bits", i, r.Grade)
		}
		for _, s := range [...]string{r.FullName, r.Group, r.Subject} {
			n := binary.PutUvarint(scratch[:], uint64(len(s)))
			if _, err := bw.Write(scratch[:n]); err != nil {
				return err
			}
			if _, err := bw.WriteString(s); err != nil {
				return err
			}
		}

		binary.LittleEndian.PutUint32(scratch[:4], uint32(int32(r.Grade)))
		if _, err := bw.Write(scratch[:4]); err != nil {
			return err
		}

		var flag byte
		if r.Expelled {
			flag = 1
		}
		if err := bw.WriteByte(flag); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Decode reads records until the stream ends on a record boundary
func (c *BinaryCodec) Decode(r io.Reader) ([]student.Record, error) {
	br := bufio.NewReader(r)
	records := []student.Record{}

	for {
		if _, err := br.Peek(1); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, err
		}

		rec, err := readBinaryRecord(br)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
}

func readBinaryRecord(br *bufio.Reader) (student.Record, error) {
	var rec student.Record
	var err error

	if rec.FullName, err = readString(br); err != nil {
		return rec, err
	}
	if rec.Group, err = readString(br); err != nil {
		return rec, err
	}
	if rec.Subject, err = readString(br); err != nil {
		return rec, err
	}

	var tail [5]byte
	if _, err := io.ReadFull(br, tail[:]); err != nil {
		return rec, fmt.Errorf("%w: truncated grade/flag: %v", ErrFormat, err)
	}
	rec.Grade = int(int32(binary.LittleEndian.Uint32(tail[:4])))

	switch tail[4] {
	case 0:
		rec.Expelled = false
	case 1:
		rec.Expelled = true
	default:
		return rec, fmt.Errorf("%w: invalid flag byte 0x%02x", ErrFormat, tail[4])
	}

	return rec, nil
}

func readString(br *bufio.Reader) (string, error) {
	n, err := binary.ReadUvarint(br)
	if err != nil {
		return "", fmt.Errorf("%w: string length: %v", ErrFormat, err)
	}
	if n > MaxFieldSize {
		return "", fmt.Errorf("%w: string length %d exceeds %d", ErrFormat, n, MaxFieldSize)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(br, buf); err != nil {
		return "", fmt.Errorf("%w: truncated string: %v", ErrFormat, err)
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w: string is not valid UTF-8", ErrFormat)
	}

	return string(buf), nil
}
