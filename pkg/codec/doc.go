// Package codec provides the record-list formats used to persist a roster.
//
// A roster is written in three redundant formats, each selected by file
// extension. All three encode the same ordered list of student records and are
// independent of each other: any one of them is enough to restore the roster.
//
// # Binary Format (.dat)
//
// Records are concatenated with no header, record count or separator:
//
//	[NameLen(uvarint)][FullName][GroupLen(uvarint)][Group][SubjectLen(uvarint)][Subject][Grade(4)][Expelled(1)]
//
// Fields:
//   - string lengths: byte counts in 7-bit groups, low group first, high bit set on
//     every byte but the last (the same layout as encoding/binary uvarints)
//   - strings: UTF-8 bytes
//   - Grade: 32-bit signed integer (little-endian)
//   - Expelled: one byte, 0 or 1
//
// Decoding reads until the stream ends on a record boundary. A stream that ends
// inside a record, declares a string longer than MaxFieldSize, carries invalid
// UTF-8 or a flag byte other than 0 or 1 is rejected with ErrFormat.
//
// # Text Format (.txt)
//
// One record per line, fields joined by ';':
//
//	fullName;group;subject;grade;expelled
//
// The flag is written as "True" or "False". Decoding is a line stream and is
// permissive: a trailing '\r' is dropped, lines with fewer than four fields are
// skipped, an unparsable grade becomes 0 and a missing or unparsable flag
// becomes false.
//
// # Bytes Format (.bin)
//
// The same textual encoding as the text format, produced and consumed as one
// UTF-8 blob. The blob is split on '\n' and empty entries are discarded.
//
// # Limitations
//
// The text and bytes formats do not escape ';' or newlines. A field containing
// either will not round-trip. This is kept for compatibility with existing files.
//
// # Usage
//
//	c := codec.ForFormat(codec.FormatBinary)
//	if err := c.Encode(w, records); err != nil {
//	    return err
//	}
//
//	records, err := c.Decode(r)
//	if errors.Is(err, codec.ErrFormat) {
//	    // try another format
//	}
//
// Decode never returns a partial list: on error the result is nil.
package codec
