package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ssargent/roster/pkg/student"
)

// Field names one input of the edit form
type Field int

const (
	FieldFullName Field = iota
	FieldGroup
	FieldSubject
	FieldGrade
)

// String returns the field name
func (f Field) String() string {
	switch f {
	case FieldFullName:
		return "full name"
	case FieldGroup:
		return "group"
	case FieldSubject:
		return "subject"
	case FieldGrade:
		return "grade"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// ParseField resolves a field from user input such as "name" or "grade"
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "fullname", "full_name", "full-name":
		return FieldFullName, nil
	case "group":
		return FieldGroup, nil
	case "subject":
		return FieldSubject, nil
	case "grade":
		return FieldGrade, nil
	default:
		return 0, fmt.Errorf("unknown field %q", s)
	}
}

// Buffer is the working copy of the record under the cursor, as typed
type Buffer struct {
	FullName string `json:"full_name"`
	Group    string `json:"group"`
	Subject  string `json:"subject"`
	Grade    string `json:"grade"`
}

// BufferFrom fills a buffer from a stored record. An ungraded record shows an
// empty grade.
func BufferFrom(r student.Record) Buffer {
	b := Buffer{
		FullName: r.FullName,
		Group:    r.Group,
		Subject:  r.Subject,
	}
	if r.Grade != student.Ungraded {
		b.Grade = strconv.Itoa(r.Grade)
	}
	return b
}

// Get returns the value of field f
func (b Buffer) Get(f Field) string {
	switch f {
	case FieldFullName:
		return b.FullName
	case FieldGroup:
		return b.Group
	case FieldSubject:
		return b.Subject
	case FieldGrade:
		return b.Grade
	default:
		return ""
	}
}

// With returns a copy of b with field f set to v
func (b Buffer) With(f Field, v string) Buffer {
	switch f {
	case FieldFullName:
		b.FullName = v
	case FieldGroup:
		b.Group = v
	case FieldSubject:
		b.Subject = v
	case FieldGrade:
		b.Grade = v
	}
	return b
}

// IsBlank reports whether every field is empty or whitespace
func (b Buffer) IsBlank() bool {
	return strings.TrimSpace(b.FullName) == "" &&
		strings.TrimSpace(b.Group) == "" &&
		strings.TrimSpace(b.Subject) == "" &&
		strings.TrimSpace(b.Grade) == ""
}

// Trimmed returns b with surrounding whitespace removed from every field
func (b Buffer) Trimmed() Buffer {
	return Buffer{
		FullName: strings.TrimSpace(b.FullName),
		Group:    strings.TrimSpace(b.Group),
		Subject:  strings.TrimSpace(b.Subject),
		Grade:    strings.TrimSpace(b.Grade),
	}
}

// Record validates the buffer and converts it to a record.
// Full name, group and subject are required; the grade is either empty
// (stored as 0) or an integer from 1 to 5.
func (b Buffer) Record() (student.Record, error) {
	t := b.Trimmed()
	for _, f := range []Field{FieldFullName, FieldGroup, FieldSubject} {
		if t.Get(f) == "" {
			return student.Record{}, &ValidationError{Field: f, Err: ErrMissingField}
		}
	}

	grade, err := ParseGrade(t.Grade)
	if err != nil {
		return student.Record{}, err
	}

	return student.Record{
		FullName: t.FullName,
		Group:    t.Group,
		Subject:  t.Subject,
		Grade:    grade,
	}, nil
}

// ParseGrade converts typed grade text. Empty text is ungraded; anything else
// must be an integer from 1 to 5, so a literal "0" is rejected.
func ParseGrade(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return student.Ungraded, nil
	}
	g, err := strconv.Atoi(s)
	if err != nil || g < student.MinGrade || g > student.MaxGrade {
		return 0, &ValidationError{Field: FieldGrade, Value: s, Err: ErrInvalidGrade}
	}
	return g, nil
}
