// Package student defines the student record shared by the codecs, the roster
// store and the editor.
package student

import (
	"strings"

	"github.com/segmentio/ksuid"
)

// Grade bounds. A grade of 0 means the record is ungraded.
const (
	Ungraded = 0
	MinGrade = 1
	MaxGrade = 5
)

// Record represents one student in a roster
type Record struct {
	ID       ksuid.KSUID `json:"id"` // in-memory handle, never persisted
	FullName string      `json:"full_name"`
	Group    string      `json:"group"`
	Subject  string      `json:"subject"`
	Grade    int         `json:"grade"`
	Expelled bool        `json:"expelled"`
}

// SameKey reports whether r has the given full name and group, ignoring case
// and surrounding whitespace.
func (r Record) SameKey(fullName, group string) bool {
	return strings.EqualFold(strings.TrimSpace(r.FullName), strings.TrimSpace(fullName)) &&
		strings.EqualFold(strings.TrimSpace(r.Group), strings.TrimSpace(group))
}

// IsBlank reports whether every text field is empty and the record is ungraded.
func (r Record) IsBlank() bool {
	return strings.TrimSpace(r.FullName) == "" &&
		strings.TrimSpace(r.Group) == "" &&
		strings.TrimSpace(r.Subject) == "" &&
		r.Grade == Ungraded
}

// ValidGrade reports whether g is in the stored grade domain (0 or 1..5).
func ValidGrade(g int) bool {
	return g == Ungraded || (g >= MinGrade && g <= MaxGrade)
}

// Sample returns the built-in dataset used when nothing can be loaded.
func Sample() []Record {
	return []Record{
		{FullName: "Иванов Иван Иванович", Group: "ИТ-21", Subject: "Программирование", Grade: 5},
		{FullName: "Петрова Анна Сергеевна", Group: "ИТ-21", Subject: "Математика", Grade: 4},
		{FullName: "Сидоров Алексей Петрович", Group: "ИТ-22", Subject: "Физика", Grade: 3},
	}
}

// WithoutIDs returns a copy of records with every ID cleared. Useful when
// comparing records that passed through a codec.
func WithoutIDs(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		r.ID = ksuid.Nil
		out[i] = r
	}
	return out
}
