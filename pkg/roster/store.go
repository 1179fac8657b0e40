// Package roster holds the active and expelled student rosters.
//
// A record lives in exactly one of the two rosters. Expel, Restore and Purge
// move records between them; nothing hands out references into the
// underlying slices, so a record can never be shared by both.
package roster

import (
	"strings"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/roster/pkg/student"
)

// Store owns the active roster and the expelled roster
type Store struct {
	active   []student.Record
	expelled []student.Record
}

// NewStore creates a store holding records as the active roster
func NewStore(records []student.Record) *Store {
	s := &Store{}
	s.Reset(records)
	return s
}

// Reset replaces the active roster with records and empties the expelled roster.
// Records without an ID get one.
func (s *Store) Reset(records []student.Record) {
	s.active = make([]student.Record, 0, len(records))
	s.expelled = nil
	for _, r := range records {
		s.active = append(s.active, withID(r))
	}
}

// Len returns the number of active records
func (s *Store) Len() int {
	return len(s.active)
}

// ExpelledLen returns the number of expelled records
func (s *Store) ExpelledLen() int {
	return len(s.expelled)
}

// At returns a copy of the active record at index i
func (s *Store) At(i int) (student.Record, error) {
	if i < 0 || i >= len(s.active) {
		return student.Record{}, indexError(i, len(s.active))
	}
	return s.active[i], nil
}

// Active returns a copy of the active roster
func (s *Store) Active() []student.Record {
	return append([]student.Record(nil), s.active...)
}

// Expelled returns a copy of the expelled roster
func (s *Store) Expelled() []student.Record {
	return append([]student.Record(nil), s.expelled...)
}

// Snapshot returns every record, active roster first, in the order they are
// persisted.
func (s *Store) Snapshot() []student.Record {
	out := make([]student.Record, 0, len(s.active)+len(s.expelled))
	out = append(out, s.active...)
	return append(out, s.expelled...)
}

// AddActive appends r to the active roster and returns it with its ID
func (s *Store) AddActive(r student.Record) student.Record {
	r = withID(r)
	s.active = append(s.active, r)
	return r
}

// UpdateAt overwrites the fields of the active record at index i. The
// record keeps its ID.
func (s *Store) UpdateAt(i int, r student.Record) error {
	if i < 0 || i >= len(s.active) {
		return indexError(i, len(s.active))
	}
	r.ID = s.active[i].ID
	s.active[i] = r
	return nil
}

// RemoveActiveAt deletes the active record at index i
func (s *Store) RemoveActiveAt(i int) (student.Record, error) {
	if i < 0 || i >= len(s.active) {
		return student.Record{}, indexError(i, len(s.active))
	}
	r := s.active[i]
	s.active = append(s.active[:i], s.active[i+1:]...)
	return r, nil
}

// Expel moves the active record at index i to the end of the expelled
// roster and sets its flag
func (s *Store) Expel(i int) (student.Record, error) {
	r, err := s.RemoveActiveAt(i)
	if err != nil {
		return student.Record{}, err
	}
	r.Expelled = true
	s.expelled = append(s.expelled, r)
	return r, nil
}

// Restore moves an expelled record back to the end of the active roster and
// clears its flag
func (s *Store) Restore(id ksuid.KSUID) (student.Record, error) {
	r, err := s.takeExpelled(id)
	if err != nil {
		return student.Record{}, err
	}
	r.Expelled = false
	s.active = append(s.active, r)
	return r, nil
}

// Purge permanently removes an expelled record
func (s *Store) Purge(id ksuid.KSUID) (student.Record, error) {
	return s.takeExpelled(id)
}

// FindDuplicate looks for an active record with the same full name and group,
// ignoring case. The record at index excluding is skipped; pass -1 to search
// the whole roster.
func (s *Store) FindDuplicate(fullName, group string, excluding int) (student.Record, bool) {
	fullName = strings.TrimSpace(fullName)
	group = strings.TrimSpace(group)
	for i, r := range s.active {
		if i == excluding {
			continue
		}
		if r.SameKey(fullName, group) {
			return r, true
		}
	}
	return student.Record{}, false
}

// Compact moves active records that carry the expelled flag into the
// expelled roster, keeping their relative order. It returns how many moved.
func (s *Store) Compact() int {
	kept := s.active[:0]
	moved := 0
	for _, r := range s.active {
		if r.Expelled {
			s.expelled = append(s.expelled, r)
			moved++
			continue
		}
		kept = append(kept, r)
	}
	s.active = kept
	return moved
}

func (s *Store) takeExpelled(id ksuid.KSUID) (student.Record, error) {
	for i, r := range s.expelled {
		if r.ID == id {
			s.expelled = append(s.expelled[:i], s.expelled[i+1:]...)
			return r, nil
		}
	}
	return student.Record{}, notFoundError(id)
}

func withID(r student.Record) student.Record {
	if r.ID.IsNil() {
		r.ID = ksuid.New()
	}
	return r
}
