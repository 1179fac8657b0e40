// Package archive keeps binary-encoded copies of every saved roster in a
// pebble database, keyed by ksuid so that keys sort by creation time.
package archive

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/roster/pkg/codec"
	"github.com/ssargent/roster/pkg/student"
)

// ErrSnapshotNotFound is returned by Get for an unknown id.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot describes one archived roster
type Snapshot struct {
	ID    ksuid.KSUID `json:"id"`
	Time  time.Time   `json:"time"`
	Count int         `json:"count"`
}

// Archive is a pebble-backed snapshot store
type Archive struct {
	db   *pebble.DB
	last ksuid.KSUID
}

// Open opens or creates the archive in dir
func Open(dir string) (*Archive, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", dir, err)
	}
	return &Archive{db: db}, nil
}

// Put stores records under a fresh id and returns it
func (a *Archive) Put(records []student.Record) (ksuid.KSUID, error) {
	data, err := codec.Marshal(codec.FormatBinary, records)
	if err != nil {
		return ksuid.Nil, err
	}

	id := a.nextID()
	if err := a.db.Set(id.Bytes(), data, pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store snapshot: %w", err)
	}
	return id, nil
}

// Get returns the records archived under id. The records carry no IDs.
func (a *Archive) Get(id ksuid.KSUID) ([]student.Record, error) {
	data, closer, err := a.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	// data is only valid until closer.Close, Unmarshal copies what it keeps
	return codec.Unmarshal(codec.FormatBinary, data)
}

// List returns every snapshot, newest first
func (a *Archive) List() ([]Snapshot, error) {
	iter, err := a.db.NewIter(nil)
	if err != nil {
		return nil, err
	}

	var out []Snapshot
	for iter.Last(); iter.Valid(); iter.Prev() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			continue
		}
		records, err := codec.Unmarshal(codec.FormatBinary, iter.Value())
		if err != nil {
			_ = iter.Close()
			return nil, fmt.Errorf("snapshot %s: %w", id, err)
		}
		out = append(out, Snapshot{ID: id, Time: id.Time(), Count: len(records)})
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

// nextID keeps ids strictly increasing within one process so that List
// order matches Put order even for saves in the same second.
func (a *Archive) nextID() ksuid.KSUID {
	id := ksuid.New()
	if ksuid.Compare(id, a.last) <= 0 {
		id = a.last.Next()
	}
	a.last = id
	return id
}

// Close closes the underlying database
func (a *Archive) Close() error {
	return a.db.Close()
}
