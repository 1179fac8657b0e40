// Package editor implements the single-record edit form over a roster: a
// cursor into the active roster, an edit buffer with a dirty flag, and the
// rules for committing, discarding or blocking navigation.
//
// The controller is presentation-agnostic. A front end copies Buffer into
// its inputs after every call and feeds typed values back with SetField.
package editor

import (
	"log/slog"

	"github.com/ssargent/roster/pkg/roster"
	"github.com/ssargent/roster/pkg/student"
)

// NoSelection is the cursor value when no record is visible.
const NoSelection = -1

// Options are the user toggles that change navigation and validation
type Options struct {
	CycleNavigation     bool // Prev/Next wrap around at the ends
	AllowDuplicateNames bool // skip the (full name, group) uniqueness check
	ShowExpelled        bool // navigate over records carrying the expelled flag
}

// Controller owns the cursor and the edit buffer
type Controller struct {
	store  *roster.Store
	opts   Options
	logger *slog.Logger

	cursor int
	buf    Buffer
	dirty  bool
}

// NewController creates a controller positioned on the first visible record
func NewController(store *roster.Store, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		store:  store,
		opts:   opts,
		logger: logger,
		cursor: NoSelection,
	}
	c.Reset()
	return c
}

// Options returns the current toggles
func (c *Controller) Options() Options {
	return c.opts
}

// SetOptions changes the toggles. If the record under the cursor becomes
// hidden, pending edits are committed first and the cursor moves. When the
// commit fails the options are left unchanged.
func (c *Controller) SetOptions(opts Options) error {
	prev := c.opts
	c.opts = opts
	if c.normalize(c.cursor) == c.cursor {
		return nil
	}

	c.opts = prev
	if err := c.canNavigateAway(); err != nil {
		return err
	}
	c.opts = opts
	c.moveTo(c.normalize(c.cursor))
	return nil
}

// Cursor returns the active-roster index under edit, or NoSelection
func (c *Controller) Cursor() int {
	return c.cursor
}

// Buffer returns the edit buffer
func (c *Controller) Buffer() Buffer {
	return c.buf
}

// Dirty reports whether the buffer holds uncommitted edits
func (c *Controller) Dirty() bool {
	return c.dirty
}

// Current returns the stored record under the cursor
func (c *Controller) Current() (student.Record, bool) {
	if c.cursor == NoSelection {
		return student.Record{}, false
	}
	r, err := c.store.At(c.cursor)
	if err != nil {
		return student.Record{}, false
	}
	return r, true
}

// Position returns the 1-based position of the cursor among visible records
// and the number of visible records. Both are 0 when nothing is selected.
func (c *Controller) Position() (int, int) {
	pos, total := 0, 0
	for i := 0; i < c.store.Len(); i++ {
		if !c.Visible(i) {
			continue
		}
		total++
		if i == c.cursor {
			pos = total
		}
	}
	if c.cursor == NoSelection {
		return 0, 0
	}
	return pos, total
}

// SetField records a typed value and marks the buffer dirty
func (c *Controller) SetField(f Field, v string) {
	c.buf = c.buf.With(f, v)
	c.dirty = true
}

// SetBuffer replaces every field and marks the buffer dirty
func (c *Controller) SetBuffer(b Buffer) {
	c.buf = b
	c.dirty = true
}

// Clear blanks the form. The stored record is untouched until a commit.
func (c *Controller) Clear() {
	c.buf = Buffer{}
	c.dirty = true
}

// Discard drops uncommitted edits and reloads the buffer from the roster
func (c *Controller) Discard() {
	c.loadBuffer()
}

// Commit validates the buffer and writes it into the record under the
// cursor. A clean buffer, a blank buffer or an empty selection commit
// nothing and succeed.
func (c *Controller) Commit() error {
	if !c.dirty || c.cursor == NoSelection || c.cursor >= c.store.Len() {
		return nil
	}
	if c.buf.IsBlank() {
		c.dirty = false
		return nil
	}

	rec, err := c.buf.Record()
	if err != nil {
		return err
	}

	if !c.opts.AllowDuplicateNames {
		if dup, found := c.store.FindDuplicate(rec.FullName, rec.Group, c.cursor); found {
			c.logger.Debug("duplicate blocked commit", "full_name", dup.FullName, "group", dup.Group)
			return &ValidationError{Field: FieldFullName, Value: rec.FullName, Err: ErrDuplicate}
		}
	}

	current, err := c.store.At(c.cursor)
	if err != nil {
		return err
	}
	rec.Expelled = current.Expelled
	if err := c.store.UpdateAt(c.cursor, rec); err != nil {
		return err
	}

	c.buf = BufferFrom(rec)
	c.dirty = false
	c.logger.Debug("record committed", "index", c.cursor, "full_name", rec.FullName)
	return nil
}

// First moves to the first visible record
func (c *Controller) First() error {
	if err := c.canNavigateAway(); err != nil {
		return err
	}
	if i := c.NextVisible(0); i != NoSelection {
		c.moveTo(i)
	}
	return nil
}

// Last moves to the last visible record
func (c *Controller) Last() error {
	if err := c.canNavigateAway(); err != nil {
		return err
	}
	if i := c.PrevVisible(c.store.Len() - 1); i != NoSelection {
		c.moveTo(i)
	}
	return nil
}

// Next moves to the following visible record. At the end it wraps when
// CycleNavigation is set and otherwise stays put.
func (c *Controller) Next() error {
	if err := c.canNavigateAway(); err != nil {
		return err
	}
	if c.cursor == NoSelection {
		return nil
	}
	i := c.NextVisible(c.cursor + 1)
	if i == NoSelection && c.opts.CycleNavigation {
		i = c.NextVisible(0)
	}
	if i != NoSelection {
		c.moveTo(i)
	}
	return nil
}

// Prev moves to the preceding visible record. At the start it wraps when
// CycleNavigation is set and otherwise stays put.
func (c *Controller) Prev() error {
	if err := c.canNavigateAway(); err != nil {
		return err
	}
	if c.cursor == NoSelection {
		return nil
	}
	i := c.PrevVisible(c.cursor - 1)
	if i == NoSelection && c.opts.CycleNavigation {
		i = c.PrevVisible(c.store.Len() - 1)
	}
	if i != NoSelection {
		c.moveTo(i)
	}
	return nil
}

// Goto moves to the active-roster index i
func (c *Controller) Goto(i int) error {
	if _, err := c.store.At(i); err != nil {
		return err
	}
	if !c.Visible(i) {
		return ErrNotVisible
	}
	if err := c.canNavigateAway(); err != nil {
		return err
	}
	c.moveTo(i)
	return nil
}

// New commits the outgoing record, appends a blank record and moves the
// cursor to it. seed holds values about to be typed into the new record;
// when both its full name and group are set they are checked for duplicates
// against the whole roster.
func (c *Controller) New(seed Buffer) error {
	if err := c.canNavigateAway(); err != nil {
		return err
	}

	seed = seed.Trimmed()
	if !c.opts.AllowDuplicateNames && seed.FullName != "" && seed.Group != "" {
		if _, found := c.store.FindDuplicate(seed.FullName, seed.Group, NoSelection); found {
			return &ValidationError{Field: FieldFullName, Value: seed.FullName, Err: ErrDuplicate}
		}
	}

	c.store.AddActive(student.Record{})
	c.cursor = c.store.Len() - 1
	c.buf = seed
	c.dirty = !seed.IsBlank()
	c.logger.Debug("record created", "index", c.cursor)
	return nil
}

// Expel moves the record under the cursor to the expelled roster. Pending
// edits are discarded.
func (c *Controller) Expel() (student.Record, error) {
	if c.cursor == NoSelection {
		return student.Record{}, ErrNoSelection
	}
	r, err := c.store.Expel(c.cursor)
	if err != nil {
		return student.Record{}, err
	}
	c.Refresh()
	return r, nil
}

// Delete permanently removes the record under the cursor. Pending edits
// are discarded.
func (c *Controller) Delete() (student.Record, error) {
	if c.cursor == NoSelection {
		return student.Record{}, ErrNoSelection
	}
	r, err := c.store.RemoveActiveAt(c.cursor)
	if err != nil {
		return student.Record{}, err
	}
	c.Refresh()
	return r, nil
}

// Reset moves the cursor to the first visible record and reloads the buffer.
// Call it after the roster has been replaced.
func (c *Controller) Reset() {
	c.moveTo(c.NextVisible(0))
}

// Refresh clamps the cursor after the roster changed underneath it and
// reloads the buffer.
func (c *Controller) Refresh() {
	i := c.cursor
	if n := c.store.Len(); i >= n {
		i = n - 1
	}
	if i < 0 && c.store.Len() > 0 {
		i = 0
	}
	c.moveTo(c.normalize(i))
}

// Visible reports whether the active record at index i is shown under the
// current options
func (c *Controller) Visible(i int) bool {
	r, err := c.store.At(i)
	if err != nil {
		return false
	}
	return c.opts.ShowExpelled || !r.Expelled
}

// NextVisible returns the first visible index at or after from, or
// NoSelection
func (c *Controller) NextVisible(from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < c.store.Len(); i++ {
		if c.Visible(i) {
			return i
		}
	}
	return NoSelection
}

// PrevVisible returns the last visible index at or before from, or
// NoSelection
func (c *Controller) PrevVisible(from int) int {
	if from >= c.store.Len() {
		from = c.store.Len() - 1
	}
	for i := from; i >= 0; i-- {
		if c.Visible(i) {
			return i
		}
	}
	return NoSelection
}

// normalize maps an index to the nearest visible one: forward first, then
// backward. The roster is never modified.
func (c *Controller) normalize(i int) int {
	if i == NoSelection {
		return c.NextVisible(0)
	}
	if next := c.NextVisible(i); next != NoSelection {
		return next
	}
	return c.PrevVisible(i)
}

// canNavigateAway lets navigation proceed when the buffer is clean or blank,
// and otherwise commits it.
func (c *Controller) canNavigateAway() error {
	if !c.dirty || c.buf.IsBlank() {
		return nil
	}
	return c.Commit()
}

func (c *Controller) moveTo(i int) {
	c.cursor = i
	c.loadBuffer()
}

func (c *Controller) loadBuffer() {
	c.dirty = false
	r, ok := c.Current()
	if !ok {
		c.cursor = NoSelection
		c.buf = Buffer{}
		return
	}
	c.buf = BufferFrom(r)
}
