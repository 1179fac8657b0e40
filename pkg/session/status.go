package session

import (
	"fmt"
	"io"
	"time"
)

// StatusTimeLayout is the clock prefix of every status line
const StatusTimeLayout = "15:04:05"

// statusLine keeps the most recent user-facing message and echoes every
// message to an optional writer.
type statusLine struct {
	w    io.Writer
	now  func() time.Time
	last string
}

func newStatusLine(w io.Writer, now func() time.Time) *statusLine {
	if w == nil {
		w = io.Discard
	}
	if now == nil {
		now = time.Now
	}
	return &statusLine{w: w, now: now}
}

func (s *statusLine) report(format string, args ...any) string {
	s.last = fmt.Sprintf("%s - %s", s.now().Format(StatusTimeLayout), fmt.Sprintf(format, args...))
	fmt.Fprintln(s.w, s.last)
	return s.last
}
