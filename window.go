package treasury

import (
	"errors"
	"fmt"

	"github.com/etnz/treasury/date"
)

// ErrInvalidWindow reports a window whose start offset is after its end
// offset. The call is rejected and the previous window kept; offsets are
// never silently swapped.
var ErrInvalidWindow = errors.New("invalid window")

// Window is a contiguous range of day offsets, both measured from the
// dataset's minimum settlement date, boundaries included.
type Window struct {
	Start int
	End   int
}

// NewWindow creates a window, rejecting a start after the end.
func NewWindow(start, end int) (Window, error) {
	if start > end {
		return Window{}, fmt.Errorf("%w: start offset %d after end offset %d", ErrInvalidWindow, start, end)
	}
	return Window{Start: start, End: end}, nil
}

// Clamp pulls the window into [0, max]. The relative order of the
// offsets is preserved.
func (w Window) Clamp(max int) Window {
	if w.End > max {
		w.End = max
	}
	if w.End < 0 {
		w.End = 0
	}
	if w.Start > w.End {
		w.Start = w.End
	}
	if w.Start < 0 {
		w.Start = 0
	}
	return w
}

// Len returns the number of day offsets covered, boundaries included.
func (w Window) Len() int { return w.End - w.Start + 1 }

// Contains reports whether the offset lies within the window.
func (w Window) Contains(offset int) bool { return offset >= w.Start && offset <= w.End }

// Range returns the calendar days covered by the window, given the date
// at offset zero.
func (w Window) Range(base date.Date) date.Range {
	return date.Range{From: base.Add(w.Start), To: base.Add(w.End)}
}
