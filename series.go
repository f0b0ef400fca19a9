package treasury

import (
	"fmt"
	"slices"

	"github.com/etnz/treasury/date"
)

// DailyPoint is one day of the running-balance series.
//
// Committed layers the in-progress deltas on top of the executed
// balance, and Planned layers the planned deltas on top of Committed.
type DailyPoint struct {
	Offset    int // day offset from the dataset's minimum settlement date
	Executed  Amount
	Committed Amount
	Planned   Amount
}

// BuildSeries computes the running-balance series over the window.
//
// It is a pure function: same inputs always produce the same series.
// 'base' is the calendar day at offset zero (the dataset's minimum
// settlement date, owned by the caller, not recomputed here). The input
// need not be sorted; a copy is sorted internally. Transactions settling
// outside the window are ignored: the caller folds pre-window deltas
// into the opening balances.
//
// The series has exactly one point per offset in [w.Start, w.End]. A day
// without transactions repeats the prior day's balances. An empty
// transaction set yields an empty series.
func BuildSeries(txs []Transaction, opening OpeningBalances, base date.Date, w Window) ([]DailyPoint, error) {
	if w.Start > w.End {
		return nil, fmt.Errorf("%w: start offset %d after end offset %d", ErrInvalidWindow, w.Start, w.End)
	}
	if len(txs) == 0 {
		return nil, nil
	}

	sorted := slices.Clone(txs)
	SortTransactions(sorted)

	// Group by calendar day, not by timestamp.
	byDay := make(map[date.Date][]Transaction, len(sorted))
	for _, t := range sorted {
		byDay[t.Date] = append(byDay[t.Date], t)
	}

	// Three independent running sums. Committed and planned balances are
	// re-derived from them at every offset rather than drifted
	// incrementally.
	executed := opening.Executed
	inProgress := opening.InProgress
	planned := opening.Planned

	points := make([]DailyPoint, 0, w.Len())
	for offset := w.Start; offset <= w.End; offset++ {
		for _, t := range byDay[base.Add(offset)] {
			switch t.State {
			case Executed:
				executed = executed.Add(t.Amount)
			case InProgress:
				inProgress = inProgress.Add(t.Amount)
			case Planned:
				planned = planned.Add(t.Amount)
			}
		}
		committed := executed.Add(inProgress)
		points = append(points, DailyPoint{
			Offset:    offset,
			Executed:  executed,
			Committed: committed,
			Planned:   committed.Add(planned),
		})
	}
	return points, nil
}
