package treasury

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/etnz/treasury/date"
)

// ErrNoAccount reports an engine operation issued before SetAccount.
var ErrNoAccount = errors.New("no account selected")

// defaultSettle is the debounce settle time for selection gestures.
const defaultSettle = 250 * time.Millisecond

// builderFunc matches BuildSeries. The engine's builder is replaceable
// so tests can count invocations.
type builderFunc func([]Transaction, OpeningBalances, date.Date, Window) ([]DailyPoint, error)

// seriesKey identifies one computed series. A cached entry is served
// only on a full key match; a generation bump or a window change makes
// the key differ and forces a rebuild.
type seriesKey struct {
	account    uuid.UUID
	window     Window
	generation uint64
}

// seriesEntry is the single cache slot of one account.
type seriesEntry struct {
	key      seriesKey
	points   []DailyPoint
	filtered []Transaction // window-filtered, sorted by settlement day
}

// Engine owns the window, selection and cache state of one account
// session. It is safe for use from multiple goroutines, but it is meant
// for a single logical owner: one interactive view per account.
//
// The engine never reaches into ambient state; everything it reads
// comes through the Source it was given.
type Engine struct {
	mu sync.Mutex

	source Source
	build  builderFunc
	cache  *gocache.Cache // one seriesEntry per account id

	account    uuid.UUID
	hasAccount bool

	base        date.Date // calendar day at offset zero
	maxOffset   int
	window      Window
	staleBounds bool

	selected int // pinned day offset, -1 when unselected
	visible  []Transaction

	debounce *debouncer
}

// Option configures an Engine.
type Option func(*Engine)

// WithBuilder replaces the series builder. Intended for tests.
func WithBuilder(b builderFunc) Option {
	return func(e *Engine) { e.build = b }
}

// WithSettle sets the selection debounce settle time. A non-positive
// duration applies selections synchronously.
func WithSettle(d time.Duration) Option {
	return func(e *Engine) { e.debounce = newDebouncer(d) }
}

// NewEngine creates an engine reading from the given source.
func NewEngine(source Source, opts ...Option) *Engine {
	e := &Engine{
		source:   source,
		build:    BuildSeries,
		cache:    gocache.New(gocache.NoExpiration, 0),
		selected: -1,
		debounce: newDebouncer(defaultSettle),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetAccount switches the engine to an account. The previous cache slot
// for that account is dropped unconditionally, the selection is cleared,
// any pending selection gesture is cancelled, and the window resets to
// the account's full day range.
func (e *Engine) SetAccount(ctx context.Context, id uuid.UUID) error {
	e.debounce.cancel()
	e.mu.Lock()
	e.account, e.hasAccount = id, true
	e.selected = -1
	e.visible = nil
	e.staleBounds = true
	// Balances must never leak across accounts, so the slot is dropped
	// even if the generation still matches.
	e.cache.Delete(id.String())
	e.mu.Unlock()
	return e.refreshBounds(ctx, true)
}

// refreshBounds re-derives the account's natural day range from its full
// transaction set and re-clamps (or resets) the window.
func (e *Engine) refreshBounds(ctx context.Context, reset bool) error {
	e.mu.Lock()
	id := e.account
	e.mu.Unlock()

	// The fetch may block on I/O; the lock is never held across it.
	txs, err := e.source.Transactions(ctx, id)
	if err != nil {
		return fmt.Errorf("treasury: refresh bounds: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasAccount || e.account != id {
		// The account changed while the fetch was in flight.
		return nil
	}
	span, ok := SettlementSpan(txs)
	if !ok {
		e.base, e.maxOffset = date.Date{}, 0
		e.window = Window{}
	} else {
		e.base = span.From
		e.maxOffset = span.To.Sub(span.From)
		if reset {
			e.window = Window{Start: 0, End: e.maxOffset}
		} else {
			e.window = e.window.Clamp(e.maxOffset)
		}
	}
	e.staleBounds = false
	return nil
}

// SetWindow narrows or widens the visible day range. A start offset
// after the end offset is rejected with ErrInvalidWindow and the
// previous window is kept; anything else is clamped into the account's
// bounds.
func (e *Engine) SetWindow(start, end int) error {
	w, err := NewWindow(start, end)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasAccount {
		return ErrNoAccount
	}
	e.window = w.Clamp(e.maxOffset)
	if e.selected >= 0 && !e.window.Contains(e.selected) {
		// A pinned day outside the window is no selection at all.
		e.selected = -1
	}
	return nil
}

// Window returns the current day-offset window.
func (e *Engine) Window() Window {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.window
}

// Bounds returns the calendar day at offset zero and the account's
// maximum day offset.
func (e *Engine) Bounds() (base date.Date, maxOffset int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.base, e.maxOffset
}

// Selected returns the pinned day offset, if any.
func (e *Engine) Selected() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected < 0 {
		return 0, false
	}
	return e.selected, true
}

// Series returns the running-balance series for the current window,
// recomputing it only when the account, the window or the source
// generation changed since the last call. On a source failure the
// previous cache slot and visible list are left untouched and the error
// is surfaced to the caller.
func (e *Engine) Series(ctx context.Context) ([]DailyPoint, error) {
	e.mu.Lock()
	if !e.hasAccount {
		e.mu.Unlock()
		return nil, ErrNoAccount
	}
	stale := e.staleBounds
	e.mu.Unlock()

	if stale {
		if err := e.refreshBounds(ctx, false); err != nil {
			return nil, err
		}
	}

	e.mu.Lock()
	id := e.account
	gen := e.source.Generation(id)
	key := seriesKey{account: id, window: e.window, generation: gen}
	if v, ok := e.cache.Get(id.String()); ok {
		if entry := v.(*seriesEntry); entry.key == key {
			points := entry.points
			e.mu.Unlock()
			return points, nil
		}
	}
	base, w := e.base, e.window
	empty := e.base.IsZero()
	e.mu.Unlock()

	if empty {
		// No transactions at all: an empty series is not an error.
		e.commit(id, &seriesEntry{key: key})
		return nil, nil
	}

	// Fetch a snapshot covering offset zero through the window end, so
	// deltas settling before the window fold into the opening balances.
	fetched, err := e.source.TransactionsBetween(ctx, id, base, base.Add(w.End))
	if err != nil {
		return nil, fmt.Errorf("treasury: fetch transactions: %w", err)
	}
	opening, err := e.source.OpeningBalances(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("treasury: fetch opening balances: %w", err)
	}

	in := Filter(fetched, InRange(w.Range(base)))
	if w.Start > 0 {
		pre := date.Range{From: base, To: base.Add(w.Start - 1)}
		for _, t := range Filter(fetched, InRange(pre)) {
			switch t.State {
			case Executed:
				opening.Executed = opening.Executed.Add(t.Amount)
			case InProgress:
				opening.InProgress = opening.InProgress.Add(t.Amount)
			case Planned:
				opening.Planned = opening.Planned.Add(t.Amount)
			}
		}
	}

	var points []DailyPoint
	if len(in) == 0 {
		// The window covers only empty days; gap-fill a flat series from
		// the folded opening balances.
		points = gapFill(opening, w)
	} else {
		points, err = e.build(in, opening, base, w)
		if err != nil {
			return nil, err
		}
	}

	SortTransactions(in)
	e.commit(id, &seriesEntry{key: key, points: points, filtered: in})
	return points, nil
}

// gapFill produces a series over a window without any transaction: every
// point repeats the opening balances.
func gapFill(opening OpeningBalances, w Window) []DailyPoint {
	committed := opening.Executed.Add(opening.InProgress)
	planned := committed.Add(opening.Planned)
	points := make([]DailyPoint, 0, w.Len())
	for offset := w.Start; offset <= w.End; offset++ {
		points = append(points, DailyPoint{
			Offset:    offset,
			Executed:  opening.Executed,
			Committed: committed,
			Planned:   planned,
		})
	}
	return points
}

// commit stores a freshly computed entry unless the account changed
// while the computation was in flight.
func (e *Engine) commit(id uuid.UUID, entry *seriesEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasAccount || e.account != id {
		// Never write into another account's slot.
		return
	}
	e.cache.Set(id.String(), entry, gocache.NoExpiration)
	e.refreshVisibleLocked()
}

// SelectDay pins a single day: after the debounce settles, the visible
// transaction list narrows to that day. The aggregate series is never
// recomputed by a selection. An offset outside the current window counts
// as no selection.
func (e *Engine) SelectDay(offset int) {
	e.mu.Lock()
	if !e.hasAccount {
		e.mu.Unlock()
		return
	}
	if e.selected == offset {
		// Same day re-tapped: cancel whatever was pending, change nothing.
		e.mu.Unlock()
		e.debounce.cancel()
		return
	}
	id := e.account
	e.mu.Unlock()

	e.debounce.do(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.hasAccount || e.account != id {
			return
		}
		if e.window.Contains(offset) {
			e.selected = offset
		} else {
			e.selected = -1
		}
		e.refreshVisibleLocked()
	})
}

// ClearSelection unpins the day: after the debounce settles, the visible
// list reverts to the full window-filtered set.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	if !e.hasAccount {
		e.mu.Unlock()
		return
	}
	id := e.account
	e.mu.Unlock()

	e.debounce.do(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.hasAccount || e.account != id {
			return
		}
		e.selected = -1
		e.refreshVisibleLocked()
	})
}

// VisibleTransactions returns the window-filtered transaction list, or
// the day-filtered list while a selection is active. The slice is owned
// by the engine; callers must not mutate it.
func (e *Engine) VisibleTransactions() []Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

// refreshVisibleLocked re-derives the visible list from the cached
// window-filtered set and the selection state. Callers hold e.mu.
func (e *Engine) refreshVisibleLocked() {
	var filtered []Transaction
	if v, ok := e.cache.Get(e.account.String()); ok {
		filtered = v.(*seriesEntry).filtered
	}
	if e.selected >= 0 && e.window.Contains(e.selected) {
		e.visible = Filter(filtered, ByDay(e.base.Add(e.selected)))
		return
	}
	e.visible = filtered
}

// OnMutation is the invalidation entry point for the persistence layer:
// it must be called after every persisted mutation (create, update,
// delete, undo, redo, import) affecting an account. The next Series call
// re-derives the account bounds and recomputes the series.
func (e *Engine) OnMutation(account uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hasAccount && e.account == account {
		e.staleBounds = true
	}
}
