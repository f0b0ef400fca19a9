package treasury

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/etnz/treasury/date"
)

// SettlementState is the lifecycle stage of a transaction's clearing.
// A transaction is in exactly one state, and its amount contributes to
// exactly one of the three running totals.
type SettlementState int

const (
	// Planned transactions are anticipated but not yet committed.
	Planned SettlementState = iota
	// InProgress transactions are committed (engaged) but not yet cleared.
	InProgress
	// Executed transactions have cleared on the account.
	Executed
)

func (s SettlementState) String() string {
	switch s {
	case Planned:
		return "planned"
	case InProgress:
		return "in-progress"
	case Executed:
		return "executed"
	default:
		return "unknown"
	}
}

// ParseSettlementState parses a state name. Besides the canonical names
// it accepts the labels used by legacy French ledger files.
func ParseSettlementState(s string) (SettlementState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "planned", "prévu", "prevu":
		return Planned, nil
	case "in-progress", "engagé", "engage":
		return InProgress, nil
	case "executed", "pointé", "pointe":
		return Executed, nil
	default:
		return 0, fmt.Errorf("unknown settlement state: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler, so the state appears
// as its canonical name in JSON.
func (s SettlementState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SettlementState) UnmarshalText(text []byte) error {
	v, err := ParseSettlementState(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Transaction is a single ledger entry. The engine never mutates a
// transaction; create, edit and delete go through the persistence layer.
type Transaction struct {
	ID     uuid.UUID
	Date   date.Date // settlement day
	Amount Amount
	State  SettlementState
	Memo   string
}

// NewTransaction creates a transaction with a fresh identifier.
func NewTransaction(on date.Date, amount Amount, state SettlementState, memo string) Transaction {
	return Transaction{ID: uuid.New(), Date: on, Amount: amount, State: state, Memo: memo}
}

// When returns the settlement day of the transaction.
func (t Transaction) When() date.Date { return t.Date }

// Equal reports whether two transactions carry the same data.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID && t.Date == o.Date && t.Amount.Equal(o.Amount) &&
		t.State == o.State && t.Memo == o.Memo
}

// SortTransactions sorts transactions by settlement day. The sort is
// stable, transactions on the same day keep their relative order.
func SortTransactions(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date)
	})
}

// SettlementSpan returns the range from the earliest to the latest
// settlement day, and false when the set is empty.
func SettlementSpan(txs []Transaction) (date.Range, bool) {
	if len(txs) == 0 {
		return date.Range{}, false
	}
	min, max := txs[0].Date, txs[0].Date
	for _, t := range txs[1:] {
		if t.Date.Before(min) {
			min = t.Date
		}
		if t.Date.After(max) {
			max = t.Date
		}
	}
	return date.Range{From: min, To: max}, true
}

// ByState returns a predicate that keeps transactions in the given state.
func ByState(s SettlementState) func(Transaction) bool {
	return func(t Transaction) bool { return t.State == s }
}

// ByDay returns a predicate that keeps transactions settling on the
// given calendar day.
func ByDay(d date.Date) func(Transaction) bool {
	return func(t Transaction) bool { return t.Date == d }
}

// InRange returns a predicate that keeps transactions settling within
// the range, boundaries included.
func InRange(r date.Range) func(Transaction) bool {
	return func(t Transaction) bool { return r.Contains(t.Date) }
}

// Filter returns the transactions accepted by the predicate, in order.
func Filter(txs []Transaction, keep func(Transaction) bool) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
