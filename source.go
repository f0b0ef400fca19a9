package treasury

import (
	"context"

	"github.com/google/uuid"

	"github.com/etnz/treasury/date"
)

// OpeningBalances seed the three running totals before the earliest day
// of a series. They are added once, at the start, not per transaction.
// They may be negative (overdraft).
type OpeningBalances struct {
	Executed   Amount
	InProgress Amount
	Planned    Amount
}

// Source supplies the account-scoped transaction set the engine works
// on. Implementations must bump the generation counter on every
// persisted mutation (create, update, delete, undo, redo, import)
// affecting an account, so the engine can detect staleness without
// comparing full contents.
type Source interface {
	// Transactions returns all transactions of the account, in any order.
	Transactions(ctx context.Context, account uuid.UUID) ([]Transaction, error)

	// TransactionsBetween returns the transactions settling within
	// [from, to], boundaries included, in any order.
	TransactionsBetween(ctx context.Context, account uuid.UUID, from, to date.Date) ([]Transaction, error)

	// Generation returns a monotonically increasing counter for the
	// account's dataset.
	Generation(account uuid.UUID) uint64

	// OpeningBalances returns the account's seed balances, external to
	// the transaction list itself.
	OpeningBalances(ctx context.Context, account uuid.UUID) (OpeningBalances, error)
}
