// Package store persists ledger accounts and transactions in SQLite and
// implements the treasury.Source interface.
//
// Every mutating operation runs in a database transaction, bumps the
// account's generation counter, records its inverse on the account's
// undo stack, and notifies the registered mutation hook. The engine
// relies on that contract to invalidate its caches.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/etnz/treasury"
	"github.com/etnz/treasury/date"
)

// ErrNotFound reports a missing account or transaction.
var ErrNotFound = errors.New("not found")

// ErrNothingToUndo reports an empty undo stack.
var ErrNothingToUndo = errors.New("nothing to undo")

// ErrNothingToRedo reports an empty redo stack.
var ErrNothingToRedo = errors.New("nothing to redo")

// Account is the persisted account row: identity, display name, the
// account currency and the three opening balances.
type Account struct {
	ID       uuid.UUID
	Name     string
	Currency string
	Opening  treasury.OpeningBalances
}

// step is one direction of a recorded mutation, run inside a database
// transaction.
type step func(ctx context.Context, tx *sql.Tx) error

// revision pairs a mutation with its inverse so it can be undone and
// redone. Stacks are per account and live for the session.
type revision struct {
	label string
	redo  step
	undo  step
}

// Store is a SQLite-backed transaction source.
type Store struct {
	db  *sql.DB
	log zerolog.Logger

	mu          sync.Mutex
	generations map[uuid.UUID]uint64
	undos       map[uuid.UUID][]revision
	redos       map[uuid.UUID][]revision
	onMutation  func(uuid.UUID)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the structured logger. The default discards.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open opens (and initializes if needed) the SQLite database at path.
// Use ":memory:" for an ephemeral store.
func Open(path string, opts ...Option) (*Store, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// Single connection avoids SQLite locking issues.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	s := &Store{
		db:          db,
		log:         zerolog.Nop(),
		generations: make(map[uuid.UUID]uint64),
		undos:       make(map[uuid.UUID][]revision),
		redos:       make(map[uuid.UUID][]revision),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// SetOnMutation registers the hook called after every persisted
// mutation, with the affected account id. Typically the engine's
// OnMutation method.
func (s *Store) SetOnMutation(fn func(uuid.UUID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMutation = fn
}

// --- accounts ---

// CreateAccount creates an account with the given opening balances.
func (s *Store) CreateAccount(ctx context.Context, name, currency string, opening treasury.OpeningBalances) (Account, error) {
	a := Account{ID: uuid.New(), Name: name, Currency: currency, Opening: opening}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, currency, opening_executed, opening_in_progress, opening_planned)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID.String(), name, currency,
		opening.Executed.DecimalString(),
		opening.InProgress.DecimalString(),
		opening.Planned.DecimalString())
	if err != nil {
		return Account{}, fmt.Errorf("store: create account %q: %w", name, err)
	}
	s.log.Info().Str("account", a.ID.String()).Str("name", name).Msg("account created")
	return a, nil
}

// Accounts returns all accounts, ordered by name.
func (s *Store) Accounts(ctx context.Context) ([]Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, currency, opening_executed, opening_in_progress, opening_planned
		 FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("store: list accounts: %w", err)
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Account returns the account with the given id.
func (s *Store) Account(ctx context.Context, id uuid.UUID) (Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, currency, opening_executed, opening_in_progress, opening_planned
		 FROM accounts WHERE id = ?`, id.String())
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, fmt.Errorf("store: account %s: %w", id, ErrNotFound)
	}
	return a, err
}

// AccountByName returns the account with the given name.
func (s *Store) AccountByName(ctx context.Context, name string) (Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, currency, opening_executed, opening_in_progress, opening_planned
		 FROM accounts WHERE name = ?`, name)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, fmt.Errorf("store: account %q: %w", name, ErrNotFound)
	}
	return a, err
}

type scanner interface{ Scan(dest ...any) error }

func scanAccount(row scanner) (Account, error) {
	var id, name, currency, executed, inProgress, planned string
	if err := row.Scan(&id, &name, &currency, &executed, &inProgress, &planned); err != nil {
		return Account{}, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return Account{}, fmt.Errorf("store: corrupt account id %q: %w", id, err)
	}
	a := Account{ID: uid, Name: name, Currency: currency}
	if a.Opening.Executed, err = treasury.ParseAmount(executed, currency); err != nil {
		return Account{}, fmt.Errorf("store: corrupt opening balance: %w", err)
	}
	if a.Opening.InProgress, err = treasury.ParseAmount(inProgress, currency); err != nil {
		return Account{}, fmt.Errorf("store: corrupt opening balance: %w", err)
	}
	if a.Opening.Planned, err = treasury.ParseAmount(planned, currency); err != nil {
		return Account{}, fmt.Errorf("store: corrupt opening balance: %w", err)
	}
	return a, nil
}

// --- treasury.Source ---

// Transactions returns all transactions of the account.
func (s *Store) Transactions(ctx context.Context, account uuid.UUID) ([]treasury.Transaction, error) {
	return s.queryTransactions(ctx, account,
		`SELECT id, settled_on, amount, state, memo FROM transactions
		 WHERE account_id = ? ORDER BY settled_on`, account.String())
}

// TransactionsBetween returns the transactions settling within [from, to].
func (s *Store) TransactionsBetween(ctx context.Context, account uuid.UUID, from, to date.Date) ([]treasury.Transaction, error) {
	return s.queryTransactions(ctx, account,
		`SELECT id, settled_on, amount, state, memo FROM transactions
		 WHERE account_id = ? AND settled_on >= ? AND settled_on <= ? ORDER BY settled_on`,
		account.String(), from.String(), to.String())
}

// Generation returns the account's mutation counter.
func (s *Store) Generation(account uuid.UUID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[account]
}

// OpeningBalances returns the account's seed balances.
func (s *Store) OpeningBalances(ctx context.Context, account uuid.UUID) (treasury.OpeningBalances, error) {
	a, err := s.Account(ctx, account)
	if err != nil {
		return treasury.OpeningBalances{}, err
	}
	return a.Opening, nil
}

func (s *Store) queryTransactions(ctx context.Context, account uuid.UUID, query string, args ...any) ([]treasury.Transaction, error) {
	a, err := s.Account(ctx, account)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query transactions: %w", err)
	}
	defer rows.Close()
	var txs []treasury.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows, a.Currency)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func scanTransaction(row scanner, currency string) (treasury.Transaction, error) {
	var id, settledOn, amount, state, memo string
	if err := row.Scan(&id, &settledOn, &amount, &state, &memo); err != nil {
		return treasury.Transaction{}, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return treasury.Transaction{}, fmt.Errorf("store: corrupt transaction id %q: %w", id, err)
	}
	on, err := date.Parse(settledOn)
	if err != nil {
		return treasury.Transaction{}, fmt.Errorf("store: corrupt settlement date: %w", err)
	}
	a, err := treasury.ParseAmount(amount, currency)
	if err != nil {
		return treasury.Transaction{}, fmt.Errorf("store: corrupt amount: %w", err)
	}
	st, err := treasury.ParseSettlementState(state)
	if err != nil {
		return treasury.Transaction{}, fmt.Errorf("store: corrupt state: %w", err)
	}
	return treasury.Transaction{ID: uid, Date: on, Amount: a, State: st, Memo: memo}, nil
}

// --- mutations ---

// SaveTransaction creates or updates a transaction on the account.
func (s *Store) SaveTransaction(ctx context.Context, account uuid.UUID, t treasury.Transaction) error {
	prev, existed, err := s.getTransaction(ctx, account, t.ID)
	if err != nil {
		return err
	}
	rev := revision{label: "save", redo: writeStep(account, t)}
	if existed {
		rev.undo = writeStep(account, prev)
	} else {
		rev.undo = deleteStep(t.ID)
	}
	return s.apply(ctx, account, rev)
}

// DeleteTransaction removes a transaction from the account.
func (s *Store) DeleteTransaction(ctx context.Context, account, id uuid.UUID) error {
	prev, existed, err := s.getTransaction(ctx, account, id)
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("store: transaction %s: %w", id, ErrNotFound)
	}
	return s.apply(ctx, account, revision{
		label: "delete",
		redo:  deleteStep(id),
		undo:  writeStep(account, prev),
	})
}

// Import applies an imported batch as a single mutation: one generation
// bump, one undo entry for the whole batch.
func (s *Store) Import(ctx context.Context, account uuid.UUID, txs []treasury.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	redo := func(ctx context.Context, tx *sql.Tx) error {
		for _, t := range txs {
			if err := insertTransaction(ctx, tx, account, t); err != nil {
				return err
			}
		}
		return nil
	}
	undo := func(ctx context.Context, tx *sql.Tx) error {
		for _, t := range txs {
			if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, t.ID.String()); err != nil {
				return err
			}
		}
		return nil
	}
	return s.apply(ctx, account, revision{label: "import", redo: redo, undo: undo})
}

// Undo reverts the account's most recent mutation.
func (s *Store) Undo(ctx context.Context, account uuid.UUID) error {
	s.mu.Lock()
	stack := s.undos[account]
	if len(stack) == 0 {
		s.mu.Unlock()
		return ErrNothingToUndo
	}
	rev := stack[len(stack)-1]
	s.undos[account] = stack[:len(stack)-1]
	s.mu.Unlock()

	if err := s.run(ctx, rev.undo); err != nil {
		s.mu.Lock()
		s.undos[account] = append(s.undos[account], rev)
		s.mu.Unlock()
		return fmt.Errorf("store: undo %s: %w", rev.label, err)
	}
	s.mu.Lock()
	s.redos[account] = append(s.redos[account], rev)
	s.mu.Unlock()
	s.bump(account, "undo "+rev.label)
	return nil
}

// Redo re-applies the account's most recently undone mutation.
func (s *Store) Redo(ctx context.Context, account uuid.UUID) error {
	s.mu.Lock()
	stack := s.redos[account]
	if len(stack) == 0 {
		s.mu.Unlock()
		return ErrNothingToRedo
	}
	rev := stack[len(stack)-1]
	s.redos[account] = stack[:len(stack)-1]
	s.mu.Unlock()

	if err := s.run(ctx, rev.redo); err != nil {
		s.mu.Lock()
		s.redos[account] = append(s.redos[account], rev)
		s.mu.Unlock()
		return fmt.Errorf("store: redo %s: %w", rev.label, err)
	}
	s.mu.Lock()
	s.undos[account] = append(s.undos[account], rev)
	s.mu.Unlock()
	s.bump(account, "redo "+rev.label)
	return nil
}

// apply runs a fresh mutation, records it for undo and drops the redo
// stack, which the new mutation invalidates.
func (s *Store) apply(ctx context.Context, account uuid.UUID, rev revision) error {
	if err := s.run(ctx, rev.redo); err != nil {
		return fmt.Errorf("store: %s: %w", rev.label, err)
	}
	s.mu.Lock()
	s.undos[account] = append(s.undos[account], rev)
	s.redos[account] = nil
	s.mu.Unlock()
	s.bump(account, rev.label)
	return nil
}

// run executes a step inside a database transaction.
func (s *Store) run(ctx context.Context, st step) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := st(ctx, tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// bump increments the account's generation and notifies the hook.
// Failed reads never reach here; only persisted mutations do.
func (s *Store) bump(account uuid.UUID, label string) {
	s.mu.Lock()
	s.generations[account]++
	gen := s.generations[account]
	hook := s.onMutation
	s.mu.Unlock()
	s.log.Debug().Str("account", account.String()).Uint64("generation", gen).Str("op", label).Msg("mutation applied")
	if hook != nil {
		hook(account)
	}
}

func (s *Store) getTransaction(ctx context.Context, account, id uuid.UUID) (treasury.Transaction, bool, error) {
	a, err := s.Account(ctx, account)
	if err != nil {
		return treasury.Transaction{}, false, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, settled_on, amount, state, memo FROM transactions
		 WHERE account_id = ? AND id = ?`, account.String(), id.String())
	t, err := scanTransaction(row, a.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return treasury.Transaction{}, false, nil
	}
	if err != nil {
		return treasury.Transaction{}, false, err
	}
	return t, true, nil
}

func writeStep(account uuid.UUID, t treasury.Transaction) step {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, account_id, settled_on, amount, state, memo)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET settled_on=excluded.settled_on,
			   amount=excluded.amount, state=excluded.state, memo=excluded.memo`,
			t.ID.String(), account.String(), t.Date.String(),
			t.Amount.DecimalString(), t.State.String(), t.Memo)
		return err
	}
}

func insertTransaction(ctx context.Context, tx *sql.Tx, account uuid.UUID, t treasury.Transaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, settled_on, amount, state, memo)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID.String(), account.String(), t.Date.String(),
		t.Amount.DecimalString(), t.State.String(), t.Memo)
	return err
}

func deleteStep(id uuid.UUID) step {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id.String())
		return err
	}
}

// Store implements the engine's source interface.
var _ treasury.Source = (*Store)(nil)
