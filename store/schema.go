package store

// schema is applied on open; every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id                  TEXT PRIMARY KEY,
	name                TEXT NOT NULL UNIQUE,
	currency            TEXT NOT NULL,
	opening_executed    TEXT NOT NULL DEFAULT '0',
	opening_in_progress TEXT NOT NULL DEFAULT '0',
	opening_planned     TEXT NOT NULL DEFAULT '0'
);

CREATE TABLE IF NOT EXISTS transactions (
	id         TEXT PRIMARY KEY,
	account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	settled_on TEXT NOT NULL,
	amount     TEXT NOT NULL,
	state      TEXT NOT NULL,
	memo       TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_transactions_account_day
	ON transactions(account_id, settled_on);
`
