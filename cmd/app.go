// Package cmd implements the tcs subcommands.
package cmd

import (
	"context"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/etnz/treasury/store"
)

// Commands lists every subcommand for registration by the main package.
var Commands = []subcommands.Command{
	&accountsCmd{},
	&newAccountCmd{},
	&addCmd{},
	&seriesCmd{},
	&importCmd{},
	&exportCmd{},
	&undoCmd{},
	&redoCmd{},
}

const dbEnv = "TREASURY_DB"

// dbPath returns the database path, from the environment or a default
// file in the working directory.
func dbPath() string {
	if p := os.Getenv(dbEnv); p != "" {
		return p
	}
	return "treasury.db"
}

func newLogger(verbose bool) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger()
}

func openStore(verbose bool) (*store.Store, error) {
	return store.Open(dbPath(), store.WithLogger(newLogger(verbose)))
}

// resolveAccount finds an account by id, falling back to its name.
func resolveAccount(ctx context.Context, st *store.Store, query string) (store.Account, error) {
	if id, err := uuid.Parse(query); err == nil {
		return st.Account(ctx, id)
	}
	return st.AccountByName(ctx, query)
}
