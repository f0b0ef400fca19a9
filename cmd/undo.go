package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type undoCmd struct {
	account string
	verbose bool
}

func (*undoCmd) Name() string     { return "undo" }
func (*undoCmd) Synopsis() string { return "revert the account's most recent mutation" }
func (*undoCmd) Usage() string {
	return `tcs undo -a <account>

  Reverts the most recent create, update, delete or import on the
  account. Undo history lives for the session.
`
}

func (c *undoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account name or id (required)")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *undoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -a is required")
		return subcommands.ExitUsageError
	}
	st, err := openStore(c.verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	a, err := resolveAccount(ctx, st, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := st.Undo(ctx, a.ID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println("Undone.")
	return subcommands.ExitSuccess
}

type redoCmd struct {
	account string
	verbose bool
}

func (*redoCmd) Name() string     { return "redo" }
func (*redoCmd) Synopsis() string { return "re-apply the account's most recently undone mutation" }
func (*redoCmd) Usage() string {
	return `tcs redo -a <account>

  Re-applies the most recently undone mutation on the account.
`
}

func (c *redoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account name or id (required)")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *redoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -a is required")
		return subcommands.ExitUsageError
	}
	st, err := openStore(c.verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	a, err := resolveAccount(ctx, st, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := st.Redo(ctx, a.ID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println("Redone.")
	return subcommands.ExitSuccess
}
