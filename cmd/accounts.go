package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/treasury"
)

type accountsCmd struct {
	verbose bool
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the accounts in the store" }
func (*accountsCmd) Usage() string {
	return `tcs accounts

  Lists every account with its identifier, currency and opening balances.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, err := openStore(c.verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	accounts, err := st.Accounts(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if len(accounts) == 0 {
		fmt.Println("No accounts. Create one with 'tcs new-account'.")
		return subcommands.ExitSuccess
	}
	for _, a := range accounts {
		fmt.Printf("%s  %s (%s) opening executed=%s in-progress=%s planned=%s\n",
			a.ID, a.Name, a.Currency,
			a.Opening.Executed.SignedString(),
			a.Opening.InProgress.SignedString(),
			a.Opening.Planned.SignedString())
	}
	return subcommands.ExitSuccess
}

type newAccountCmd struct {
	name       string
	currency   string
	executed   string
	inProgress string
	planned    string
	verbose    bool
}

func (*newAccountCmd) Name() string     { return "new-account" }
func (*newAccountCmd) Synopsis() string { return "create an account" }
func (*newAccountCmd) Usage() string {
	return `tcs new-account -name <name> [-c <currency>] [-executed <n>] [-in-progress <n>] [-planned <n>]

  Creates an account with the given opening balances (defaults to zero).
`
}

func (c *newAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "account name (required)")
	f.StringVar(&c.currency, "c", "EUR", "account currency")
	f.StringVar(&c.executed, "executed", "0", "opening executed balance")
	f.StringVar(&c.inProgress, "in-progress", "0", "opening in-progress balance")
	f.StringVar(&c.planned, "planned", "0", "opening planned balance")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *newAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -name is required")
		return subcommands.ExitUsageError
	}
	var opening treasury.OpeningBalances
	var err error
	if opening.Executed, err = treasury.ParseAmount(c.executed, c.currency); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if opening.InProgress, err = treasury.ParseAmount(c.inProgress, c.currency); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if opening.Planned, err = treasury.ParseAmount(c.planned, c.currency); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	st, err := openStore(c.verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	a, err := st.CreateAccount(ctx, c.name, c.currency, opening)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created account %q (%s)\n", a.Name, a.ID)
	return subcommands.ExitSuccess
}
