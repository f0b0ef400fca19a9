package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/treasury"
	"github.com/etnz/treasury/date"
)

type addCmd struct {
	account string
	on      string
	amount  string
	state   string
	memo    string
	verbose bool
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction on an account" }
func (*addCmd) Usage() string {
	return `tcs add -a <account> -amount <n> [-on <date>] [-state <state>] [-m <memo>]

  Records a transaction. Negative amounts are expenses. The state is one
  of planned, in-progress, executed (defaults to executed).
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account name or id (required)")
	f.StringVar(&c.on, "on", "", "settlement date (defaults to today)")
	f.StringVar(&c.amount, "amount", "", "signed decimal amount (required)")
	f.StringVar(&c.state, "state", "executed", "settlement state")
	f.StringVar(&c.memo, "m", "", "memo")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.amount == "" {
		fmt.Fprintln(os.Stderr, "Error: -a and -amount are required")
		return subcommands.ExitUsageError
	}
	on := date.Today()
	if c.on != "" {
		var err error
		if on, err = date.Parse(c.on); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}
	state, err := treasury.ParseSettlementState(c.state)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
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
	amount, err := treasury.ParseAmount(c.amount, a.Currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	t := treasury.NewTransaction(on, amount, state, c.memo)
	if err := st.SaveTransaction(ctx, a.ID, t); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s on %s (%s)\n", amount.SignedString(), on, state)
	return subcommands.ExitSuccess
}
