package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/treasury"
	"github.com/etnz/treasury/renderer"
)

type seriesCmd struct {
	account string
	start   int
	end     int
	day     int
	verbose bool
}

func (*seriesCmd) Name() string     { return "series" }
func (*seriesCmd) Synopsis() string { return "display the running-balance series of an account" }
func (*seriesCmd) Usage() string {
	return `tcs series -a <account> [-s <start_offset> -e <end_offset>] [-day <offset>]

  Displays the day-indexed running balances (executed, committed,
  planned) over the window, and optionally drills down into the
  transactions of a single day.
`
}

func (c *seriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account name or id (required)")
	f.IntVar(&c.start, "s", -1, "window start offset (defaults to the full range)")
	f.IntVar(&c.end, "e", -1, "window end offset (defaults to the full range)")
	f.IntVar(&c.day, "day", -1, "day offset to drill into")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *seriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	// One shot from the CLI: selections apply synchronously.
	engine := treasury.NewEngine(st, treasury.WithSettle(0))
	st.SetOnMutation(engine.OnMutation)
	if err := engine.SetAccount(ctx, a.ID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.start >= 0 || c.end >= 0 {
		start, end := c.start, c.end
		if start < 0 {
			start = 0
		}
		if end < 0 {
			_, end = engine.Bounds()
		}
		if err := engine.SetWindow(start, end); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}

	points, err := engine.Series(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	base, _ := engine.Bounds()
	fmt.Print(renderer.SeriesMarkdown(base, points))

	if c.day >= 0 {
		engine.SelectDay(c.day)
		title := fmt.Sprintf("Transactions on %s", base.Add(c.day))
		fmt.Print(renderer.TransactionsMarkdown(title, engine.VisibleTransactions()))
	}
	return subcommands.ExitSuccess
}
