package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/treasury"
)

type importCmd struct {
	account string
	file    string
	verbose bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a JSONL file" }
func (*importCmd) Usage() string {
	return `tcs import -a <account> [-f <file>]

  Imports transactions in the import/export format (one JSON object per
  line) into the account, as a single undoable batch. Reads stdin when
  no file is given. Legacy French state labels are accepted.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account name or id (required)")
	f.StringVar(&c.file, "f", "", "file to import (defaults to stdin)")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -a is required")
		return subcommands.ExitUsageError
	}
	var r io.Reader = os.Stdin
	if c.file != "" {
		file, err := os.Open(c.file)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		r = file
	}
	txs, err := treasury.ImportTransactions(r)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
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
	if err := st.Import(ctx, a.ID, txs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d transactions into %q\n", len(txs), a.Name)
	return subcommands.ExitSuccess
}

type exportCmd struct {
	account string
	verbose bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export an account's transactions as JSONL" }
func (*exportCmd) Usage() string {
	return `tcs export -a <account>

  Writes the account's transactions to stdout in the import/export
  format, sorted by settlement day.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account name or id (required)")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	txs, err := st.Transactions(ctx, a.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := treasury.ExportTransactions(os.Stdout, txs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
