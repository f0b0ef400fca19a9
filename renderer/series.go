// Package renderer turns engine output into markdown for the CLI.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/etnz/treasury"
	"github.com/etnz/treasury/date"
)

// SeriesMarkdown renders the day-indexed running-balance series as a
// markdown table. 'base' is the calendar day at offset zero.
func SeriesMarkdown(base date.Date, points []treasury.DailyPoint) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Treasury")

	if len(points) == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}

	first := base.Add(points[0].Offset)
	last := base.Add(points[len(points)-1].Offset)
	doc.PlainText(fmt.Sprintf("%s to %s", first, last))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Day", "Executed", "Committed", "Planned"},
	}
	for _, p := range points {
		table.Rows = append(table.Rows, []string{
			base.Add(p.Offset).String(),
			p.Executed.String(),
			p.Committed.String(),
			p.Planned.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}

// Transaction renders a transaction to a string.
func Transaction(t treasury.Transaction) string {
	if t.Memo == "" {
		return fmt.Sprintf("%s %s (%s)", t.Date, t.Amount.SignedString(), t.State)
	}
	return fmt.Sprintf("%s %s (%s) %s", t.Date, t.Amount.SignedString(), t.State, t.Memo)
}

// TransactionsMarkdown renders a day-detail transaction list as a
// markdown table, under a heading naming the day.
func TransactionsMarkdown(title string, txs []treasury.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(title)
	if len(txs) == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
		},
		Header: []string{"Day", "Amount", "State", "Memo"},
	}
	for _, t := range txs {
		table.Rows = append(table.Rows, []string{
			t.Date.String(),
			t.Amount.SignedString(),
			t.State.String(),
			t.Memo,
		})
	}
	doc.Table(table)

	return doc.String()
}
