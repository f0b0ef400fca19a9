package treasury

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/etnz/treasury/date"
)

// this file contains functions to handle the import/export format.
// It should remain human readable, single file and be easy to merge into a database.

// jtx is the readable line format: one JSON object per transaction.
type jtx struct {
	ID       string    `json:"id,omitempty"`
	Date     date.Date `json:"date"`
	Amount   string    `json:"amount"`
	Currency string    `json:"currency,omitempty"`
	State    string    `json:"state"`
	Memo     string    `json:"memo,omitempty"`
}

// ImportTransactions imports transactions from 'r' in the import/export format.
//
// The format is a JSONL file, where each line is a JSON object with the
// settlement 'date', the signed decimal 'amount', an optional 'currency',
// the settlement 'state' and an optional 'memo'. The state accepts the
// canonical names as well as the labels of legacy French ledger exports
// ("prévu", "engagé", "pointé"). Lines without an 'id' get a fresh one.
func ImportTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var j jtx
		if err := json.Unmarshal(line, &j); err != nil {
			return nil, fmt.Errorf("cannot parse line for transaction import format: %q: %w", string(line), err)
		}
		state, err := ParseSettlementState(j.State)
		if err != nil {
			return nil, fmt.Errorf("cannot import transaction on %s: %w", j.Date, err)
		}
		amount, err := ParseAmount(j.Amount, j.Currency)
		if err != nil {
			return nil, fmt.Errorf("cannot import transaction on %s: %w", j.Date, err)
		}
		id := uuid.New()
		if j.ID != "" {
			id, err = uuid.Parse(j.ID)
			if err != nil {
				return nil, fmt.Errorf("cannot import transaction on %s: invalid id %q: %w", j.Date, j.ID, err)
			}
		}
		txs = append(txs, Transaction{ID: id, Date: j.Date, Amount: amount, State: state, Memo: j.Memo})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read transaction import format: %w", err)
	}
	return txs, nil
}

// ExportTransactions exports the transactions to 'w' in the import/export format.
//
// The output is canonical: sorted by settlement day, one JSON object per
// line, states under their canonical names.
func ExportTransactions(w io.Writer, txs []Transaction) error {
	sorted := slices.Clone(txs)
	SortTransactions(sorted)
	for _, t := range sorted {
		j := jtx{
			ID:       t.ID.String(),
			Date:     t.Date,
			Amount:   t.Amount.DecimalString(),
			Currency: t.Amount.Currency(),
			State:    t.State.String(),
			Memo:     t.Memo,
		}
		data, err := json.Marshal(j)
		if err != nil {
			return fmt.Errorf("cannot marshal transaction %s: %w", t.ID, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write transaction format: %w", err)
		}
	}
	return nil
}
