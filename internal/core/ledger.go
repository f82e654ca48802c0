package core

import "github.com/shopspring/decimal"

// BuildLedger annotates a chronological run of one entity's transactions
// with a running balance.
//
// The input must already be ordered ascending by date (same-day entries in
// insertion/id order); entries are processed strictly in the order given and
// are never dropped or reordered. The balance starts at zero, income adds,
// expense subtracts. Empty input yields an empty ledger.
func BuildLedger(txs []Transaction) []LedgerEntry {
	entries := make([]LedgerEntry, len(txs))
	balance := decimal.Zero
	for i, tx := range txs {
		balance = balance.Add(tx.Signed())
		entries[i] = LedgerEntry{Transaction: tx, RunningBalance: balance}
	}
	return entries
}
