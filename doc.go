// Package treasury computes day-indexed running-balance series over a
// personal ledger.
//
// A ledger account holds transactions in three settlement states
// (planned, in progress, executed). The engine turns an unordered set of
// transactions into a gap-free series of one point per calendar day,
// each point carrying the executed balance and the committed and planned
// balances layered on top of it. A window narrows the series to a
// contiguous range of day offsets, and a day selection narrows the
// visible transaction list without touching the aggregate series.
//
// The engine reads transactions through the Source interface; the store
// sub-package provides a SQLite-backed implementation.
package treasury
