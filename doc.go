// Package capgains computes realized capital gains and losses from a
// chronological stream of stock purchases and sales, matching every sale
// against the oldest shares still held (first in, first out).
//
// The core functionalities include:
//   - Lot Ledger: the open lots of every symbol, oldest first. A lot partially
//     sold keeps its place at the front of the queue.
//   - Matching: realizing a sale against the ledger, computing its proceeds,
//     its cost basis and the lots it consumed.
//   - Gains: the running realized gain of every symbol, reported in the order
//     symbols were first sold.
//   - Processing: applying transactions one by one, rejecting sales of shares
//     not held without altering any state, optionally across symbols in
//     parallel.
//   - Data Persistence: reading transactions from CSV or JSON, writing
//     transactions as CSV and summaries as JSONL.
//
// Amounts are exact decimals, they are only rounded when displayed.
//
// This package serves as the foundational logic for the `capgains`
// command-line tool.
package capgains
