// Package movers scans the daily equity market gainers, computes technical
// and return metrics per ticker, classifies tickers into strategy buckets,
// and maintains a simulated per-day portfolio ledger revalued on every run.
//
// The core functionalities include:
//   - Metric Engine: pure computation of return windows (weekly, monthly,
//     year-to-date, 52-week), RSI(14) and human-scale magnitude formatting
//     from a symbol's daily price history.
//   - Classifier: assignment of each scanned symbol to at most one strategy
//     bucket (Simmering Growth, Rockets, Turnarounds) from fixed thresholds.
//   - Ledger Store: one append-only ledger file per calendar day holding
//     simulated positions sized with a fixed capital per trade, revalued
//     in place against live quotes on every run.
//   - Scan Pipeline: discovery of candidate symbols, per-symbol scoring,
//     snapshot persistence and ledger feeding, tolerant of per-symbol
//     failures.
//
// Data is persisted in human-readable, version-controllable JSONL files.
// This package serves as the foundational logic for the `mvs` command-line
// tool.
package movers
