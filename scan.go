package movers

import (
	"errors"
	"fmt"
	"io"
)

// ErrNoCandidates is returned when the discovery collaborator finds no
// candidate symbol at all. It is the only per-scan fatal condition.
var ErrNoCandidates = errors.New("no candidate symbols found")

// ScanRow is one line of a scan snapshot: the metric set of a symbol plus its
// assigned strategy bucket.
type ScanRow struct {
	MetricRow
	Bucket Bucket
}

// ScanFailure records a symbol dropped from the scan and why. Per-symbol
// failures are recovered locally and never fatal.
type ScanFailure struct {
	Symbol string
	Err    error
}

// ScanReport is the outcome of scanning one candidate list: the classified
// rows and the symbols that were dropped.
type ScanReport struct {
	On       Date
	Rows     []ScanRow
	Failures []ScanFailure
}

// InBucket returns the rows assigned to a bucket, in scan order.
func (r *ScanReport) InBucket(b Bucket) []ScanRow {
	var rows []ScanRow
	for _, row := range r.Rows {
		if row.Bucket == b {
			rows = append(rows, row)
		}
	}
	return rows
}

// Scanner runs the metric engine and the classifier over the candidate list
// of the discovery collaborator. Symbols are processed one at a time.
type Scanner struct {
	Source   SymbolSource
	Quotes   QuoteProvider
	Progress io.Writer // optional, receives "Scanning i/n: SYM" lines
}

// Scan discovers the candidate symbols and computes a classified metric row
// for each. A symbol whose fetch or metric computation fails is recorded in
// the report's failures and dropped; it never aborts the batch.
//
// Scan returns ErrNoCandidates when discovery yields nothing.
func (s *Scanner) Scan(on Date) (*ScanReport, error) {
	symbols := s.Source.CandidateSymbols()
	if len(symbols) == 0 {
		return nil, ErrNoCandidates
	}

	report := &ScanReport{On: on}
	for i, symbol := range symbols {
		if s.Progress != nil {
			fmt.Fprintf(s.Progress, "\rScanning %d/%d: %s   ", i+1, len(symbols), symbol)
		}
		quote, err := s.Quotes.Quote(symbol)
		if err != nil {
			report.Failures = append(report.Failures, ScanFailure{Symbol: symbol, Err: err})
			continue
		}
		row, err := ComputeMetrics(quote, on)
		if err != nil {
			report.Failures = append(report.Failures, ScanFailure{Symbol: symbol, Err: err})
			continue
		}
		report.Rows = append(report.Rows, ScanRow{MetricRow: row, Bucket: Classify(row)})
	}
	if s.Progress != nil {
		fmt.Fprintln(s.Progress)
	}
	return report, nil
}

// Pipeline chains a scan into the snapshot store and the ledger store.
type Pipeline struct {
	Scanner   *Scanner
	Snapshots *SnapshotStore
	Ledger    *LedgerStore // optional; when nil the ledger steps are skipped
	Capital   Money        // fixed notional amount per simulated position
}

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	Report *ScanReport
	Added  AddReport
	Totals Summary
	// LedgerErr is set when the ledger integration failed after a successful
	// scan. The snapshot is still produced and the run is not fatal.
	LedgerErr error
}

// Run executes one scan batch: discover, score, classify, persist the
// snapshot, then feed the ledger and revalue every ledger file.
//
// A failing ledger integration degrades gracefully: the scan snapshot is
// still produced and the error is reported in the result.
func (p *Pipeline) Run(on Date) (*RunResult, error) {
	report, err := p.Scanner.Scan(on)
	if err != nil {
		return nil, err
	}

	if err := p.Snapshots.Save(report); err != nil {
		return nil, fmt.Errorf("cannot persist scan snapshot: %w", err)
	}

	result := &RunResult{Report: report}
	if p.Ledger == nil {
		return result, nil
	}

	added, err := p.Ledger.AddPositions(on, report.Rows, p.Capital)
	if err != nil {
		result.LedgerErr = err
		return result, nil
	}
	result.Added = added

	totals, err := p.Ledger.RevalueAll(p.Scanner.Quotes)
	if err != nil {
		result.LedgerErr = err
		return result, nil
	}
	result.Totals = totals
	return result, nil
}
