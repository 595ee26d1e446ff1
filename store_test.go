package movers

import (
	"os"
	"path/filepath"
	"testing"
)

func classifiedRows() []ScanRow {
	return []ScanRow{
		{MetricRow: MetricRow{Symbol: "ABC", Price: 100}, Bucket: SimmeringGrowth},
		{MetricRow: MetricRow{Symbol: "XYZ", Price: 50}, Bucket: Rockets},
		{MetricRow: MetricRow{Symbol: "OTH", Price: 10}, Bucket: Other},  // not tradable
		{MetricRow: MetricRow{Symbol: "BAD", Price: 0}, Bucket: Rockets}, // unusable price
	}
}

func TestAddPositions(t *testing.T) {
	store := NewLedgerStore(t.TempDir())

	report, err := store.AddPositions(scanDay, classifiedRows(), USDM(1000))
	if err != nil {
		t.Fatalf("AddPositions returned error: %v", err)
	}
	if report.Added != 2 || report.Skipped != 0 {
		t.Fatalf("report = %+v, want 2 added, 0 skipped", report)
	}

	file, err := store.LoadOrCreate(scanDay)
	if err != nil {
		t.Fatalf("LoadOrCreate returned error: %v", err)
	}
	if file.Len() != 2 {
		t.Fatalf("persisted ledger holds %d entries, want 2", file.Len())
	}
	if file.Has("OTH") || file.Has("BAD") {
		t.Error("unclassified or unpriced rows must not open positions")
	}
}

func TestAddPositionsIsIdempotent(t *testing.T) {
	store := NewLedgerStore(t.TempDir())

	if _, err := store.AddPositions(scanDay, classifiedRows(), USDM(1000)); err != nil {
		t.Fatal(err)
	}
	report, err := store.AddPositions(scanDay, classifiedRows(), USDM(1000))
	if err != nil {
		t.Fatalf("second AddPositions returned error: %v", err)
	}
	if report.Added != 0 {
		t.Errorf("second call added %d positions, want 0", report.Added)
	}
	if report.Skipped != 2 {
		t.Errorf("second call skipped %d positions, want 2", report.Skipped)
	}

	file, _ := store.LoadOrCreate(scanDay)
	if file.Len() != 2 {
		t.Errorf("ledger holds %d entries after re-run, want 2", file.Len())
	}
}

func TestAddPositionsNothingToAddWritesNoFile(t *testing.T) {
	dir := t.TempDir()
	store := NewLedgerStore(dir)

	rows := []ScanRow{{MetricRow: MetricRow{Symbol: "OTH", Price: 10}, Bucket: Other}}
	if _, err := store.AddPositions(scanDay, rows, USDM(1000)); err != nil {
		t.Fatal(err)
	}
	dates, err := store.Dates()
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 0 {
		t.Errorf("store holds %d files, want none when nothing was added", len(dates))
	}
}

func TestRevalueAll(t *testing.T) {
	store := NewLedgerStore(t.TempDir())
	day2 := scanDay.Add(1)

	rows1 := []ScanRow{{MetricRow: MetricRow{Symbol: "ABC", Price: 100}, Bucket: SimmeringGrowth}}
	rows2 := []ScanRow{{MetricRow: MetricRow{Symbol: "XYZ", Price: 50}, Bucket: Rockets}}
	if _, err := store.AddPositions(scanDay, rows1, USDM(1000)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddPositions(day2, rows2, USDM(1000)); err != nil {
		t.Fatal(err)
	}

	quotes := &fakeQuotes{prices: map[string]float64{"ABC": 110, "XYZ": 45}}
	sum, err := store.RevalueAll(quotes)
	if err != nil {
		t.Fatalf("RevalueAll returned error: %v", err)
	}

	if sum.Files != 2 || sum.SkippedFiles != 0 {
		t.Errorf("summary files = %d/%d skipped, want 2/0", sum.Files, sum.SkippedFiles)
	}
	if sum.Revalued != 2 {
		t.Errorf("summary revalued = %d, want 2", sum.Revalued)
	}
	if !sum.Invested.Equal(USDM(2000)) {
		t.Errorf("invested = %v, want $2,000.00", sum.Invested)
	}
	// ABC: 10 shares at $110 = $1,100. XYZ: 20 shares at $45 = $900.
	if !sum.Value.Equal(USDM(2000)) {
		t.Errorf("value = %v, want $2,000.00", sum.Value)
	}
	if !sum.Return().Equal(0) {
		t.Errorf("overall return = %v, want 0%%", sum.Return())
	}

	// The updates must be persisted.
	file, _ := store.LoadOrCreate(scanDay)
	for e := range file.Entries() {
		if !e.CurrentValue.Equal(USDM(1100)) {
			t.Errorf("persisted CurrentValue = %v, want $1,100.00", e.CurrentValue)
		}
		if !e.ReturnPct.Equal(10) {
			t.Errorf("persisted ReturnPct = %v, want 10%%", e.ReturnPct)
		}
	}
}

func TestRevalueAllKeepsStaleValuesOnQuoteFailure(t *testing.T) {
	store := NewLedgerStore(t.TempDir())
	rows := []ScanRow{
		{MetricRow: MetricRow{Symbol: "ABC", Price: 100}, Bucket: Rockets},
		{MetricRow: MetricRow{Symbol: "GONE", Price: 10}, Bucket: Rockets},
	}
	if _, err := store.AddPositions(scanDay, rows, USDM(1000)); err != nil {
		t.Fatal(err)
	}

	// GONE has no fresh quote.
	quotes := &fakeQuotes{prices: map[string]float64{"ABC": 120}}
	sum, err := store.RevalueAll(quotes)
	if err != nil {
		t.Fatalf("RevalueAll returned error: %v", err)
	}
	if sum.Revalued != 1 {
		t.Errorf("revalued = %d, want 1", sum.Revalued)
	}

	file, _ := store.LoadOrCreate(scanDay)
	var symbols []string
	for e := range file.Entries() {
		symbols = append(symbols, e.Symbol)
		if e.Symbol == "GONE" {
			if !e.CurrentPrice.Equal(USDM(10)) || !e.ReturnPct.Equal(0) {
				t.Errorf("failed quote must keep stale values, got price %v return %v", e.CurrentPrice, e.ReturnPct)
			}
		}
	}
	// never removes or reorders entries
	if len(symbols) != 2 || symbols[0] != "ABC" || symbols[1] != "GONE" {
		t.Errorf("entries after revalue = %v, want [ABC GONE]", symbols)
	}
}

func TestRevalueAllSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewLedgerStore(dir)
	rows := []ScanRow{{MetricRow: MetricRow{Symbol: "ABC", Price: 100}, Bucket: Rockets}}
	if _, err := store.AddPositions(scanDay, rows, USDM(1000)); err != nil {
		t.Fatal(err)
	}
	corrupt := filepath.Join(dir, "ledger-2025-08-29.jsonl")
	if err := os.WriteFile(corrupt, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	quotes := &fakeQuotes{prices: map[string]float64{"ABC": 100}}
	sum, err := store.RevalueAll(quotes)
	if err != nil {
		t.Fatalf("RevalueAll returned error: %v", err)
	}
	if sum.Files != 1 || sum.SkippedFiles != 1 {
		t.Errorf("summary files = %d/%d skipped, want 1/1", sum.Files, sum.SkippedFiles)
	}
	// the corrupt file is excluded from the totals
	if !sum.Invested.Equal(USDM(1000)) {
		t.Errorf("invested = %v, want $1,000.00", sum.Invested)
	}
}

func TestRevalueAllEmptyStore(t *testing.T) {
	store := NewLedgerStore(filepath.Join(t.TempDir(), "missing"))
	sum, err := store.RevalueAll(&fakeQuotes{})
	if err != nil {
		t.Fatalf("RevalueAll on an empty store returned error: %v", err)
	}
	if sum.Files != 0 {
		t.Errorf("files = %d, want 0", sum.Files)
	}
	if !sum.Return().Equal(0) {
		t.Errorf("return = %v, want 0%% when nothing is invested", sum.Return())
	}
}
