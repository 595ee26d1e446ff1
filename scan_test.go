package movers

import (
	"errors"
	"math"
	"testing"
)

func TestScannerDropsFailingSymbols(t *testing.T) {
	source := &fakeSource{symbols: []string{"ROCK", "GONE", "FLAT"}}
	quotes := &fakeQuotes{quotes: map[string]Quote{
		"ROCK": quoteWithReturns("ROCK", 160, 100, 142.85), // 60% year, ~12% month
		"FLAT": quoteWithReturns("FLAT", 100, 100, 100),
	}}
	scanner := &Scanner{Source: source, Quotes: quotes}

	report, err := scanner.Scan(scanDay)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("Scan produced %d rows, want 2", len(report.Rows))
	}
	if len(report.Failures) != 1 || report.Failures[0].Symbol != "GONE" {
		t.Fatalf("failures = %+v, want only GONE", report.Failures)
	}
}

func TestScannerClassifies(t *testing.T) {
	source := &fakeSource{symbols: []string{"ROCK", "FLAT"}}
	quotes := &fakeQuotes{quotes: map[string]Quote{
		"ROCK": quoteWithReturns("ROCK", 160, 100, 142.85),
		"FLAT": quoteWithReturns("FLAT", 100, 100, 100),
	}}
	scanner := &Scanner{Source: source, Quotes: quotes}

	report, err := scanner.Scan(scanDay)
	if err != nil {
		t.Fatal(err)
	}
	rockets := report.InBucket(Rockets)
	if len(rockets) != 1 || rockets[0].Symbol != "ROCK" {
		t.Errorf("Rockets = %+v, want only ROCK", rockets)
	}
	others := report.InBucket(Other)
	if len(others) != 1 || others[0].Symbol != "FLAT" {
		t.Errorf("Other = %+v, want only FLAT", others)
	}
}

func TestScannerNoCandidates(t *testing.T) {
	scanner := &Scanner{Source: &fakeSource{}, Quotes: &fakeQuotes{}}
	if _, err := scanner.Scan(scanDay); !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("Scan = %v, want ErrNoCandidates", err)
	}
}

func TestPipelineRun(t *testing.T) {
	source := &fakeSource{symbols: []string{"ROCK"}}
	quotes := &fakeQuotes{
		quotes: map[string]Quote{"ROCK": quoteWithReturns("ROCK", 160, 100, 142.85)},
		prices: map[string]float64{"ROCK": 176},
	}
	pipeline := &Pipeline{
		Scanner:   &Scanner{Source: source, Quotes: quotes},
		Snapshots: NewSnapshotStore(t.TempDir()),
		Ledger:    NewLedgerStore(t.TempDir()),
		Capital:   USDM(1000),
	}

	result, err := pipeline.Run(scanDay)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.LedgerErr != nil {
		t.Fatalf("ledger integration failed: %v", result.LedgerErr)
	}
	if result.Added.Added != 1 {
		t.Errorf("added = %d, want 1", result.Added.Added)
	}
	if !result.Totals.Invested.Equal(USDM(1000)) {
		t.Errorf("invested = %v, want $1,000.00", result.Totals.Invested)
	}
	// 6.25 shares at $176 = $1,100
	if !result.Totals.Value.Equal(USDM(1100)) {
		t.Errorf("value = %v, want $1,100.00", result.Totals.Value)
	}
	if !result.Totals.Return().Equal(10) {
		t.Errorf("return = %v, want 10%%", result.Totals.Return())
	}

	// The snapshot must be readable back.
	snap, err := pipeline.Snapshots.Load(scanDay)
	if err != nil {
		t.Fatalf("cannot load snapshot back: %v", err)
	}
	if len(snap.Rows) != 1 || snap.Rows[0].Bucket != Rockets {
		t.Errorf("snapshot rows = %+v, want one Rockets row", snap.Rows)
	}
}

func TestPipelineSameDayRunIsIdempotent(t *testing.T) {
	source := &fakeSource{symbols: []string{"ROCK"}}
	quotes := &fakeQuotes{
		quotes: map[string]Quote{"ROCK": quoteWithReturns("ROCK", 160, 100, 142.85)},
		prices: map[string]float64{"ROCK": 160},
	}
	pipeline := &Pipeline{
		Scanner:   &Scanner{Source: source, Quotes: quotes},
		Snapshots: NewSnapshotStore(t.TempDir()),
		Ledger:    NewLedgerStore(t.TempDir()),
		Capital:   USDM(1000),
	}

	if _, err := pipeline.Run(scanDay); err != nil {
		t.Fatal(err)
	}
	result, err := pipeline.Run(scanDay)
	if err != nil {
		t.Fatal(err)
	}
	if result.Added.Added != 0 || result.Added.Skipped != 1 {
		t.Errorf("second run report = %+v, want 0 added, 1 skipped", result.Added)
	}
	if result.Totals.Positions != 1 {
		t.Errorf("ledger holds %d positions after two same-day runs, want 1", result.Totals.Positions)
	}
}

func TestPipelineWithoutLedger(t *testing.T) {
	source := &fakeSource{symbols: []string{"ROCK"}}
	quotes := &fakeQuotes{quotes: map[string]Quote{"ROCK": quoteWithReturns("ROCK", 160, 100, 142.85)}}
	pipeline := &Pipeline{
		Scanner:   &Scanner{Source: source, Quotes: quotes},
		Snapshots: NewSnapshotStore(t.TempDir()),
		Capital:   USDM(1000),
	}

	result, err := pipeline.Run(scanDay)
	if err != nil {
		t.Fatalf("Run without a ledger returned error: %v", err)
	}
	if result.Report == nil || len(result.Report.Rows) != 1 {
		t.Error("the scan snapshot must still be produced without a ledger")
	}
	if _, err := pipeline.Snapshots.Load(scanDay); err != nil {
		t.Errorf("snapshot not persisted: %v", err)
	}
}

func TestSnapshotRoundTripKeepsUnknownMetrics(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())
	row := ScanRow{
		MetricRow: MetricRow{
			Symbol:       "ABC",
			Price:        42,
			ChangePct:    math.NaN(),
			Volume:       "1.50M",
			AvgVolume3M:  "N/A",
			MarketCap:    "2.50B",
			PETTM:        math.NaN(),
			EPSTTM:       1.23,
			Beta5Y:       math.NaN(),
			RSI14:        67.89,
			WeeklyRetPct: 1.5,
			Range52W:     "10.00 - 50.00",
			TargetMean1Y: math.NaN(),
		},
		Bucket: SimmeringGrowth,
	}
	if err := store.Save(&ScanReport{On: scanDay, Rows: []ScanRow{row}}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	back, err := store.Load(scanDay)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	got := back.Rows[0]
	if !math.IsNaN(got.PETTM) || !math.IsNaN(got.ChangePct) || !math.IsNaN(got.TargetMean1Y) {
		t.Error("unknown metrics must decode back as unknown, not zero")
	}
	if got.EPSTTM != 1.23 || got.RSI14 != 67.89 {
		t.Errorf("known metrics altered: eps %v rsi %v", got.EPSTTM, got.RSI14)
	}
	if got.Bucket != SimmeringGrowth {
		t.Errorf("bucket = %v, want SimmeringGrowth", got.Bucket)
	}
}

func TestSnapshotLatest(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())
	day2 := scanDay.Add(1)
	store.Save(&ScanReport{On: scanDay, Rows: []ScanRow{{MetricRow: MetricRow{Symbol: "OLD"}, Bucket: Other}}})
	store.Save(&ScanReport{On: day2, Rows: []ScanRow{{MetricRow: MetricRow{Symbol: "NEW"}, Bucket: Other}}})

	latest, err := store.Latest()
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if latest.On != day2 || latest.Rows[0].Symbol != "NEW" {
		t.Errorf("Latest = %s %v, want the %s snapshot", latest.On, latest.Rows[0].Symbol, day2)
	}
}
