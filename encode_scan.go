package movers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	scanFilePrefix = "scan-"
	scanFileExt    = ".jsonl"
	scanFilesGlob  = scanFilePrefix + "[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]" + scanFileExt
)

// SnapshotStore persists one scan snapshot per calendar date, as JSONL.
// Re-running a scan on the same day overwrites the snapshot; it never touches
// ledger state.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore returns a store over the given folder. The folder is
// created on the first save.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

// Dir returns the store folder.
func (s *SnapshotStore) Dir() string { return s.dir }

func (s *SnapshotStore) path(on Date) string {
	return filepath.Join(s.dir, scanFilePrefix+on.String()+scanFileExt)
}

// Dates lists the calendar dates that have a snapshot, in chronological order.
func (s *SnapshotStore) Dates() ([]Date, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, scanFilesGlob))
	if err != nil {
		return nil, fmt.Errorf("cannot scan snapshot folder %q: %w", s.dir, err)
	}
	dates := make([]Date, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(filepath.Base(m), scanFileExt)
		on, err := ParseDate(strings.TrimPrefix(name, scanFilePrefix))
		if err != nil {
			return nil, err
		}
		dates = append(dates, on)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// Save persists the report's rows as the snapshot of its date.
func (s *SnapshotStore) Save(report *ScanReport) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("cannot create snapshot folder %q: %w", s.dir, err)
	}
	f, err := os.Create(s.path(report.On))
	if err != nil {
		return fmt.Errorf("cannot create snapshot file %q: %w", s.path(report.On), err)
	}
	defer f.Close()
	return EncodeScanReport(f, report)
}

// Load reads back the snapshot of a date.
func (s *SnapshotStore) Load(on Date) (*ScanReport, error) {
	f, err := os.Open(s.path(on))
	if err != nil {
		return nil, fmt.Errorf("cannot open snapshot file %q: %w", s.path(on), err)
	}
	defer f.Close()
	return DecodeScanReport(f, on)
}

// Latest loads the most recent snapshot, or fs.ErrNotExist when the store is
// empty.
func (s *SnapshotStore) Latest() (*ScanReport, error) {
	dates, err := s.Dates()
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("no snapshot in %q: %w", s.dir, fs.ErrNotExist)
	}
	return s.Load(dates[len(dates)-1])
}

// appendMetric appends a nullable numeric metric, omitting unknown (NaN)
// values so the line stays valid JSON. A missing key decodes back as NaN.
func appendMetric(w *jsonObjectWriter, key string, v float64) {
	if math.IsNaN(v) {
		return
	}
	w.Append(key, v)
}

// EncodeScanRow writes a single row as one canonical JSON line.
func EncodeScanRow(w io.Writer, row ScanRow) error {
	var jw jsonObjectWriter
	jw.Append("symbol", row.Symbol)
	jw.Append("price", row.Price)
	appendMetric(&jw, "changePct", row.ChangePct)
	jw.Append("volume", row.Volume)
	jw.Append("avgVolume3M", row.AvgVolume3M)
	jw.Append("marketCap", row.MarketCap)
	appendMetric(&jw, "peTTM", row.PETTM)
	appendMetric(&jw, "epsTTM", row.EPSTTM)
	appendMetric(&jw, "beta5Y", row.Beta5Y)
	appendMetric(&jw, "rsi14", row.RSI14)
	jw.Append("weeklyRetPct", float64(row.WeeklyRetPct))
	jw.Append("monthlyRetPct", float64(row.MonthlyRetPct))
	jw.Append("ytdRetPct", float64(row.YTDRetPct))
	jw.Append("year52RetPct", float64(row.Year52RetPct))
	jw.Append("range52W", row.Range52W)
	appendMetric(&jw, "targetMean1Y", row.TargetMean1Y)
	jw.Append("bucket", row.Bucket.String())

	line, err := jw.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(line); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

// EncodeScanReport writes all rows of a report, in scan order.
func EncodeScanReport(w io.Writer, report *ScanReport) error {
	for _, row := range report.Rows {
		if err := EncodeScanRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

// jrow is a specialized struct for decoding json lines. Nullable metrics are
// pointers so an absent key can be told apart from a zero.
type jrow struct {
	Symbol        string   `json:"symbol"`
	Price         float64  `json:"price"`
	ChangePct     *float64 `json:"changePct"`
	Volume        string   `json:"volume"`
	AvgVolume3M   string   `json:"avgVolume3M"`
	MarketCap     string   `json:"marketCap"`
	PETTM         *float64 `json:"peTTM"`
	EPSTTM        *float64 `json:"epsTTM"`
	Beta5Y        *float64 `json:"beta5Y"`
	RSI14         *float64 `json:"rsi14"`
	WeeklyRetPct  float64  `json:"weeklyRetPct"`
	MonthlyRetPct float64  `json:"monthlyRetPct"`
	YTDRetPct     float64  `json:"ytdRetPct"`
	Year52RetPct  float64  `json:"year52RetPct"`
	Range52W      string   `json:"range52W"`
	TargetMean1Y  *float64 `json:"targetMean1Y"`
	Bucket        string   `json:"bucket"`
}

func metric(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// DecodeScanReport reads a JSONL stream back into the report of a date.
func DecodeScanReport(r io.Reader, on Date) (*ScanReport, error) {
	report := &ScanReport{On: on}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var jr jrow
		if err := json.Unmarshal(line, &jr); err != nil {
			return nil, fmt.Errorf("format error on line %q: %w", string(line), err)
		}
		bucket, err := ParseBucket(jr.Bucket)
		if err != nil {
			return nil, fmt.Errorf("format error on line %q: %w", string(line), err)
		}
		report.Rows = append(report.Rows, ScanRow{
			MetricRow: MetricRow{
				Symbol:        jr.Symbol,
				Price:         jr.Price,
				ChangePct:     metric(jr.ChangePct),
				Volume:        jr.Volume,
				AvgVolume3M:   jr.AvgVolume3M,
				MarketCap:     jr.MarketCap,
				PETTM:         metric(jr.PETTM),
				EPSTTM:        metric(jr.EPSTTM),
				Beta5Y:        metric(jr.Beta5Y),
				RSI14:         metric(jr.RSI14),
				WeeklyRetPct:  Percent(jr.WeeklyRetPct),
				MonthlyRetPct: Percent(jr.MonthlyRetPct),
				YTDRetPct:     Percent(jr.YTDRetPct),
				Year52RetPct:  Percent(jr.Year52RetPct),
				Range52W:      jr.Range52W,
				TargetMean1Y:  metric(jr.TargetMean1Y),
			},
			Bucket: bucket,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return report, nil
}
