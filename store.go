package movers

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	ledgerFilePrefix = "ledger-"
	ledgerFileExt    = ".jsonl"
	ledgerFilesGlob  = ledgerFilePrefix + "[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]" + ledgerFileExt
)

// LedgerStore manages one ledger file per calendar day in a single folder.
// It offers an explicit load-or-create / upsert / save-if-dirty contract so
// the at-most-one-entry-per-symbol-per-day invariant lives in the store, not
// in callers.
type LedgerStore struct {
	dir string
}

// NewLedgerStore returns a store over the given folder. The folder is created
// on the first save.
func NewLedgerStore(dir string) *LedgerStore {
	return &LedgerStore{dir: dir}
}

// Dir returns the store folder.
func (s *LedgerStore) Dir() string { return s.dir }

func (s *LedgerStore) path(on Date) string {
	return filepath.Join(s.dir, ledgerFilePrefix+on.String()+ledgerFileExt)
}

// Dates lists the calendar dates that have a ledger file, in chronological
// order. A missing folder is an empty store, not an error.
func (s *LedgerStore) Dates() ([]Date, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, ledgerFilesGlob))
	if err != nil {
		return nil, fmt.Errorf("cannot scan ledger folder %q: %w", s.dir, err)
	}
	dates := make([]Date, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(filepath.Base(m), ledgerFileExt)
		on, err := ParseDate(strings.TrimPrefix(name, ledgerFilePrefix))
		if err != nil {
			// the glob makes this unreachable
			return nil, err
		}
		dates = append(dates, on)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// LoadOrCreate returns the ledger file for that date, an empty one if none
// exists yet.
func (s *LedgerStore) LoadOrCreate(on Date) (*LedgerFile, error) {
	f, err := os.Open(s.path(on))
	if errors.Is(err, fs.ErrNotExist) {
		return NewLedgerFile(on), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger file %q: %w", s.path(on), err)
	}
	defer f.Close()

	file, err := DecodeLedgerFile(f, on)
	if err != nil {
		return nil, fmt.Errorf("cannot decode ledger file %q: %w", s.path(on), err)
	}
	return file, nil
}

// SaveIfDirty persists the ledger file only if it changed since load.
func (s *LedgerStore) SaveIfDirty(file *LedgerFile) error {
	if !file.Dirty() {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("cannot create ledger folder %q: %w", s.dir, err)
	}
	f, err := os.Create(s.path(file.On()))
	if err != nil {
		return fmt.Errorf("cannot create ledger file %q: %w", s.path(file.On()), err)
	}
	defer f.Close()
	if err := EncodeLedgerFile(f, file); err != nil {
		return fmt.Errorf("cannot write ledger file %q: %w", s.path(file.On()), err)
	}
	file.markSaved()
	return nil
}

// AddReport counts the outcome of one AddPositions call.
type AddReport struct {
	Added   int // positions opened by this call
	Skipped int // symbols already present in the day's ledger
}

// AddPositions opens a position for every tradable row of a scan in the
// ledger of the given date. A row whose symbol is already present in that
// day's ledger is silently skipped, so re-running a scan on the same day
// never duplicates a position. The file is persisted only if at least one
// entry was added.
func (s *LedgerStore) AddPositions(on Date, rows []ScanRow, capital Money) (AddReport, error) {
	var report AddReport

	file, err := s.LoadOrCreate(on)
	if err != nil {
		return report, err
	}

	for _, row := range rows {
		if !row.Bucket.Tradable() {
			continue
		}
		if row.Price <= 0 {
			continue
		}
		entry, err := NewLedgerEntry(on, row.Symbol, row.Bucket, M(row.Price, USD), capital)
		if err != nil {
			// unreachable given the price guard above
			return report, err
		}
		if file.Upsert(entry) {
			report.Added++
		} else {
			report.Skipped++
		}
	}

	if report.Added > 0 {
		if err := s.SaveIfDirty(file); err != nil {
			return report, err
		}
	}
	return report, nil
}

// Summary is the immutable aggregate produced by one RevalueAll call, folded
// across every readable ledger file.
type Summary struct {
	Files        int // ledger files processed
	SkippedFiles int // unreadable files, excluded from the totals
	Positions    int // positions across processed files
	Revalued     int // positions refreshed with a live quote
	Invested     Money
	Value        Money
}

// Return is the overall return percentage across all files, 0 when nothing
// is invested.
func (r Summary) Return() Percent {
	if !r.Invested.IsPositive() {
		return 0
	}
	return Percent(round2(float64(r.Invested.Gain(r.Value))))
}

// RevalueAll refreshes every position of every ledger file against live
// prices. A position whose quote fails keeps its stale values; a file that
// cannot be read is reported, skipped and excluded from the totals. Files are
// persisted only when at least one of their positions changed. Entries are
// never removed or reordered.
func (s *LedgerStore) RevalueAll(quotes QuoteProvider) (Summary, error) {
	var sum Summary
	sum.Invested, sum.Value = M(0, USD), M(0, USD)

	dates, err := s.Dates()
	if err != nil {
		return sum, err
	}

	for _, on := range dates {
		file, err := s.LoadOrCreate(on)
		if err != nil {
			log.Printf("skipping ledger %s: %v", on, err)
			sum.SkippedFiles++
			continue
		}

		changed := false
		for e := range file.Entries() {
			price, err := quotes.LatestPrice(e.Symbol)
			if err != nil || price <= 0 {
				// stale values are kept, the batch goes on
				continue
			}
			e.Revalue(M(price, USD))
			changed = true
			sum.Revalued++
		}

		if changed {
			file.markDirty()
			if err := s.SaveIfDirty(file); err != nil {
				return sum, err
			}
		}

		invested, value := file.Totals()
		sum.Invested = sum.Invested.Add(invested)
		sum.Value = sum.Value.Add(value)
		sum.Positions += file.Len()
		sum.Files++
	}
	return sum, nil
}
