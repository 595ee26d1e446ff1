package movers

import (
	"fmt"
	"iter"
)

// LedgerEntry is a simulated position: one symbol entered on one calendar day
// with a fixed capital per trade.
//
// Quantity and InitialValue are frozen at entry time and never recomputed.
// CurrentPrice, CurrentValue and ReturnPct are the only fields mutated after
// creation, by revaluation.
type LedgerEntry struct {
	Date         Date
	Symbol       string
	Bucket       Bucket
	EntryPrice   Money
	Quantity     Quantity
	InitialValue Money
	CurrentPrice Money
	CurrentValue Money
	ReturnPct    Percent
}

// NewLedgerEntry opens a simulated position of capital/price shares. The entry
// price must be strictly positive.
func NewLedgerEntry(on Date, symbol string, bucket Bucket, price, capital Money) (*LedgerEntry, error) {
	if !price.IsPositive() {
		return nil, fmt.Errorf("cannot open position %q: entry price %s is not positive", symbol, price)
	}
	quantity := capital.DivPrice(price).Round(4)
	initial := price.Mul(quantity).Round(2)
	return &LedgerEntry{
		Date:         on,
		Symbol:       symbol,
		Bucket:       bucket,
		EntryPrice:   price.Round(2),
		Quantity:     quantity,
		InitialValue: initial,
		CurrentPrice: price.Round(2),
		CurrentValue: initial,
		ReturnPct:    0,
	}, nil
}

// Revalue updates the entry against a fresh price. Quantity and InitialValue
// are left untouched.
func (e *LedgerEntry) Revalue(price Money) {
	current := price.Mul(e.Quantity).Round(2)
	e.CurrentPrice = price.Round(2)
	e.CurrentValue = current
	e.ReturnPct = Percent(round2(float64(e.InitialValue.Gain(current))))
}

// LedgerFile is the ledger of one calendar date: a flat ordered sequence of
// entries with at most one entry per symbol.
type LedgerFile struct {
	on      Date
	entries []*LedgerEntry
	index   map[string]*LedgerEntry
	dirty   bool
}

// NewLedgerFile creates an empty ledger for the given date.
func NewLedgerFile(on Date) *LedgerFile {
	return &LedgerFile{
		on:      on,
		entries: make([]*LedgerEntry, 0),
		index:   make(map[string]*LedgerEntry),
	}
}

// On returns the calendar date of the ledger file.
func (f *LedgerFile) On() Date { return f.on }

// Len returns the number of positions.
func (f *LedgerFile) Len() int { return len(f.entries) }

// Has reports whether the ledger already holds a position for that symbol.
func (f *LedgerFile) Has(symbol string) bool {
	_, ok := f.index[symbol]
	return ok
}

// Entries returns an iterator over all entries, in file order.
func (f *LedgerFile) Entries() iter.Seq[*LedgerEntry] {
	return func(yield func(*LedgerEntry) bool) {
		for _, e := range f.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Upsert adds an entry unless the ledger already holds its symbol, enforcing
// the at-most-one-entry-per-symbol-per-day invariant at the store level.
// It reports whether the entry was added; a duplicate is silently skipped,
// never merged or overwritten.
func (f *LedgerFile) Upsert(e *LedgerEntry) bool {
	if f.Has(e.Symbol) {
		return false
	}
	f.entries = append(f.entries, e)
	f.index[e.Symbol] = e
	f.dirty = true
	return true
}

// Dirty reports whether the ledger changed since it was loaded or last saved.
func (f *LedgerFile) Dirty() bool { return f.dirty }

func (f *LedgerFile) markDirty()  { f.dirty = true }
func (f *LedgerFile) markSaved()  { f.dirty = false }
func (f *LedgerFile) markLoaded() { f.dirty = false }

// Totals folds the file into its invested and current sums.
func (f *LedgerFile) Totals() (invested, value Money) {
	invested, value = M(0, USD), M(0, USD)
	for _, e := range f.entries {
		invested = invested.Add(e.InitialValue)
		value = value.Add(e.CurrentValue)
	}
	return invested, value
}
