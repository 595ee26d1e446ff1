package movers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Ledger files are persisted as JSONL, one position per line, in a way that is
// human-readable and git-friendly. Amounts are major-unit USD decimals.

// jentry is a specialized struct for decoding json lines.
type jentry struct {
	Date         Date            `json:"date"`
	Symbol       string          `json:"symbol"`
	Bucket       string          `json:"bucket"`
	EntryPrice   decimal.Decimal `json:"entryPrice"`
	Quantity     Quantity        `json:"quantity"`
	InitialValue decimal.Decimal `json:"initialValue"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	ReturnPct    float64         `json:"returnPct"`
}

// EncodeLedgerEntry writes a single entry as one canonical JSON line.
func EncodeLedgerEntry(w io.Writer, e *LedgerEntry) error {
	var jw jsonObjectWriter
	jw.Append("date", e.Date)
	jw.Append("symbol", e.Symbol)
	jw.Append("bucket", e.Bucket.String())
	jw.Append("entryPrice", e.EntryPrice.Amount())
	jw.Append("quantity", e.Quantity)
	jw.Append("initialValue", e.InitialValue.Amount())
	jw.Append("currentPrice", e.CurrentPrice.Amount())
	jw.Append("currentValue", e.CurrentValue.Amount())
	jw.Append("returnPct", float64(e.ReturnPct))

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

// EncodeLedgerFile writes all entries of a ledger file, in file order.
func EncodeLedgerFile(w io.Writer, f *LedgerFile) error {
	for e := range f.Entries() {
		if err := EncodeLedgerEntry(w, e); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLedgerFile reads a JSONL stream into the ledger of the given date.
func DecodeLedgerFile(r io.Reader, on Date) (*LedgerFile, error) {
	file := NewLedgerFile(on)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var je jentry
		if err := json.Unmarshal(line, &je); err != nil {
			return nil, fmt.Errorf("format error on line %q: %w", string(line), err)
		}
		bucket, err := ParseBucket(je.Bucket)
		if err != nil {
			return nil, fmt.Errorf("format error on line %q: %w", string(line), err)
		}

		entry := &LedgerEntry{
			Date:         je.Date,
			Symbol:       je.Symbol,
			Bucket:       bucket,
			EntryPrice:   M(je.EntryPrice, USD),
			Quantity:     je.Quantity,
			InitialValue: M(je.InitialValue, USD),
			CurrentPrice: M(je.CurrentPrice, USD),
			CurrentValue: M(je.CurrentValue, USD),
			ReturnPct:    Percent(je.ReturnPct),
		}
		if !file.Upsert(entry) {
			return nil, fmt.Errorf("format error: symbol %q appears twice in the %s ledger", je.Symbol, on)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	file.markLoaded()
	return file, nil
}
