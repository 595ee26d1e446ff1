package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/movers"
	md "github.com/nao1215/markdown"
)

// LedgerMarkdown renders the positions of one ledger day as a markdown
// section, entries in file order, with the day's subtotal.
func LedgerMarkdown(f *movers.LedgerFile) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(fmt.Sprintf("Positions entered %s", f.On()))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{
			"Ticker",
			"Bucket",
			"Entry",
			"Quantity",
			"Invested",
			"Price",
			"Value",
			"Return",
		},
	}
	for e := range f.Entries() {
		table.Rows = append(table.Rows, []string{
			e.Symbol,
			e.Bucket.String(),
			e.EntryPrice.String(),
			e.Quantity.String(),
			e.InitialValue.String(),
			e.CurrentPrice.String(),
			e.CurrentValue.String(),
			e.ReturnPct.SignedString(),
		})
	}
	doc.Table(table)

	invested, value := f.Totals()
	doc.PlainText(fmt.Sprintf("Invested %s, now worth %s (%s).",
		invested, value, invested.Gain(value).SignedString()))

	return doc.String()
}

// BookMarkdown renders a whole ledger book: one section per ledger day, then
// the grand totals folded from the stored values.
func BookMarkdown(files []*movers.LedgerFile) string {
	if len(files) == 0 {
		return "The ledger is empty: no scan opened a position yet.\n"
	}

	var b strings.Builder
	var sum movers.Summary
	sum.Invested, sum.Value = movers.M(0, movers.USD), movers.M(0, movers.USD)
	for _, f := range files {
		b.WriteString(LedgerMarkdown(f))
		b.WriteString("\n")
		invested, value := f.Totals()
		sum.Invested = sum.Invested.Add(invested)
		sum.Value = sum.Value.Add(value)
		sum.Positions += f.Len()
		sum.Files++
	}
	b.WriteString(SummaryMarkdown(sum))
	return b.String()
}

// SummaryMarkdown renders the grand totals of a revaluation pass across every
// ledger file.
func SummaryMarkdown(sum movers.Summary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Grand Total")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"", ""},
		Rows: [][]string{
			{"Ledger days", fmt.Sprintf("%d", sum.Files)},
			{"Positions", fmt.Sprintf("%d", sum.Positions)},
			{"Revalued", fmt.Sprintf("%d", sum.Revalued)},
			{md.Bold("Invested"), md.Bold(sum.Invested.String())},
			{md.Bold("Value"), md.Bold(sum.Value.String())},
			{md.Bold("Return"), md.Bold(sum.Return().SignedString())},
		},
	})
	if sum.SkippedFiles > 0 {
		doc.PlainText(fmt.Sprintf("%d unreadable ledger file(s) were skipped and are excluded from the totals.", sum.SkippedFiles))
	}

	return doc.String()
}
