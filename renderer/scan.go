package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/movers"
	md "github.com/nao1215/markdown"
)

// buckets fixes the section order of a scan report. Other comes last, it is
// the catch-all.
var buckets = []movers.Bucket{
	movers.SimmeringGrowth,
	movers.Rockets,
	movers.Turnarounds,
	movers.Other,
}

// ScanMarkdown renders one scan snapshot: one section per strategy bucket,
// then the symbols dropped from the scan.
func ScanMarkdown(r *movers.ScanReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Market Movers — %s", r.On))

	for _, b := range buckets {
		rows := r.InBucket(b)
		if len(rows) == 0 {
			continue
		}
		doc.H2(fmt.Sprintf("%s (%d)", b, len(rows)))
		doc.Table(bucketTable(rows))
	}

	if len(r.Failures) > 0 {
		doc.H2("Dropped")
		var dropped []string
		for _, f := range r.Failures {
			dropped = append(dropped, fmt.Sprintf("%s: %v", f.Symbol, f.Err))
		}
		doc.BulletList(dropped...)
	}

	return doc.String()
}

func bucketTable(rows []movers.ScanRow) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{
			"Ticker",
			"Price",
			"Chg",
			"RSI 14",
			"1W",
			"1M",
			"YTD",
			"52W",
			"Volume",
			"Mkt Cap",
			"P/E TTM",
			"52W Range",
		},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Symbol,
			fmt.Sprintf("%.2f", row.Price),
			movers.FormatMetric(row.ChangePct),
			movers.FormatMetric(row.RSI14),
			row.WeeklyRetPct.SignedString(),
			row.MonthlyRetPct.SignedString(),
			row.YTDRetPct.SignedString(),
			row.Year52RetPct.SignedString(),
			row.Volume,
			row.MarketCap,
			movers.FormatMetric(row.PETTM),
			row.Range52W,
		})
	}
	return table
}
