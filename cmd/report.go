package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/movers"
	"github.com/etnz/movers/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	date string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "render a stored scan snapshot and the ledger summary" }
func (*reportCmd) Usage() string {
	return `mvs report [-d <date>]

  Re-renders a stored scan snapshot and the simulated ledger book, without
  fetching anything. By default the latest scan is shown.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Scan date to report on, YYYY-MM-DD (defaults to the latest scan)")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	md, err := reportMarkdown(Snapshots(), Ledgers(), c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// reportMarkdown assembles the report document from stored files only.
func reportMarkdown(snapshots *movers.SnapshotStore, ledgers *movers.LedgerStore, date string) (string, error) {
	var report *movers.ScanReport
	var err error
	if date == "" {
		report, err = snapshots.Latest()
	} else {
		var on movers.Date
		on, err = movers.ParseDate(date)
		if err == nil {
			report, err = snapshots.Load(on)
		}
	}
	if err != nil {
		return "", err
	}

	dates, err := ledgers.Dates()
	if err != nil {
		return "", err
	}
	files := make([]*movers.LedgerFile, 0, len(dates))
	for _, on := range dates {
		file, err := ledgers.LoadOrCreate(on)
		if err != nil {
			return "", err
		}
		files = append(files, file)
	}

	return renderer.ScanMarkdown(report) + "\n" + renderer.BookMarkdown(files), nil
}
