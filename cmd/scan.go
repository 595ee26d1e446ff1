package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/movers"
	"github.com/etnz/movers/renderer"
	"github.com/google/subcommands"
)

type scanCmd struct{}

func (*scanCmd) Name() string     { return "scan" }
func (*scanCmd) Synopsis() string { return "run the daily market-movers scan" }
func (*scanCmd) Usage() string {
	return `mvs scan

  Discovers today's top gainers, computes their metrics, classifies them into
  strategy buckets, persists the scan snapshot, opens a simulated position for
  every tradable symbol and revalues the whole ledger.

  Re-running a scan on the same day overwrites the snapshot but never
  duplicates a position.
`
}

func (*scanCmd) SetFlags(f *flag.FlagSet) {}

func (c *scanCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	provider := movers.NewYahooProvider()
	pipeline := &movers.Pipeline{
		Scanner:   &movers.Scanner{Source: provider, Quotes: provider, Progress: os.Stderr},
		Snapshots: Snapshots(),
		Ledger:    Ledgers(),
		Capital:   Capital(),
	}

	result, err := pipeline.Run(movers.Today())
	if errors.Is(err, movers.ErrNoCandidates) {
		fmt.Fprintln(os.Stderr, "Error: the gainers page yielded no candidate symbol, nothing to scan.")
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ScanMarkdown(result.Report))

	if result.LedgerErr != nil {
		fmt.Fprintf(os.Stderr, "Error: scan snapshot saved, but the ledger feed failed: %v\n", result.LedgerErr)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Opened %d position(s), %d already held today.\n", result.Added.Added, result.Added.Skipped)
	printMarkdown(renderer.SummaryMarkdown(result.Totals))
	return subcommands.ExitSuccess
}
