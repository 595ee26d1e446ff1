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

type revalueCmd struct{}

func (*revalueCmd) Name() string     { return "revalue" }
func (*revalueCmd) Synopsis() string { return "refresh every simulated position against live prices" }
func (*revalueCmd) Usage() string {
	return `mvs revalue

  Revalues every position of every ledger file against live prices and prints
  the grand totals. A position whose quote fails keeps its last known values;
  an unreadable ledger file is skipped and reported.
`
}

func (*revalueCmd) SetFlags(f *flag.FlagSet) {}

func (c *revalueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sum, err := Ledgers().RevalueAll(movers.NewYahooProvider())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SummaryMarkdown(sum))
	return subcommands.ExitSuccess
}
