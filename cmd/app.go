// Package cmd implements the CLI application running the daily market-movers
// scans.
package cmd

import (
	"flag"

	"github.com/etnz/movers"
	"github.com/google/subcommands"
)

// Commands lists the subcommands of the mvs binary. A main package registers
// them on a commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&scanCmd{},
	&revalueCmd{},
	&reportCmd{},
	&assistCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var scansDir = flag.String("scans-dir", "scans", "Folder holding the scan snapshot files")
var ledgersDir = flag.String("ledgers-dir", "ledgers", "Folder holding the daily ledger files")
var capital = flag.Float64("capital", 1000, "Simulated capital per position, in USD")

// Snapshots returns the snapshot store over the app scans folder.
func Snapshots() *movers.SnapshotStore { return movers.NewSnapshotStore(*scansDir) }

// Ledgers returns the ledger store over the app ledgers folder.
func Ledgers() *movers.LedgerStore { return movers.NewLedgerStore(*ledgersDir) }

// Capital returns the simulated capital per position.
func Capital() movers.Money { return movers.M(*capital, movers.USD) }
