package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/movers/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion registers the shell completion for mvs. When the binary is
// invoked by the shell completion machinery this call answers and exits.
func completion() {
	c := &complete.Command{
		Sub: map[string]*complete.Command{
			"scan":    {},
			"revalue": {},
			"report": {
				Flags: map[string]complete.Predictor{"d": predict.Something},
			},
			"assist": {},
			"topic": {
				Args: predict.Set{"readme", "buckets", "metrics", "ledger", "storage"},
			},
		},
		Flags: map[string]complete.Predictor{
			"scans-dir":   predict.Dirs("*"),
			"ledgers-dir": predict.Dirs("*"),
			"capital":     predict.Something,
		},
	}
	c.Complete("mvs")
}
