package movers

import "fmt"

// Bucket is the strategy classification of a scanned symbol.
type Bucket int

const (
	// Other marks a symbol that matched no strategy. It is excluded from the
	// ledger feed.
	Other Bucket = iota
	// SimmeringGrowth is the sweet spot: a moderate yearly run with good
	// recent growth.
	SimmeringGrowth
	// Rockets is extreme momentum on both the yearly and the monthly window.
	Rockets
	// Turnarounds is a negative year that is performing well recently.
	Turnarounds
)

func (b Bucket) String() string {
	switch b {
	case SimmeringGrowth:
		return "Simmering Growth"
	case Rockets:
		return "Rockets"
	case Turnarounds:
		return "Turnarounds"
	default:
		return "Other"
	}
}

// ParseBucket parses a string into a Bucket.
func ParseBucket(s string) (Bucket, error) {
	switch s {
	case "Simmering Growth":
		return SimmeringGrowth, nil
	case "Rockets":
		return Rockets, nil
	case "Turnarounds":
		return Turnarounds, nil
	case "Other":
		return Other, nil
	default:
		return 0, fmt.Errorf("unknown bucket: %q", s)
	}
}

// Tradable reports whether the bucket feeds the simulated ledger.
func (b Bucket) Tradable() bool { return b != Other }

// Classify assigns a metric row to a strategy bucket from its 52-week and
// monthly returns.
//
// The rules are applied in sequence and a later match overwrites an earlier
// one (Simmering Growth, then Rockets, then Turnarounds). The thresholds do
// not overlap in practice, but the precedence is part of the contract and
// must not be reordered.
func Classify(row MetricRow) Bucket {
	bucket := Other
	if row.Year52RetPct >= 10 && row.Year52RetPct <= 20 && row.MonthlyRetPct > 5 {
		bucket = SimmeringGrowth
	}
	if row.Year52RetPct > 50 && row.MonthlyRetPct > 10 {
		bucket = Rockets
	}
	if row.Year52RetPct < 0 && row.MonthlyRetPct > 10 {
		bucket = Turnarounds
	}
	return bucket
}
