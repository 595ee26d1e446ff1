package movers

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoHistory is returned when a symbol has no usable price history.
// The caller is expected to drop that symbol from the scan.
var ErrNoHistory = errors.New("no price history")

// Fundamentals holds the point-in-time figures reported by the market data
// collaborator. Unknown figures are NaN, never zero.
type Fundamentals struct {
	ChangePct    float64 // day change, already in percent
	Volume       float64
	AvgVolume3M  float64
	MarketCap    float64
	PETTM        float64
	EPSTTM       float64
	Beta5Y       float64
	Low52        float64
	High52       float64
	TargetMean1Y float64
}

// NewFundamentals returns a Fundamentals with every figure marked unknown.
func NewFundamentals() Fundamentals {
	nan := math.NaN()
	return Fundamentals{
		ChangePct:    nan,
		Volume:       nan,
		AvgVolume3M:  nan,
		MarketCap:    nan,
		PETTM:        nan,
		EPSTTM:       nan,
		Beta5Y:       nan,
		Low52:        nan,
		High52:       nan,
		TargetMean1Y: nan,
	}
}

// Quote is the market data retrieved for one symbol: the live price, the daily
// close and open series in ascending date order, and the fundamentals.
type Quote struct {
	Symbol       string
	Price        float64
	Close        Series
	Open         Series
	Fundamentals Fundamentals
}

// MetricRow is the derived metric set for one symbol in one scan. It is
// computed once per scan and immutable thereafter. Percent fields are already
// multiplied by 100 and rounded to 2 decimals. Unavailable numeric fields are
// NaN and render as "N/A".
type MetricRow struct {
	Symbol        string
	Price         float64
	ChangePct     float64
	Volume        string
	AvgVolume3M   string
	MarketCap     string
	PETTM         float64
	EPSTTM        float64
	Beta5Y        float64
	RSI14         float64
	WeeklyRetPct  Percent
	MonthlyRetPct Percent
	YTDRetPct     Percent
	Year52RetPct  Percent
	Range52W      string
	TargetMean1Y  float64
}

// ComputeMetrics derives the metric set for one symbol from its quote. It is a
// pure function: 'asOf' fixes the current year for the year-to-date window.
//
// It returns ErrNoHistory when the close series is empty.
func ComputeMetrics(q Quote, asOf Date) (MetricRow, error) {
	if q.Close.Len() == 0 {
		return MetricRow{}, fmt.Errorf("%s: %w", q.Symbol, ErrNoHistory)
	}

	current := q.Price
	if current <= 0 {
		// fall back on the last known close
		_, current = q.Close.Latest()
	}

	row := MetricRow{
		Symbol:       q.Symbol,
		Price:        current,
		ChangePct:    round2(q.Fundamentals.ChangePct),
		Volume:       FormatMagnitude(q.Fundamentals.Volume),
		AvgVolume3M:  FormatMagnitude(q.Fundamentals.AvgVolume3M),
		MarketCap:    FormatMagnitude(q.Fundamentals.MarketCap),
		PETTM:        q.Fundamentals.PETTM,
		EPSTTM:       q.Fundamentals.EPSTTM,
		Beta5Y:       q.Fundamentals.Beta5Y,
		RSI14:        rsi14(&q.Close),
		Range52W:     formatRange(q.Fundamentals.Low52, q.Fundamentals.High52),
		TargetMean1Y: q.Fundamentals.TargetMean1Y,
	}

	// Weekly return: 5 trading days ago, the 6th bar from the end.
	if past, ok := q.Close.FromEnd(5); ok {
		row.WeeklyRetPct = windowReturn(current, past)
	}
	// Monthly return: 21 trading days ago.
	if past, ok := q.Close.FromEnd(21); ok {
		row.MonthlyRetPct = windowReturn(current, past)
	}
	// 52-week return: from the first bar of the 1-year history.
	_, first := q.Close.First()
	row.Year52RetPct = windowReturn(current, first)
	// Year-to-date return: from the open of the first bar of the current year.
	if _, open, ok := q.Open.FirstOnOrAfter(asOf.StartOfYear()); ok {
		row.YTDRetPct = windowReturn(current, open)
	}

	return row, nil
}

// windowReturn computes (current-past)/past as an already-multiplied-by-100
// percentage rounded to 2 decimals. A window whose past price is not strictly
// positive is unavailable and resolves to 0, not an error.
func windowReturn(current, past float64) Percent {
	if past <= 0 {
		return 0
	}
	return Percent(round2(100 * (current - past) / past))
}

// rsi14 computes the 14-period relative strength index from day-over-day close
// deltas, using a simple rolling mean of gains and losses.
//
// It requires at least 15 bars (14 deltas), otherwise it is unavailable (NaN).
// When the rolling mean of losses is 0 the index resolves to 100 if the gains
// mean is positive, else 50.
func rsi14(close *Series) float64 {
	const period = 14
	if close.Len() < period+1 {
		return math.NaN()
	}

	var gains, losses float64
	for n := 0; n < period; n++ {
		latest, _ := close.FromEnd(n)
		previous, _ := close.FromEnd(n + 1)
		delta := latest - previous
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	avgGain := gains / period
	avgLoss := losses / period

	if avgLoss == 0 {
		if avgGain > 0 {
			return 100
		}
		return 50
	}
	rs := avgGain / avgLoss
	return round2(100 - 100/(1+rs))
}

// FormatMagnitude converts a raw count (volume, market cap) into a human-scale
// string with a T/B/M/K suffix and two-decimal precision. Unknown values (NaN)
// format as "N/A".
func FormatMagnitude(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// FormatMetric renders a nullable numeric metric, "N/A" when unknown.
func FormatMetric(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", v)
}

func formatRange(low, high float64) string {
	return formatBound(low) + " - " + formatBound(high)
}

func formatBound(v float64) string {
	if math.IsNaN(v) {
		return "?"
	}
	return fmt.Sprintf("%.2f", v)
}

// round2 rounds to 2 decimals, NaN stays NaN.
func round2(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}
