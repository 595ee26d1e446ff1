package movers

import (
	"fmt"
	"time"
)

// USDM is a helper for tests to create dollar money from const
func USDM(v float64) Money { return M(v, USD) }

var scanDay = NewDate(2025, time.August, 28)

// fakeSource is a canned discovery collaborator.
type fakeSource struct {
	symbols []string
}

func (s *fakeSource) CandidateSymbols() []string { return s.symbols }

// fakeQuotes is a canned market data collaborator. Symbols absent from the
// maps fail, like a delisted ticker would.
type fakeQuotes struct {
	quotes map[string]Quote
	prices map[string]float64
	calls  int // LatestPrice invocations
}

func (q *fakeQuotes) Quote(symbol string) (Quote, error) {
	quote, ok := q.quotes[symbol]
	if !ok {
		return Quote{}, fmt.Errorf("unknown symbol %q", symbol)
	}
	return quote, nil
}

func (q *fakeQuotes) LatestPrice(symbol string) (float64, error) {
	q.calls++
	price, ok := q.prices[symbol]
	if !ok {
		return 0, fmt.Errorf("unknown symbol %q", symbol)
	}
	return price, nil
}

// quoteWithReturns builds a quote whose 52-week and monthly returns hit a
// wanted profile, from a year of history ending at 'price'.
func quoteWithReturns(symbol string, price, yearAgo, monthAgo float64) Quote {
	q := Quote{Symbol: symbol, Price: price, Fundamentals: NewFundamentals()}
	day := NewDate(2024, time.August, 28)
	for i := 0; i < 250; i++ {
		v := price
		switch {
		case i == 0:
			v = yearAgo
		case i < 228:
			v = (yearAgo + price) / 2
		case i == 228: // 22 bars from the end
			v = monthAgo
		}
		q.Close.Append(day, v)
		q.Open.Append(day, v)
		day = day.Add(1)
	}
	return q
}
