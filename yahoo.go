package movers

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/PuerkitoBio/goquery"
)

// This file contains the Yahoo Finance collaborators: day-gainer discovery,
// and quote/history retrieval per symbol.

const (
	gainersURL      = "https://finance.yahoo.com/markets/stocks/gainers/"
	chartURL        = "https://query1.finance.yahoo.com/v8/finance/chart/%s?range=%s&interval=1d"
	quoteSummaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=summaryDetail,defaultKeyStatistics,financialData"

	// Return the top 25 to avoid garbage at the bottom of the page.
	maxCandidates = 25
)

// YahooProvider discovers the daily gainers and fetches quotes from Yahoo
// Finance. Historical data goes through a daily-expiring disk cache; live
// prices and the gainers page are always fetched fresh.
type YahooProvider struct {
	live   *http.Client
	cached *http.Client
}

// NewYahooProvider returns a ready-to-use provider.
func NewYahooProvider() *YahooProvider {
	return &YahooProvider{
		live:   new(http.Client),
		cached: daily(),
	}
}

var _ SymbolSource = (*YahooProvider)(nil)
var _ QuoteProvider = (*YahooProvider)(nil)

// CandidateSymbols scrapes the day-gainers page and returns up to 25 tickers
// in page order. It returns an empty list on failure, never an error.
func (p *YahooProvider) CandidateSymbols() []string {
	body, err := wget(p.live, gainersURL)
	if err != nil {
		log.Printf("cannot fetch day gainers: %v", err)
		return nil
	}
	symbols, err := parseGainers(body)
	if err != nil {
		log.Printf("cannot parse day gainers page: %v", err)
		return nil
	}
	return symbols
}

// parseGainers extracts ticker symbols from the gainers page HTML. The page
// layout varies, so it scans every table row and keeps the first cell when it
// looks like a ticker.
func parseGainers(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	var symbols []string
	seen := make(map[string]bool)
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cell := row.Find("td").First()
		txt := strings.TrimSpace(cell.Text())
		if !looksLikeTicker(txt) {
			return
		}
		if seen[txt] {
			return
		}
		seen[txt] = true
		symbols = append(symbols, txt)
	})

	if len(symbols) > maxCandidates {
		symbols = symbols[:maxCandidates]
	}
	return symbols, nil
}

// looksLikeTicker eliminates header cells and random text: uppercase, short,
// no spaces. A dot is allowed for class shares like BRK.B.
func looksLikeTicker(txt string) bool {
	if txt == "" || len(txt) > 8 || strings.Contains(txt, " ") {
		return false
	}
	return txt == strings.ToUpper(txt)
}

// chartResponse mirrors the part of Yahoo's chart API payload that we use.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
					Open  []float64 `json:"open"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// Quote returns the live price, one year of daily history and the
// fundamentals for a symbol. The fundamentals call is best-effort: when it
// fails the figures stay unknown and the quote is still usable.
func (p *YahooProvider) Quote(symbol string) (Quote, error) {
	var payload chartResponse
	addr := fmt.Sprintf(chartURL, symbol, "1y")
	if err := jwget(p.cached, addr, &payload); err != nil {
		return Quote{}, fmt.Errorf("cannot fetch history for %q: %w", symbol, err)
	}
	quote, err := chartToQuote(symbol, &payload)
	if err != nil {
		return Quote{}, err
	}

	fund, err := p.fundamentals(symbol)
	if err != nil {
		log.Printf("fundamentals unavailable for %q: %v", symbol, err)
		fund = NewFundamentals()
	}
	quote.Fundamentals = fund
	return quote, nil
}

// chartToQuote converts a chart payload into a Quote with aligned close and
// open series.
func chartToQuote(symbol string, payload *chartResponse) (Quote, error) {
	if len(payload.Chart.Result) == 0 {
		return Quote{}, fmt.Errorf("no chart data for %q", symbol)
	}
	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return Quote{}, fmt.Errorf("no quote indicators for %q", symbol)
	}

	q := Quote{Symbol: symbol, Price: result.Meta.RegularMarketPrice}

	closes := result.Indicators.Quote[0].Close
	// splits and dividends are already folded into the adjusted close
	if len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) == len(closes) {
		closes = result.Indicators.AdjClose[0].AdjClose
	}
	opens := result.Indicators.Quote[0].Open

	for i, ts := range result.Timestamp {
		on := NewDate(time.Unix(ts, 0).UTC().Date())
		if i < len(closes) && closes[i] > 0 {
			q.Close.Append(on, closes[i])
		}
		if i < len(opens) && opens[i] > 0 {
			q.Open.Append(on, opens[i])
		}
	}
	return q, nil
}

// fundamentals plucks the point-in-time figures from the quoteSummary payload.
func (p *YahooProvider) fundamentals(symbol string) (Fundamentals, error) {
	var jobj any
	addr := fmt.Sprintf(quoteSummaryURL, symbol)
	if err := jwget(p.cached, addr, &jobj); err != nil {
		return Fundamentals{}, err
	}

	const result = "$.quoteSummary.result[0]"
	fund := Fundamentals{
		ChangePct:    jpFloat(jobj, result+".summaryDetail.regularMarketChangePercent.raw") * 100,
		Volume:       jpFloat(jobj, result+".summaryDetail.volume.raw"),
		AvgVolume3M:  jpFloat(jobj, result+".summaryDetail.averageVolume.raw"),
		MarketCap:    jpFloat(jobj, result+".summaryDetail.marketCap.raw"),
		PETTM:        jpFloat(jobj, result+".summaryDetail.trailingPE.raw"),
		EPSTTM:       jpFloat(jobj, result+".defaultKeyStatistics.trailingEps.raw"),
		Beta5Y:       jpFloat(jobj, result+".summaryDetail.beta.raw"),
		Low52:        jpFloat(jobj, result+".summaryDetail.fiftyTwoWeekLow.raw"),
		High52:       jpFloat(jobj, result+".summaryDetail.fiftyTwoWeekHigh.raw"),
		TargetMean1Y: jpFloat(jobj, result+".financialData.targetMeanPrice.raw"),
	}
	return fund, nil
}

// jpFloat extracts a float64 at a jsonpath, NaN when the path is missing or
// not a number.
func jpFloat(jobj any, path string) float64 {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return math.NaN()
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return math.NaN()
	}
	return val
}

// LatestPrice returns the live price only, bypassing the disk cache so
// revaluation always sees fresh quotes.
func (p *YahooProvider) LatestPrice(symbol string) (float64, error) {
	var payload chartResponse
	addr := fmt.Sprintf(chartURL, symbol, "1d")
	if err := jwget(p.live, addr, &payload); err != nil {
		return 0, fmt.Errorf("cannot fetch price for %q: %w", symbol, err)
	}
	if len(payload.Chart.Result) == 0 {
		return 0, fmt.Errorf("no price for %q", symbol)
	}
	price := payload.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, fmt.Errorf("empty price for %q", symbol)
	}
	return price, nil
}
