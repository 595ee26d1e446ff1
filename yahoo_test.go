package movers

import (
	"encoding/json"
	"testing"
)

const gainersHTML = `
<html><body><table>
<tr><th>Symbol</th><th>Name</th></tr>
<tr><td>NVDA</td><td>NVIDIA Corporation</td></tr>
<tr><td>BRK.B</td><td>Berkshire Hathaway</td></tr>
<tr><td>NVDA</td><td>duplicate row</td></tr>
<tr><td>Some random text</td><td>not a ticker</td></tr>
<tr><td>toolongsymbol</td><td>rejected</td></tr>
<tr><td>AMD</td><td>Advanced Micro Devices</td></tr>
</table></body></html>`

func TestParseGainers(t *testing.T) {
	symbols, err := parseGainers([]byte(gainersHTML))
	if err != nil {
		t.Fatalf("parseGainers returned error: %v", err)
	}
	want := []string{"NVDA", "BRK.B", "AMD"}
	if len(symbols) != len(want) {
		t.Fatalf("parseGainers = %v, want %v", symbols, want)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Errorf("symbol %d = %q, want %q", i, symbols[i], want[i])
		}
	}
}

func TestLooksLikeTicker(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"NVDA", true},
		{"BRK.B", true},
		{"A", true},
		{"", false},
		{"Some text", false},
		{"toolongsymbol", false},
		{"Symbol", false}, // mixed case header
	}
	for _, tc := range tests {
		if got := looksLikeTicker(tc.in); got != tc.want {
			t.Errorf("looksLikeTicker(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

const chartJSON = `{
  "chart": {
    "result": [
      {
        "meta": {"symbol": "ABC", "regularMarketPrice": 110},
        "timestamp": [1718236800, 1718323200],
        "indicators": {
          "quote": [{"close": [101, 109], "open": [100, 102]}],
          "adjclose": [{"adjclose": [100.5, 108.5]}]
        }
      }
    ],
    "error": null
  }
}`

func TestChartToQuote(t *testing.T) {
	var payload chartResponse
	if err := json.Unmarshal([]byte(chartJSON), &payload); err != nil {
		t.Fatalf("cannot unmarshal fixture: %v", err)
	}
	q, err := chartToQuote("ABC", &payload)
	if err != nil {
		t.Fatalf("chartToQuote returned error: %v", err)
	}
	if q.Price != 110 {
		t.Errorf("Price = %v, want 110", q.Price)
	}
	if q.Close.Len() != 2 || q.Open.Len() != 2 {
		t.Fatalf("series lengths = %d, %d, want 2, 2", q.Close.Len(), q.Open.Len())
	}
	// adjusted closes take precedence over raw closes
	if _, v := q.Close.Latest(); v != 108.5 {
		t.Errorf("latest close = %v, want the adjusted 108.5", v)
	}
}

func TestChartToQuoteEmptyResult(t *testing.T) {
	var payload chartResponse
	if _, err := chartToQuote("ABC", &payload); err == nil {
		t.Error("chartToQuote on an empty payload should fail")
	}
}

func TestJPFloat(t *testing.T) {
	var jobj any
	blob := `{"quoteSummary":{"result":[{"summaryDetail":{"volume":{"raw":123456.0},"trailingPE":{}}}]}}`
	if err := json.Unmarshal([]byte(blob), &jobj); err != nil {
		t.Fatal(err)
	}
	if got := jpFloat(jobj, "$.quoteSummary.result[0].summaryDetail.volume.raw"); got != 123456 {
		t.Errorf("jpFloat = %v, want 123456", got)
	}
	if got := jpFloat(jobj, "$.quoteSummary.result[0].summaryDetail.trailingPE.raw"); got == got {
		t.Errorf("jpFloat on a missing path = %v, want NaN", got)
	}
}
