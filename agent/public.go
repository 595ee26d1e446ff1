package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/movers"
	"github.com/etnz/movers/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// newFacilitator creates the expert in charge of the conversation, delegating
// to the other experts through function calls.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the experts' skills from the Tools and ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user runs a daily market-movers scan that classifies stocks into strategy buckets
			(Simmering Growth, Rockets, Turnarounds) and tracks them in a simulated paper-trading ledger.
			He is here primarily to understand what the scans found and how his simulated positions perform.

			Devise a plan of questions to ask each expert and come up with the best response to the user's request.

			Check the latest scan first to know which tickers the user is talking about.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewScout returns the expert grounding answers in live market news through
// Google Search.
func NewScout() *Expert {
	return &Expert{
		Name: "Scout",
		Description: `This is the Scout, an expert in market news.
		Very well aware of companies, sectors and the latest headlines moving stocks.
		Ask the Scout whenever you need recent or grounding information about a ticker.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in equity markets. You can search and find anything related to
			companies, sectors, earnings and market-moving news. You leverage Google Search to
			ground your assertions in a solid truth, and you know how to relate the latest news
			to the user's request.
				`}}},
		},
	}
}

// NewAnalyst returns the expert reading the user's scan snapshots and
// simulated ledger.
func NewAnalyst(snapshots *movers.SnapshotStore, ledgers *movers.LedgerStore) *Expert {
	lib := []Function{latestScanFunc(snapshots), ledgerReportFunc(ledgers)}

	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He is in charge of reading the user's daily scan
		snapshots and the simulated paper-trading ledger. He can report which stocks landed in
		which strategy bucket on any scanned day, and how the simulated positions perform.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's market scans and simulated ledger.
				You know how to use the Tools to extract the relevant figures. You are part of a
				team of experts; pardon their approximative language and figure out what they meant.

				Use the available tools to get:
				  - the latest (or any day's) scan snapshot with metrics and buckets
				  - the simulated positions and their current performance
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

func latestScanFunc(snapshots *movers.SnapshotStore) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Scan",
			Description: `Scan returns one day's market scan as a markdown document: every scanned
			ticker with its metrics (price, RSI, return windows, volume, market cap) grouped by
			strategy bucket. Without a date it returns the latest scan.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date": {
						Type:        genai.TypeString,
						Description: "The scan day, YYYY-MM-DD. The latest scan is the default.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted scan report grouped by strategy bucket.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			fresp := &genai.FunctionResponse{ID: id, Name: "Scan", Response: map[string]any{}}

			var report *movers.ScanReport
			var err error
			if sdate, ok := args["date"].(string); ok && strings.TrimSpace(sdate) != "" {
				var on movers.Date
				on, err = movers.ParseDate(sdate)
				if err == nil {
					report, err = snapshots.Load(on)
				}
			} else {
				report, err = snapshots.Latest()
			}
			if err != nil {
				fresp.Response["error"] = err.Error()
				return fresp
			}
			fresp.Response["output"] = renderer.ScanMarkdown(report)
			return fresp
		},
	}
}

func ledgerReportFunc(ledgers *movers.LedgerStore) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Positions",
			Description: `Positions returns every simulated position as a markdown document: one
			section per entry day with ticker, bucket, entry price, quantity, invested and current
			value, then the grand totals. Values are as of the last revaluation.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted report of the simulated ledger.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			fresp := &genai.FunctionResponse{ID: id, Name: "Positions", Response: map[string]any{}}

			report, err := ledgerReport(ledgers)
			if err != nil {
				fresp.Response["error"] = err.Error()
				return fresp
			}
			fresp.Response["output"] = report
			return fresp
		},
	}
}

// ledgerReport renders every ledger day and the grand totals, from stored
// values, without hitting the market.
func ledgerReport(ledgers *movers.LedgerStore) (string, error) {
	dates, err := ledgers.Dates()
	if err != nil {
		return "", fmt.Errorf("could not list ledgers: %w", err)
	}
	files := make([]*movers.LedgerFile, 0, len(dates))
	for _, on := range dates {
		file, err := ledgers.LoadOrCreate(on)
		if err != nil {
			return "", fmt.Errorf("could not load ledger %s: %w", on, err)
		}
		files = append(files, file)
	}
	return renderer.BookMarkdown(files), nil
}
