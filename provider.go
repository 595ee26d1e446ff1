package movers

// SymbolSource is the discovery collaborator. It returns an ordered sequence
// of candidate ticker strings, possibly empty on failure, and never fails the
// caller.
type SymbolSource interface {
	CandidateSymbols() []string
}

// QuoteProvider is the market data collaborator. Both calls may fail
// per-symbol; callers tolerate a symbol-level failure without aborting the
// batch.
type QuoteProvider interface {
	// Quote returns the live price, one year of daily history and the
	// fundamentals for a symbol.
	Quote(symbol string) (Quote, error)
	// LatestPrice returns only the live price, for revaluation.
	LatestPrice(symbol string) (float64, error)
}
