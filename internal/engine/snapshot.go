package engine

import (
	"sort"

	"github.com/okeefe/matching-engine/go-match/internal/orderbook"
)

// SymbolDepth is the end-of-run aggregate view of one symbol's book:
// buy levels best (highest) first, sell levels best (lowest) first.
type SymbolDepth struct {
	Symbol string
	Bids   []orderbook.Level
	Asks   []orderbook.Level
}

// Depth returns per-symbol aggregated resting interest in lexicographic
// symbol order. Symbols whose books have emptied are still included: a
// book persists for the run once created.
func (e *Engine) Depth() []SymbolDepth {
	symbols := make([]string, 0, len(e.books))
	for symbol := range e.books {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	depth := make([]SymbolDepth, 0, len(symbols))
	for _, symbol := range symbols {
		book := e.books[symbol]
		depth = append(depth, SymbolDepth{
			Symbol: symbol,
			Bids:   book.BidLevels(),
			Asks:   book.AskLevels(),
		})
	}
	return depth
}
