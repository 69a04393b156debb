package engine

import (
	"github.com/okeefe/matching-engine/go-match/internal/orderbook"
)

// matchSymbol trades the best bid against the best ask while they
// cross, recording each trade and reducing or removing the matched
// orders. Called after every mutating command so the whole cascade
// completes before the next command is accepted.
func (e *Engine) matchSymbol(symbol string, book *orderbook.Book) {
	for {
		bid, ok := book.BestBid()
		if !ok {
			return
		}
		ask, ok := book.BestAsk()
		if !ok {
			return
		}
		if bid.Price < ask.Price {
			return
		}

		volume := min(bid.Volume, ask.Volume)

		// The ask is aggressive and the trade prints at the passive
		// bid's price, unless the bid was touched more recently. Ties
		// (both untouched included) keep the default. This is a fixed
		// ledger convention, not an inference about arrival order.
		aggressiveID, passiveID := ask.ID, bid.ID
		price := bid.Price
		if bid.Touched > ask.Touched {
			aggressiveID, passiveID = bid.ID, ask.ID
			price = ask.Price
		}

		e.trades = append(e.trades, Trade{
			Symbol:       symbol,
			Price:        price,
			Volume:       volume,
			AggressiveID: aggressiveID,
			PassiveID:    passiveID,
		})

		e.reduce(book, bid, volume)
		e.reduce(book, ask, volume)
	}
}

// reduce takes volume off a matched order. A fully filled order leaves
// the book and frees its id; a partial fill is reinserted with its
// arrival and touched ticks intact, so it never loses priority.
func (e *Engine) reduce(book *orderbook.Book, o orderbook.Order, volume int64) {
	book.Remove(o.ID)
	o.Volume -= volume
	if o.Volume > 0 {
		book.Insert(o)
		return
	}
	delete(e.symbolOf, o.ID)
}
