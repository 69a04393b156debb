package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/okeefe/matching-engine/go-match/internal/orderbook"
)

var (
	// ErrDuplicateID is returned by Insert when the id is already resting.
	ErrDuplicateID = errors.New("duplicate order id")
	// ErrUnknownID is returned by Amend and Pull when no resting order
	// carries the id.
	ErrUnknownID = errors.New("unknown order id")
)

// Trade is one executed match, immutable once recorded.
type Trade struct {
	Symbol       string
	Price        orderbook.Price
	Volume       int64
	AggressiveID uint64
	PassiveID    uint64
}

// Engine is a single-threaded matching engine over any number of
// symbols. Commands are applied one at a time; each command's full
// cascade of matches completes before the next command is accepted, so
// the trade ledger and final book state are fully determined by the
// input sequence.
//
// symbolOf doubles as the active-id set: an id is a key iff its order
// rests in some book. That gives O(1) duplicate/unknown-id checks and
// lets Amend and Pull go straight to the owning book instead of
// scanning every symbol.
type Engine struct {
	books    map[string]*orderbook.Book
	symbolOf map[uint64]string
	trades   []Trade
	clock    uint64
}

// New creates an empty engine.
func New() *Engine {
	return &Engine{
		books:    make(map[string]*orderbook.Book),
		symbolOf: make(map[uint64]string),
	}
}

// Insert places a new limit order and matches the symbol to exhaustion.
// The id must not be currently resting anywhere; ids freed by a pull or
// a full fill may be reused. Price precision and volume positivity are
// the caller's contract (validated at the wire boundary).
func (e *Engine) Insert(id uint64, symbol string, side orderbook.Side, price orderbook.Price, volume int64) error {
	if _, active := e.symbolOf[id]; active {
		return fmt.Errorf("insert order %d: %w", id, ErrDuplicateID)
	}
	book := e.books[symbol]
	if book == nil {
		book = orderbook.NewBook()
		e.books[symbol] = book
	}
	e.clock++
	book.Insert(orderbook.Order{
		ID:      id,
		Side:    side,
		Price:   price,
		Volume:  volume,
		Arrival: e.clock,
	})
	e.symbolOf[id] = symbol
	e.matchSymbol(symbol, book)
	return nil
}

// Amend changes the price and volume of a resting order. Side and
// symbol never change. Priority is kept only when the price is
// unchanged and the volume strictly decreases; every other amend is a
// remove-and-reinsert with a fresh arrival tick, which also marks the
// order as recently touched for aggressor attribution.
func (e *Engine) Amend(id uint64, price orderbook.Price, volume int64) error {
	symbol, active := e.symbolOf[id]
	if !active {
		return fmt.Errorf("amend order %d: %w", id, ErrUnknownID)
	}
	book := e.books[symbol]
	cur, _ := book.Remove(id)

	next := cur
	next.Price = price
	next.Volume = volume
	if price == cur.Price && volume < cur.Volume {
		// Same price, smaller size: arrival is kept and the order stays
		// untouched for attribution purposes.
		next.Touched = 0
	} else {
		e.clock++
		next.Arrival = e.clock
		next.Touched = e.clock
	}
	book.Insert(next)
	e.matchSymbol(symbol, book)
	return nil
}

// Pull cancels a resting order and frees its id for reuse. Removal
// cannot create a cross, but matching is re-run uniformly.
func (e *Engine) Pull(id uint64) error {
	symbol, active := e.symbolOf[id]
	if !active {
		return fmt.Errorf("pull order %d: %w", id, ErrUnknownID)
	}
	book := e.books[symbol]
	book.Remove(id)
	delete(e.symbolOf, id)
	e.matchSymbol(symbol, book)
	return nil
}

// Trades returns the ledger of executed trades in discovery order,
// interleaved across symbols.
func (e *Engine) Trades() []Trade {
	return e.trades
}

// Active reports whether an order with the given id currently rests in
// any book.
func (e *Engine) Active(id uint64) bool {
	_, ok := e.symbolOf[id]
	return ok
}

// ActiveCount returns the number of currently resting orders.
func (e *Engine) ActiveCount() int {
	return len(e.symbolOf)
}

// ActiveIDs returns the ids of all resting orders in ascending order.
func (e *Engine) ActiveIDs() []uint64 {
	ids := make([]uint64, 0, len(e.symbolOf))
	for id := range e.symbolOf {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Resting returns the current version of a resting order by id.
func (e *Engine) Resting(id uint64) (orderbook.Order, bool) {
	symbol, active := e.symbolOf[id]
	if !active {
		return orderbook.Order{}, false
	}
	return e.books[symbol].Lookup(id)
}
