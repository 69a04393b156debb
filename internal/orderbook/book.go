package orderbook

import (
	"github.com/google/btree"
)

const btreeDegree = 8

// Level is the aggregate resting volume at a single price.
type Level struct {
	Price  Price
	Volume int64
}

// Book is a price-time priority order book for a single symbol.
// Each side is a B-tree ordered by that side's priority comparator, so
// the minimum element of a side is always its best order. A by-id index
// holds the current resting version of every order for O(log n) removal.
type Book struct {
	bids *btree.BTreeG[Order]
	asks *btree.BTreeG[Order]
	byID map[uint64]Order
}

// NewBook creates an empty order book.
func NewBook() *Book {
	return &Book{
		bids: btree.NewG(btreeDegree, bidBefore),
		asks: btree.NewG(btreeDegree, askBefore),
		byID: make(map[uint64]Order),
	}
}

// Insert adds an order to its side. The order's id must not already be
// resting in the book, and its volume must be positive.
func (b *Book) Insert(o Order) {
	b.byID[o.ID] = o
	b.side(o.Side).ReplaceOrInsert(o)
}

// Remove deletes the order with the given id from the book and returns
// the removed version, or false if no such order rests here.
func (b *Book) Remove(id uint64) (Order, bool) {
	o, ok := b.byID[id]
	if !ok {
		return Order{}, false
	}
	delete(b.byID, id)
	b.side(o.Side).Delete(o)
	return o, true
}

// Lookup returns the current resting version of an order by id.
func (b *Book) Lookup(id uint64) (Order, bool) {
	o, ok := b.byID[id]
	return o, ok
}

// BestBid returns the highest-priority buy order, if any.
func (b *Book) BestBid() (Order, bool) {
	return b.bids.Min()
}

// BestAsk returns the highest-priority sell order, if any.
func (b *Book) BestAsk() (Order, bool) {
	return b.asks.Min()
}

// OrderCount returns the number of orders resting across both sides.
func (b *Book) OrderCount() int {
	return len(b.byID)
}

// BidLevels returns per-price aggregate buy volume, best (highest) price
// first. Orders at equal price are contiguous in the tree, so one pass
// suffices.
func (b *Book) BidLevels() []Level {
	return collectLevels(b.bids)
}

// AskLevels returns per-price aggregate sell volume, best (lowest) price
// first.
func (b *Book) AskLevels() []Level {
	return collectLevels(b.asks)
}

func collectLevels(side *btree.BTreeG[Order]) []Level {
	var levels []Level
	side.Ascend(func(o Order) bool {
		if n := len(levels); n > 0 && levels[n-1].Price == o.Price {
			levels[n-1].Volume += o.Volume
		} else {
			levels = append(levels, Level{Price: o.Price, Volume: o.Volume})
		}
		return true
	})
	return levels
}

func (b *Book) side(s Side) *btree.BTreeG[Order] {
	if s == SideBuy {
		return b.bids
	}
	return b.asks
}
