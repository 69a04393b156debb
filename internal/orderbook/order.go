package orderbook

// Side represents buy or sell.
type Side byte

const (
	SideBuy  Side = 'B'
	SideSell Side = 'S'
)

func (s Side) String() string {
	if s == SideBuy {
		return "BUY"
	}
	return "SELL"
}

// Order is one resting limit order. Orders are values: any change to a
// field that the book orders by (price, arrival) must go through
// remove-and-reinsert, never in-place mutation of a stored order.
type Order struct {
	ID      uint64
	Side    Side
	Price   Price
	Volume  int64
	Arrival uint64 // logical arrival tick, governs time priority
	Touched uint64 // tick of the last priority-losing amend, 0 = never
}

// bidBefore reports whether a outranks b on the buy side:
// higher price first, then earlier arrival.
func bidBefore(a, b Order) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	if a.Arrival != b.Arrival {
		return a.Arrival < b.Arrival
	}
	return a.ID < b.ID
}

// askBefore reports whether a outranks b on the sell side:
// lower price first, then earlier arrival.
func askBefore(a, b Order) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	if a.Arrival != b.Arrival {
		return a.Arrival < b.Arrival
	}
	return a.ID < b.ID
}
