package engine

import (
	"errors"
	"testing"

	"github.com/okeefe/matching-engine/go-match/internal/orderbook"
)

func price(ticks int64) orderbook.Price {
	return orderbook.PriceFromTicks(ticks)
}

func mustInsert(t *testing.T, e *Engine, id uint64, symbol string, side orderbook.Side, ticks, volume int64) {
	t.Helper()
	if err := e.Insert(id, symbol, side, price(ticks), volume); err != nil {
		t.Fatalf("insert %d: %v", id, err)
	}
}

func TestInsertRestsWithoutCross(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1500000, 15)
	mustInsert(t, e, 2, "NVDA", orderbook.SideSell, 1510000, 30)

	if len(e.Trades()) != 0 {
		t.Fatalf("got %d trades, want 0 (no cross)", len(e.Trades()))
	}
	if !e.Active(1) || !e.Active(2) {
		t.Fatal("both orders should rest")
	}
}

func TestInsertDuplicateID(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1725000, 200)
	err := e.Insert(1, "NVDA", orderbook.SideSell, price(1725000), 200)
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}
}

func TestAmendUnknownID(t *testing.T) {
	e := New()
	if err := e.Amend(1, price(50000), 5); !errors.Is(err, ErrUnknownID) {
		t.Fatalf("err = %v, want ErrUnknownID", err)
	}
}

func TestPullUnknownID(t *testing.T) {
	e := New()
	if err := e.Pull(1); !errors.Is(err, ErrUnknownID) {
		t.Fatalf("err = %v, want ErrUnknownID", err)
	}
}

func TestFullFillDefaultAttribution(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1725000, 200)
	mustInsert(t, e, 2, "NVDA", orderbook.SideSell, 1725000, 200)

	trades := e.Trades()
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}
	tr := trades[0]
	if tr.Symbol != "NVDA" || tr.Price != price(1725000) || tr.Volume != 200 {
		t.Fatalf("trade = %+v", tr)
	}
	if tr.AggressiveID != 2 || tr.PassiveID != 1 {
		t.Fatalf("attribution = %d/%d, want ask aggressive (2), bid passive (1)", tr.AggressiveID, tr.PassiveID)
	}
	if e.Active(1) || e.Active(2) {
		t.Fatal("fully filled orders should leave the book")
	}
}

func TestTradePriceIsPassiveSide(t *testing.T) {
	// Ask crosses at a lower limit than the resting bid; the trade
	// prints at the passive bid's price, not the ask's.
	e := New()
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1725000, 100)
	mustInsert(t, e, 2, "NVDA", orderbook.SideSell, 1700000, 100)

	tr := e.Trades()[0]
	if tr.Price != price(1725000) {
		t.Fatalf("trade price = %v, want 172.5 (passive bid)", tr.Price)
	}
}

func TestPartialFillKeepsPriority(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1725000, 210)
	before, _ := e.Resting(1)

	mustInsert(t, e, 2, "NVDA", orderbook.SideSell, 1725000, 200)

	after, ok := e.Resting(1)
	if !ok {
		t.Fatal("partially filled bid should still rest")
	}
	if after.Volume != 10 {
		t.Fatalf("leftover volume = %d, want 10", after.Volume)
	}
	if after.Arrival != before.Arrival {
		t.Fatal("partial fill must not change arrival time")
	}
	if after.Touched != 0 {
		t.Fatal("partial fill must not mark the order as touched")
	}
}

func TestTimePriorityAtEqualPrice(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "GOOG", orderbook.SideSell, 920000, 1)
	mustInsert(t, e, 2, "GOOG", orderbook.SideSell, 920000, 1)
	mustInsert(t, e, 3, "GOOG", orderbook.SideSell, 920000, 1)
	mustInsert(t, e, 4, "GOOG", orderbook.SideBuy, 920000, 3)

	trades := e.Trades()
	if len(trades) != 3 {
		t.Fatalf("got %d trades, want 3", len(trades))
	}
	for i, wantPassive := range []uint64{1, 2, 3} {
		if trades[i].AggressiveID != wantPassive || trades[i].PassiveID != 4 {
			t.Fatalf("trade %d = %d/%d, want %d aggressive, 4 passive",
				i, trades[i].AggressiveID, trades[i].PassiveID, wantPassive)
		}
	}
}

func TestAmendVolumeDecreaseKeepsPriority(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1000000, 100)
	before, _ := e.Resting(1)

	if err := e.Amend(1, price(1000000), 50); err != nil {
		t.Fatalf("amend: %v", err)
	}

	after, _ := e.Resting(1)
	if after.Volume != 50 {
		t.Fatalf("volume = %d, want 50", after.Volume)
	}
	if after.Arrival != before.Arrival {
		t.Fatal("same-price size decrease must keep arrival time")
	}
	if after.Touched != 0 {
		t.Fatal("same-price size decrease must leave the order untouched")
	}
}

func TestAmendPriceChangeLosesPriority(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1000000, 100)
	before, _ := e.Resting(1)

	if err := e.Amend(1, price(1010000), 100); err != nil {
		t.Fatalf("amend: %v", err)
	}

	after, _ := e.Resting(1)
	if after.Arrival <= before.Arrival {
		t.Fatal("price change must assign a fresh arrival time")
	}
	if after.Touched != after.Arrival {
		t.Fatalf("touched = %d, want %d (fresh arrival)", after.Touched, after.Arrival)
	}
}

func TestAmendVolumeIncreaseLosesPriority(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1000000, 100)
	before, _ := e.Resting(1)

	if err := e.Amend(1, price(1000000), 150); err != nil {
		t.Fatalf("amend: %v", err)
	}

	after, _ := e.Resting(1)
	if after.Arrival <= before.Arrival || after.Touched != after.Arrival {
		t.Fatalf("volume increase must lose priority: before %+v, after %+v", before, after)
	}
}

func TestAmendSameVolumeLosesPriority(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1000000, 100)
	before, _ := e.Resting(1)

	if err := e.Amend(1, price(1000000), 100); err != nil {
		t.Fatalf("amend: %v", err)
	}

	after, _ := e.Resting(1)
	if after.Arrival <= before.Arrival {
		t.Fatal("unchanged volume must still assign a fresh arrival time")
	}
}

func TestAmendQueuePosition(t *testing.T) {
	// Two bids at one price; amending the first one's volume up sends
	// it behind the second.
	e := New()
	mustInsert(t, e, 1, "GOOG", orderbook.SideBuy, 920000, 10)
	mustInsert(t, e, 2, "GOOG", orderbook.SideBuy, 920000, 10)

	if err := e.Amend(1, price(920000), 20); err != nil {
		t.Fatalf("amend: %v", err)
	}
	mustInsert(t, e, 3, "GOOG", orderbook.SideSell, 920000, 10)

	tr := e.Trades()[0]
	if tr.PassiveID != 2 {
		t.Fatalf("passive = %d, want 2 (order 1 lost its queue position)", tr.PassiveID)
	}
}

func TestTouchedBidBecomesAggressive(t *testing.T) {
	// A price-amended bid crossing a resting ask is the aggressive
	// party, so the trade prints at the ask's price.
	e := New()
	mustInsert(t, e, 1, "WEBB", orderbook.SideBuy, 900000, 5)
	mustInsert(t, e, 2, "WEBB", orderbook.SideSell, 910000, 5)

	if err := e.Amend(1, price(920000), 5); err != nil {
		t.Fatalf("amend: %v", err)
	}

	trades := e.Trades()
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}
	tr := trades[0]
	if tr.AggressiveID != 1 || tr.PassiveID != 2 {
		t.Fatalf("attribution = %d/%d, want touched bid aggressive", tr.AggressiveID, tr.PassiveID)
	}
	if tr.Price != price(910000) {
		t.Fatalf("trade price = %v, want 91 (passive ask)", tr.Price)
	}
}

func TestTouchedAskStaysAggressiveOnDefault(t *testing.T) {
	// A price-amended ask crossing a resting bid keeps the default
	// attribution, and the trade prints at the passive bid's price.
	e := New()
	mustInsert(t, e, 1, "WEBB", orderbook.SideBuy, 459500, 5)
	mustInsert(t, e, 2, "WEBB", orderbook.SideSell, 460000, 10)

	if err := e.Amend(2, price(450000), 5); err != nil {
		t.Fatalf("amend: %v", err)
	}

	tr := e.Trades()[0]
	if tr.AggressiveID != 2 || tr.PassiveID != 1 {
		t.Fatalf("attribution = %d/%d, want ask aggressive", tr.AggressiveID, tr.PassiveID)
	}
	if tr.Price != price(459500) {
		t.Fatalf("trade price = %v, want 45.95 (passive bid)", tr.Price)
	}
}

func TestPullFreesIDForReuse(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1500000, 20)
	mustInsert(t, e, 2, "AMD", orderbook.SideSell, 1500000, 20)

	if err := e.Pull(1); err != nil {
		t.Fatalf("pull: %v", err)
	}
	if e.Active(1) {
		t.Fatal("pulled id should no longer be active")
	}

	mustInsert(t, e, 1, "AMD", orderbook.SideBuy, 1500000, 20)
	trades := e.Trades()
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}
	if trades[0].Symbol != "AMD" || trades[0].AggressiveID != 2 || trades[0].PassiveID != 1 {
		t.Fatalf("trade = %+v", trades[0])
	}
}

func TestFullFillFreesIDForReuse(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1725000, 200)
	mustInsert(t, e, 2, "NVDA", orderbook.SideSell, 1725000, 200)
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1725000, 10)
	if !e.Active(1) {
		t.Fatal("reused id should rest")
	}
}

func TestNoMatchAcrossSymbols(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "AMD", orderbook.SideBuy, 1500000, 15)
	mustInsert(t, e, 2, "NVDA", orderbook.SideSell, 1500000, 15)
	if len(e.Trades()) != 0 {
		t.Fatal("orders in different symbols must not match")
	}
}

func TestDepthLexicographicOrder(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1500000, 15)
	mustInsert(t, e, 2, "AMD", orderbook.SideSell, 1500000, 15)
	mustInsert(t, e, 3, "GOOG", orderbook.SideBuy, 920000, 5)

	depth := e.Depth()
	want := []string{"AMD", "GOOG", "NVDA"}
	if len(depth) != len(want) {
		t.Fatalf("got %d symbols, want %d", len(depth), len(want))
	}
	for i, d := range depth {
		if d.Symbol != want[i] {
			t.Fatalf("depth[%d] = %s, want %s", i, d.Symbol, want[i])
		}
	}
}

func TestDepthKeepsEmptiedBooks(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1725000, 200)
	mustInsert(t, e, 2, "NVDA", orderbook.SideSell, 1725000, 200)

	depth := e.Depth()
	if len(depth) != 1 || depth[0].Symbol != "NVDA" {
		t.Fatalf("depth = %+v, want the emptied NVDA book", depth)
	}
	if len(depth[0].Bids) != 0 || len(depth[0].Asks) != 0 {
		t.Fatal("emptied book should have no levels")
	}
}

func TestLedgerInterleavesSymbols(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "NVDA", orderbook.SideBuy, 1000000, 10)
	mustInsert(t, e, 2, "AMD", orderbook.SideBuy, 1000000, 10)
	mustInsert(t, e, 3, "NVDA", orderbook.SideSell, 1000000, 10)
	mustInsert(t, e, 4, "AMD", orderbook.SideSell, 1000000, 10)

	trades := e.Trades()
	if len(trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(trades))
	}
	if trades[0].Symbol != "NVDA" || trades[1].Symbol != "AMD" {
		t.Fatalf("ledger order = %s,%s; want discovery order NVDA,AMD",
			trades[0].Symbol, trades[1].Symbol)
	}
}

func TestMatchCascadeRunsToExhaustion(t *testing.T) {
	e := New()
	mustInsert(t, e, 1, "GOOG", orderbook.SideSell, 920000, 1)
	mustInsert(t, e, 2, "GOOG", orderbook.SideSell, 930000, 1)
	mustInsert(t, e, 3, "GOOG", orderbook.SideBuy, 930000, 2)

	trades := e.Trades()
	if len(trades) != 2 {
		t.Fatalf("got %d trades, want 2 (one command, two matches)", len(trades))
	}
	if trades[0].AggressiveID != 1 || trades[1].AggressiveID != 2 {
		t.Fatalf("fills out of priority order: %+v", trades)
	}
	if trades[0].Price != price(930000) || trades[1].Price != price(930000) {
		t.Fatalf("cascade prices = %v,%v, want passive bid price both times",
			trades[0].Price, trades[1].Price)
	}
}

func TestActiveIDsSorted(t *testing.T) {
	e := New()
	mustInsert(t, e, 9, "NVDA", orderbook.SideBuy, 1000000, 1)
	mustInsert(t, e, 3, "NVDA", orderbook.SideBuy, 990000, 1)
	mustInsert(t, e, 7, "AMD", orderbook.SideSell, 2000000, 1)

	ids := e.ActiveIDs()
	want := []uint64{3, 7, 9}
	if len(ids) != len(want) {
		t.Fatalf("ActiveIDs = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ActiveIDs = %v, want %v", ids, want)
		}
	}
}
