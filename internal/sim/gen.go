package sim

import (
	"fmt"

	"github.com/okeefe/matching-engine/go-match/internal/engine"
	"github.com/okeefe/matching-engine/go-match/internal/orderbook"
)

// Action weights for command generation.
var actionWeights = []float64{
	0.55, // insert
	0.25, // amend
	0.20, // pull
}

const (
	actionInsert = 0
	actionAmend  = 1
	actionPull   = 2
)

// Default symbol universe for generated sequences.
var defaultSymbols = []string{"AMD", "GOOG", "MSFT", "NVDA", "TSLA", "WEBB"}

// Config controls command generation.
type Config struct {
	Seed          int64
	Symbols       []string
	MinPriceTicks int64 // inclusive, in 1/10000ths
	MaxPriceTicks int64 // inclusive
	MaxVolume     int64
}

// Generator produces random INSERT/AMEND/PULL command lines that always
// form a valid sequence. It shadows the commands through its own engine
// so it knows which ids are still resting (an id freed by a full fill
// or a pull may be reused; an active id never is).
type Generator struct {
	rng    *RNG
	eng    *engine.Engine
	cfg    Config
	nextID uint64
	issued []uint64
}

// NewGenerator creates a generator. Zero config fields fall back to
// defaults: the built-in symbol list, prices in [90, 110], volume up
// to 500.
func NewGenerator(cfg Config) *Generator {
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = defaultSymbols
	}
	if cfg.MinPriceTicks <= 0 {
		cfg.MinPriceTicks = 90 * orderbook.PriceScale
	}
	if cfg.MaxPriceTicks <= cfg.MinPriceTicks {
		cfg.MaxPriceTicks = 110 * orderbook.PriceScale
	}
	if cfg.MaxVolume <= 0 {
		cfg.MaxVolume = 500
	}
	return &Generator{
		rng: NewRNG(cfg.Seed),
		eng: engine.New(),
		cfg: cfg,
	}
}

// Generate returns n command lines.
func (g *Generator) Generate(n int) []string {
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, g.Next())
	}
	return lines
}

// Next returns one command line.
func (g *Generator) Next() string {
	action := g.rng.WeightedPick(actionWeights)
	if g.eng.ActiveCount() == 0 {
		action = actionInsert
	}
	switch action {
	case actionAmend:
		return g.amend()
	case actionPull:
		return g.pull()
	default:
		return g.insert()
	}
}

func (g *Generator) insert() string {
	id := g.pickID()
	symbol := g.cfg.Symbols[g.rng.Intn(len(g.cfg.Symbols))]
	side := orderbook.SideBuy
	if g.rng.Float64() < 0.5 {
		side = orderbook.SideSell
	}
	price := g.price()
	volume := int64(g.rng.IntRange(1, int(g.cfg.MaxVolume)))

	if err := g.eng.Insert(id, symbol, side, price, volume); err != nil {
		panic(fmt.Sprintf("sim: generated invalid insert: %v", err))
	}
	return fmt.Sprintf("INSERT,%d,%s,%s,%s,%d", id, symbol, side, price, volume)
}

func (g *Generator) amend() string {
	id := g.activeID()
	cur, _ := g.eng.Resting(id)

	price := cur.Price
	volume := cur.Volume
	if cur.Volume > 1 && g.rng.Float64() < 0.4 {
		// Same-price size decrease, the only amend that keeps priority.
		volume = int64(g.rng.IntRange(1, int(cur.Volume-1)))
	} else {
		price = g.price()
		volume = int64(g.rng.IntRange(1, int(g.cfg.MaxVolume)))
	}

	if err := g.eng.Amend(id, price, volume); err != nil {
		panic(fmt.Sprintf("sim: generated invalid amend: %v", err))
	}
	return fmt.Sprintf("AMEND,%d,%s,%d", id, price, volume)
}

func (g *Generator) pull() string {
	id := g.activeID()
	if err := g.eng.Pull(id); err != nil {
		panic(fmt.Sprintf("sim: generated invalid pull: %v", err))
	}
	return fmt.Sprintf("PULL,%d", id)
}

// pickID returns a fresh id, occasionally recycling one that is no
// longer resting to exercise id reuse.
func (g *Generator) pickID() uint64 {
	if len(g.issued) > 0 && g.rng.Float64() < 0.1 {
		for attempt := 0; attempt < 8; attempt++ {
			id := g.issued[g.rng.Intn(len(g.issued))]
			if !g.eng.Active(id) {
				return id
			}
		}
	}
	g.nextID++
	g.issued = append(g.issued, g.nextID)
	return g.nextID
}

func (g *Generator) activeID() uint64 {
	ids := g.eng.ActiveIDs()
	return ids[g.rng.Intn(len(ids))]
}

func (g *Generator) price() orderbook.Price {
	ticks := g.cfg.MinPriceTicks + int64(g.rng.Intn(int(g.cfg.MaxPriceTicks-g.cfg.MinPriceTicks+1)))
	// Mostly whole cents, sometimes full 4-decimal precision.
	if g.rng.Float64() < 0.8 {
		ticks -= ticks % 100
	}
	return orderbook.PriceFromTicks(ticks)
}
