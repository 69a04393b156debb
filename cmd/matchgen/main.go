// Command matchgen emits a random but always-valid command sequence
// for the matching engine, for soak runs and benchmarking.
//
// Usage:
//
//	matchgen -n 10000                      # 10k commands to stdout
//	matchgen -n 10000 -seed 42             # reproducible sequence
//	matchgen -symbols NVDA,AMD -max-volume 100
//	matchgen -n 50000 -out orders.csv
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/okeefe/matching-engine/go-match/internal/orderbook"
	"github.com/okeefe/matching-engine/go-match/internal/sim"
)

func main() {
	n := flag.Int("n", 1000, "Number of commands to generate")
	seed := flag.Int64("seed", 0, "PRNG seed (0 = random)")
	symbols := flag.String("symbols", "", "Comma-separated symbols (empty = built-in list)")
	minPrice := flag.Int("min-price", 90, "Minimum price in whole units")
	maxPrice := flag.Int("max-price", 110, "Maximum price in whole units")
	maxVolume := flag.Int64("max-volume", 500, "Maximum order volume")
	out := flag.String("out", "-", "Output file path, - for stdout")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	cfg := sim.Config{
		Seed:          *seed,
		MinPriceTicks: int64(*minPrice) * orderbook.PriceScale,
		MaxPriceTicks: int64(*maxPrice) * orderbook.PriceScale,
		MaxVolume:     *maxVolume,
	}
	if *symbols != "" {
		cfg.Symbols = strings.Split(*symbols, ",")
	}

	gen := sim.NewGenerator(cfg)
	lines := gen.Generate(*n)

	w := os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("create %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		fmt.Fprintln(bw, line)
	}
	if err := bw.Flush(); err != nil {
		log.Fatalf("write: %v", err)
	}

	log.Printf("generated %d commands", len(lines))
}
