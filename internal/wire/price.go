package wire

import (
	"fmt"
	"strings"

	"github.com/okeefe/matching-engine/go-match/internal/orderbook"
)

// maxFractionDigits is the price precision contract: at most 4 digits
// after the decimal point.
const maxFractionDigits = 4

// ErrInvalidPrice is returned when a price string carries more
// fractional digits than the engine's fixed-point precision allows.
var ErrInvalidPrice = fmt.Errorf("invalid price precision")

// ParsePrice converts a decimal price string into a fixed-point
// orderbook.Price. The string never round-trips through float64, so
// "172.5" parses to exactly 1725000 ticks.
func ParsePrice(s string) (orderbook.Price, error) {
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("price %q: %w", s, ErrMalformedCommand)
	}
	if hasFrac && len(frac) > maxFractionDigits {
		return 0, fmt.Errorf("price %q: %w", s, ErrInvalidPrice)
	}

	var ticks int64
	for _, c := range whole {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("price %q: %w", s, ErrMalformedCommand)
		}
		ticks = ticks*10 + int64(c-'0')
	}
	scale := int64(orderbook.PriceScale)
	ticks *= scale
	for _, c := range frac {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("price %q: %w", s, ErrMalformedCommand)
		}
		scale /= 10
		ticks += int64(c-'0') * scale
	}
	return orderbook.PriceFromTicks(ticks), nil
}
