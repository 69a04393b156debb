package orderbook

import "strconv"

// PriceScale is the number of implied decimal places in a Price.
// Matches the 4-decimal fixed-point convention used by ITCH-style feeds.
const PriceScale = 10000

// Price is a limit price in 1/10000ths. Fixed-point keeps comparison and
// arithmetic exact; float64 cannot represent most 4-decimal prices.
type Price int64

// PriceFromTicks builds a Price from a whole number of 1/10000 ticks.
func PriceFromTicks(ticks int64) Price {
	return Price(ticks)
}

// Ticks returns the price as a whole number of 1/10000 ticks.
func (p Price) Ticks() int64 {
	return int64(p)
}

// String renders the price in decimal with no trailing fractional zeros.
// e.g. 1725000 -> "172.5", 920000 -> "92".
func (p Price) String() string {
	whole := int64(p) / PriceScale
	frac := int64(p) % PriceScale
	if frac == 0 {
		return strconv.FormatInt(whole, 10)
	}
	buf := strconv.AppendInt(nil, whole, 10)
	buf = append(buf, '.')
	digits := [4]byte{
		byte('0' + frac/1000),
		byte('0' + frac/100%10),
		byte('0' + frac/10%10),
		byte('0' + frac%10),
	}
	last := 3
	for digits[last] == '0' {
		last--
	}
	buf = append(buf, digits[:last+1]...)
	return string(buf)
}
