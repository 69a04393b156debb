package wire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okeefe/matching-engine/go-match/internal/orderbook"
)

// Op identifies a command keyword.
type Op byte

const (
	OpInsert Op = 'I'
	OpAmend  Op = 'A'
	OpPull   Op = 'P'
)

// ErrMalformedCommand is returned for an unrecognized keyword, a wrong
// field count, or an unparseable field.
var ErrMalformedCommand = fmt.Errorf("malformed command")

// Command is one parsed and validated engine command. Symbol and Side
// are only set for inserts; Price and Volume only for inserts and
// amends.
type Command struct {
	Op     Op
	ID     uint64
	Symbol string
	Side   orderbook.Side
	Price  orderbook.Price
	Volume int64
}

// ParseCommand parses one comma-separated command line:
//
//	INSERT,<id>,<symbol>,<BUY|SELL>,<price>,<volume>
//	AMEND,<id>,<price>,<volume>
//	PULL,<id>
func ParseCommand(line string) (Command, error) {
	fields := strings.Split(line, ",")
	switch fields[0] {
	case "INSERT":
		if len(fields) != 6 {
			return Command{}, fmt.Errorf("INSERT wants 6 fields, got %d: %w", len(fields), ErrMalformedCommand)
		}
		id, err := parseID(fields[1])
		if err != nil {
			return Command{}, err
		}
		symbol := fields[2]
		if symbol == "" {
			return Command{}, fmt.Errorf("empty symbol: %w", ErrMalformedCommand)
		}
		side, err := parseSide(fields[3])
		if err != nil {
			return Command{}, err
		}
		price, err := ParsePrice(fields[4])
		if err != nil {
			return Command{}, err
		}
		volume, err := parseVolume(fields[5])
		if err != nil {
			return Command{}, err
		}
		return Command{Op: OpInsert, ID: id, Symbol: symbol, Side: side, Price: price, Volume: volume}, nil

	case "AMEND":
		if len(fields) != 4 {
			return Command{}, fmt.Errorf("AMEND wants 4 fields, got %d: %w", len(fields), ErrMalformedCommand)
		}
		id, err := parseID(fields[1])
		if err != nil {
			return Command{}, err
		}
		price, err := ParsePrice(fields[2])
		if err != nil {
			return Command{}, err
		}
		volume, err := parseVolume(fields[3])
		if err != nil {
			return Command{}, err
		}
		return Command{Op: OpAmend, ID: id, Price: price, Volume: volume}, nil

	case "PULL":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("PULL wants 2 fields, got %d: %w", len(fields), ErrMalformedCommand)
		}
		id, err := parseID(fields[1])
		if err != nil {
			return Command{}, err
		}
		return Command{Op: OpPull, ID: id}, nil
	}
	return Command{}, fmt.Errorf("keyword %q: %w", fields[0], ErrMalformedCommand)
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("order id %q: %w", s, ErrMalformedCommand)
	}
	return id, nil
}

func parseSide(s string) (orderbook.Side, error) {
	switch s {
	case "BUY":
		return orderbook.SideBuy, nil
	case "SELL":
		return orderbook.SideSell, nil
	}
	return 0, fmt.Errorf("side %q: %w", s, ErrMalformedCommand)
}

func parseVolume(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("volume %q: %w", s, ErrMalformedCommand)
	}
	return v, nil
}
