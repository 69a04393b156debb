package wire

import (
	"strconv"
	"strings"

	"github.com/okeefe/matching-engine/go-match/internal/engine"
	"github.com/okeefe/matching-engine/go-match/internal/orderbook"
)

// FormatTrade renders one ledger line:
// <symbol>,<price>,<volume>,<aggressiveId>,<passiveId>.
func FormatTrade(t engine.Trade) string {
	var sb strings.Builder
	sb.WriteString(t.Symbol)
	sb.WriteByte(',')
	sb.WriteString(t.Price.String())
	sb.WriteByte(',')
	sb.WriteString(strconv.FormatInt(t.Volume, 10))
	sb.WriteByte(',')
	sb.WriteString(strconv.FormatUint(t.AggressiveID, 10))
	sb.WriteByte(',')
	sb.WriteString(strconv.FormatUint(t.PassiveID, 10))
	return sb.String()
}

// FormatDepth renders one symbol's snapshot section: the ===SYMBOL===
// separator followed by level rows. Row i pairs the i-th buy level with
// the i-th sell level positionally; a side that has run out of levels
// contributes empty fields.
func FormatDepth(d engine.SymbolDepth) []string {
	rows := len(d.Bids)
	if len(d.Asks) > rows {
		rows = len(d.Asks)
	}

	lines := make([]string, 0, rows+1)
	lines = append(lines, "==="+d.Symbol+"===")
	for i := 0; i < rows; i++ {
		var sb strings.Builder
		if i < len(d.Bids) {
			writeLevel(&sb, d.Bids[i])
		} else {
			sb.WriteByte(',')
		}
		sb.WriteByte(',')
		if i < len(d.Asks) {
			writeLevel(&sb, d.Asks[i])
		} else {
			sb.WriteByte(',')
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func writeLevel(sb *strings.Builder, lvl orderbook.Level) {
	sb.WriteString(lvl.Price.String())
	sb.WriteByte(',')
	sb.WriteString(strconv.FormatInt(lvl.Volume, 10))
}

// Report assembles the full output: every ledger line in discovery
// order, then each symbol's snapshot section in lexicographic order.
func Report(e *engine.Engine) []string {
	var lines []string
	for _, t := range e.Trades() {
		lines = append(lines, FormatTrade(t))
	}
	for _, d := range e.Depth() {
		lines = append(lines, FormatDepth(d)...)
	}
	return lines
}

// Run parses and applies a command sequence against a fresh engine and
// returns the formatted output. Any error aborts the run: no partial
// ledger or snapshot is returned. Empty input yields empty output.
func Run(lines []string) ([]string, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	e := engine.New()
	for _, line := range lines {
		cmd, err := ParseCommand(line)
		if err != nil {
			return nil, err
		}
		if err := Apply(e, cmd); err != nil {
			return nil, err
		}
	}
	return Report(e), nil
}

// Apply dispatches one parsed command to the engine.
func Apply(e *engine.Engine, c Command) error {
	switch c.Op {
	case OpInsert:
		return e.Insert(c.ID, c.Symbol, c.Side, c.Price, c.Volume)
	case OpAmend:
		return e.Amend(c.ID, c.Price, c.Volume)
	default:
		return e.Pull(c.ID)
	}
}
