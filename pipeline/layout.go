package pipeline

import (
	"fmt"

	"github.com/Pro7ech/ntt2x2/utils"
)

// Layout selects how logical rows of the coefficient store are placed
// on physical rows of the banks.
type Layout int

const (
	// LayoutNatural stores logical row r at physical row r.
	LayoutNatural Layout = iota
	// LayoutBitReversed stores logical row r at physical row brv(r).
	LayoutBitReversed
)

// Resolve maps a logical row in [0, 2^logRows) to its physical row.
// It is a bijection for every layout; indices outside the range are undefined.
func (l Layout) Resolve(row, logRows int) int {
	switch l {
	case LayoutBitReversed:
		return utils.BitReverseInt(row, logRows)
	default:
		return row
	}
}

// Inverse maps a physical row back to its logical row.
func (l Layout) Inverse(addr, logRows int) int {
	// Both layouts are involutions.
	return l.Resolve(addr, logRows)
}

func (l Layout) String() string {
	switch l {
	case LayoutNatural:
		return "natural"
	case LayoutBitReversed:
		return "bit-reversed"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// IsValid returns true if the receiver is a known layout.
func (l Layout) IsValid() bool {
	return l == LayoutNatural || l == LayoutBitReversed
}

// MarshalText implements encoding.TextMarshaler.
func (l Layout) MarshalText() ([]byte, error) {
	if !l.IsValid() {
		return nil, fmt.Errorf("invalid layout: %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Layout) UnmarshalText(text []byte) error {
	switch string(text) {
	case "natural", "":
		*l = LayoutNatural
	case "bit-reversed", "bitreversed":
		*l = LayoutBitReversed
	default:
		return fmt.Errorf("invalid layout %q: must be \"natural\" or \"bit-reversed\"", text)
	}
	return nil
}
