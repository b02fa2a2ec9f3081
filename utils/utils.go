// Package utils implements various helper functions.
package utils

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// BitReverse returns the bit-reversal of the bitLen least significant bits of x.
// Bits above bitLen are discarded.
func BitReverse[T constraints.Unsigned](x T, bitLen int) T {
	if bitLen == 0 {
		return 0
	}
	return T(bits.Reverse64(uint64(x)) >> (64 - bitLen))
}

// BitReverseInt is [BitReverse] for non-negative int values.
func BitReverseInt(x, bitLen int) int {
	return int(BitReverse(uint64(x), bitLen))
}

// IsPow2 returns true if x is a power of two.
func IsPow2[T constraints.Integer](x T) bool {
	return x > 0 && x&(x-1) == 0
}

// Log2 returns floor(log2(x)) for x > 0.
func Log2[T constraints.Unsigned](x T) int {
	return bits.Len64(uint64(x)) - 1
}

// Pointy creates a new T variable and returns its pointer.
func Pointy[T any](x T) *T {
	return &x
}
