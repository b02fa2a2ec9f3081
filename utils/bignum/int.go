// Package bignum implements arbitrary precision integer helpers.
package bignum

import (
	"fmt"
	"math/big"
)

// NewInt allocates a new *big.Int.
// Accepted types are: string, uint, uint64, int64, int or *big.Int.
func NewInt(x interface{}) (y *big.Int) {

	y = new(big.Int)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case string:
		y.SetString(x, 0)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case int64:
		y.SetInt64(x)
	case int:
		y.SetInt64(int64(x))
	case *big.Int:
		y.Set(x)
	default:
		panic(fmt.Sprintf("cannot Newint: accepted types are string, uint, uint64, int, int64, *big.Int, but is %T", x))
	}

	return
}

// MulMod returns x*y mod m as a uint64, computed with arbitrary precision.
func MulMod(x, y, m uint64) uint64 {
	z := NewInt(x)
	z.Mul(z, NewInt(y))
	return z.Mod(z, NewInt(m)).Uint64()
}
