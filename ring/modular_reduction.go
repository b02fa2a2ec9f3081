package ring

import (
	"math/bits"
)

// GetMRedConstant computes the constant mredconstant = (q^-1) mod 2^64 required for MRed.
func GetMRedConstant(q uint64) (mredconstant uint64) {
	mredconstant = 1
	for i := 0; i < 63; i++ {
		mredconstant *= q
		q *= q
	}
	return
}

// MForm switches a to the Montgomery domain by computing
// a*2^64 mod q.
func MForm(a, q uint64) (r uint64) {
	return bits.Rem64(a, 0, q)
}

// IMForm switches a from the Montgomery domain back to the
// standard domain by computing a*(1/2^64) mod q.
func IMForm(a, q, mredconstant uint64) (r uint64) {
	return MRed(a, 1, q, mredconstant)
}

// MRed computes x * y * (1/2^64) mod q.
// Inputs must satisfy x*y < q*2^64 (e.g. x, y < q).
func MRed(x, y, q, mredconstant uint64) (r uint64) {
	r = MRedLazy(x, y, q, mredconstant)
	if r >= q {
		r -= q
	}
	return
}

// MRedLazy computes x * y * (1/2^64) mod q with output in the range [0, 2q-1].
func MRedLazy(x, y, q, mredconstant uint64) (r uint64) {
	mhi, mlo := bits.Mul64(x, y)
	hhi, _ := bits.Mul64(mlo*mredconstant, q)
	return mhi - hhi + q
}

// BRed computes x*y mod q.
func BRed(x, y, q uint64) (r uint64) {
	hi, lo := bits.Mul64(x, y)
	return bits.Rem64(hi, lo, q)
}

// CRed reduces a in [0, 2q-1] to [0, q-1].
func CRed(a, q uint64) uint64 {
	if a >= q {
		return a - q
	}
	return a
}

// ModAdd computes a + b mod q for a, b in [0, q-1].
func ModAdd(a, b, q uint64) uint64 {
	return CRed(a+b, q)
}

// ModSub computes a - b mod q for a, b in [0, q-1].
func ModSub(a, b, q uint64) uint64 {
	return CRed(a+q-b, q)
}
