package ring

import (
	"fmt"
)

// NTTTable store all the constants that are specifically tied to the NTT.
type NTTTable struct {
	NthRoot       uint64   // Nthroot used for the NTT
	PrimitiveRoot uint64   // Generator of Z_q^*
	Psi           uint64   // 2N-th primitive root (standard form)
	RootsForward  []uint64 // powers of the 2N-th primitive root in Montgomery form (in bit-reversed order)
	RootsBackward []uint64 // powers of the inverse of the 2N-th primitive root in Montgomery form (in bit-reversed order)
	NInv          uint64   // [N^-1] mod Modulus in Montgomery form
}

// NTT evaluates p2 = NTT(p1) with the textbook in-place Cooley-Tukey
// iteration: natural order input, bit-reversed order output.
func (r Ring) NTT(p1, p2 []uint64) {

	// Sanity check
	if len(p1) < r.N || len(p2) < r.N {
		panic(fmt.Sprintf("cannot NTT: ensure that len(p1)=%d and len(p2)=%d >= N=%d", len(p1), len(p2), r.N))
	}

	N := r.N
	Q := r.Modulus
	MRedConstant := r.MRedConstant
	roots := r.RootsForward

	copy(p2[:N], p1[:N])

	t := N
	for m := 1; m < N; m <<= 1 {

		t >>= 1

		for i := 0; i < m; i++ {

			j1 := (i * t) << 1

			F := roots[m+i]

			for jx, jy := j1, j1+t; jx < j1+t; jx, jy = jx+1, jy+1 {
				V := MRed(p2[jy], F, Q, MRedConstant)
				p2[jx], p2[jy] = ModAdd(p2[jx], V, Q), ModSub(p2[jx], V, Q)
			}
		}
	}
}

// INTT evaluates p2 = INTT(p1) with the Gentleman-Sande iteration:
// bit-reversed order input, natural order output.
func (r Ring) INTT(p1, p2 []uint64) {

	// Sanity check
	if len(p1) < r.N || len(p2) < r.N {
		panic(fmt.Sprintf("cannot INTT: ensure that len(p1)=%d and len(p2)=%d >= N=%d", len(p1), len(p2), r.N))
	}

	N := r.N
	Q := r.Modulus
	MRedConstant := r.MRedConstant
	roots := r.RootsBackward

	copy(p2[:N], p1[:N])

	t := 1
	for m := N; m > 1; m >>= 1 {

		h := m >> 1

		for i, j1 := 0, 0; i < h; i, j1 = i+1, j1+2*t {

			F := roots[h+i]

			for jx, jy := j1, j1+t; jx < j1+t; jx, jy = jx+1, jy+1 {
				U, V := p2[jx], p2[jy]
				p2[jx] = ModAdd(U, V, Q)
				p2[jy] = MRed(ModSub(U, V, Q), F, Q, MRedConstant)
			}
		}

		t <<= 1
	}

	for i := 0; i < N; i++ {
		p2[i] = MRed(p2[i], r.NInv, Q, MRedConstant)
	}
}

// Add evaluates p3 = p1 + p2 (mod modulus).
func (r Ring) Add(p1, p2, p3 []uint64) {
	for i := range p1 {
		p3[i] = ModAdd(p1[i], p2[i], r.Modulus)
	}
}

// Sub evaluates p3 = p1 - p2 (mod modulus).
func (r Ring) Sub(p1, p2, p3 []uint64) {
	for i := range p1 {
		p3[i] = ModSub(p1[i], p2[i], r.Modulus)
	}
}

// MForm evaluates p2 = p1 * 2^64 (mod modulus).
func (r Ring) MForm(p1, p2 []uint64) {
	for i := range p1 {
		p2[i] = MForm(p1[i], r.Modulus)
	}
}

// IMForm evaluates p2 = p1 * (2^64)^-1 (mod modulus).
func (r Ring) IMForm(p1, p2 []uint64) {
	for i := range p1 {
		p2[i] = IMForm(p1[i], r.Modulus, r.MRedConstant)
	}
}

// MulCoeffsMontgomery evaluates p3 = p1*p2 (mod modulus), with p2 in Montgomery form.
func (r Ring) MulCoeffsMontgomery(p1, p2, p3 []uint64) {
	for i := range p1 {
		p3[i] = MRed(p1[i], p2[i], r.Modulus, r.MRedConstant)
	}
}

// Equal returns true if p1 and p2 agree on their first N coefficients.
func (r Ring) Equal(p1, p2 []uint64) bool {
	if len(p1) < r.N || len(p2) < r.N {
		return false
	}
	for i := 0; i < r.N; i++ {
		if p1[i] != p2[i] {
			return false
		}
	}
	return true
}
