// Package ring implements the arithmetic of Z_q[X]/(X^N+1) required around the
// pipelined NTT: modular reduction, NTT constants and a textbook reference
// transform pair.
package ring

import (
	"fmt"
	"math/bits"

	"github.com/Pro7ech/ntt2x2/utils"
	"github.com/Pro7ech/ntt2x2/utils/bignum"
)

const (
	// MinimumRingDegree is the smallest supported ring degree.
	MinimumRingDegree = 2

	// FalconModulus is the modulus q = 12289 = 3*2^12 + 1 used by Falcon.
	FalconModulus = 12289
)

// Ring is a struct storing precomputation
// for fast modular reduction and NTT for
// a given modulus.
type Ring struct {
	// Polynomial nb.Coefficients
	N int

	Modulus uint64

	// Unique factors of Modulus-1
	Factors []uint64

	// 2^bit_length(Modulus) - 1
	Mask uint64

	// Montgomery Reduction
	MRedConstant uint64

	*NTTTable // NTT related constants
}

// NewRing creates a new [Ring] of degree N and modulus Modulus
// and generates its NTT constants.
// An error is returned with a nil *Ring in the case of non NTT-enabling parameters.
func NewRing(N int, Modulus uint64) (r *Ring, err error) {

	// Checks if N is a power of 2
	if N < MinimumRingDegree || !utils.IsPow2(N) {
		return nil, fmt.Errorf("invalid ring degree: must be a power of 2 greater or equal to %d", MinimumRingDegree)
	}

	if bits.Len64(Modulus) > 62 {
		return nil, fmt.Errorf("invalid Modulus: Modulus > 2^62")
	}

	r = &Ring{
		N:        N,
		Modulus:  Modulus,
		Mask:     (1 << uint64(bits.Len64(Modulus-1))) - 1,
		NTTTable: &NTTTable{NthRoot: uint64(N) << 1},
	}

	if err = r.GenNTTTable(); err != nil {
		return nil, err
	}

	return
}

// LogN returns log2(N).
func (r Ring) LogN() int {
	return bits.Len64(uint64(r.N) - 1)
}

// NewPoly allocates a zero polynomial of N coefficients.
func (r Ring) NewPoly() []uint64 {
	return make([]uint64, r.N)
}

// GenNTTTable generates the NTT tables for the target Ring.
// The fields `PrimitiveRoot` and `Factors` can be set manually to
// bypass the search for the primitive root.
func (r *Ring) GenNTTTable() (err error) {

	if r.N == 0 || r.Modulus == 0 {
		return fmt.Errorf("invalid ring parameters (missing)")
	}

	Modulus := r.Modulus
	NthRoot := r.NthRoot

	if !IsPrime(Modulus) {
		return fmt.Errorf("invalid modulus: %d is not prime", Modulus)
	}

	if Modulus&(NthRoot-1) != 1 {
		return fmt.Errorf("invalid modulus: %d != 1 mod NthRoot=%d", Modulus, NthRoot)
	}

	if r.PrimitiveRoot != 0 && r.Factors != nil {
		if err = CheckPrimitiveRoot(r.PrimitiveRoot, Modulus, r.Factors); err != nil {
			return
		}
	} else {
		if r.PrimitiveRoot, r.Factors, err = PrimitiveRoot(Modulus, r.Factors); err != nil {
			return
		}
	}

	r.MRedConstant = GetMRedConstant(Modulus)

	logN := r.LogN()

	Psi := ModExp(r.PrimitiveRoot, (Modulus-1)/NthRoot, Modulus)

	// Checks that Psi^{N} = -1 mod Modulus
	if ModExp(Psi, NthRoot>>1, Modulus) != Modulus-1 {
		return fmt.Errorf("invalid 2Nth primitive root: psi^{N} != -1 mod Modulus, something went wrong")
	}

	PsiInv := ModExp(Psi, Modulus-2, Modulus)

	r.Psi = Psi
	r.NInv = MForm(ModExp(uint64(r.N), Modulus-2, Modulus), Modulus)

	r.RootsForward = make([]uint64, r.N)
	r.RootsBackward = make([]uint64, r.N)

	// RootsForward[brv(j)] = Psi^j and RootsBackward[brv(j)] = Psi^-j, both in Montgomery form.
	fwd, bwd := uint64(1), uint64(1)
	for j := 0; j < r.N; j++ {
		idx := utils.BitReverseInt(j, logN)
		r.RootsForward[idx] = MForm(fwd, Modulus)
		r.RootsBackward[idx] = MForm(bwd, Modulus)
		fwd = BRed(fwd, Psi, Modulus)
		bwd = BRed(bwd, PsiInv, Modulus)
	}

	return
}

// PrimitiveRoot computes the smallest primitive root of the given prime q
// The unique factors of q-1 can be given to speed up the search for the root.
func PrimitiveRoot(q uint64, factors []uint64) (uint64, []uint64, error) {

	if factors != nil {
		if err := CheckFactors(q-1, factors); err != nil {
			return 0, factors, err
		}
	} else {
		factors = Factorize(q - 1)
	}

	for g := uint64(2); g < q; g++ {
		if CheckPrimitiveRoot(g, q, factors) == nil {
			return g, factors, nil
		}
	}

	return 0, factors, fmt.Errorf("no primitive root found for q=%d", q)
}

// Factorize returns the unique prime factors of m in increasing order.
// It uses trial division and is intended for NTT-friendly moduli, for which
// m = q-1 is smooth.
func Factorize(m uint64) (factors []uint64) {
	for p := uint64(2); p*p <= m; p++ {
		if m%p == 0 {
			factors = append(factors, p)
			for m%p == 0 {
				m /= p
			}
		}
	}
	if m > 1 {
		factors = append(factors, m)
	}
	return
}

// CheckFactors checks that the given list of factors contains
// all the unique primes of m.
func CheckFactors(m uint64, factors []uint64) (err error) {

	for _, factor := range factors {

		if !IsPrime(factor) {
			return fmt.Errorf("composite factor")
		}

		for m%factor == 0 {
			m /= factor
		}
	}

	if m != 1 {
		return fmt.Errorf("incomplete factor list")
	}

	return
}

// CheckPrimitiveRoot checks that g is a valid primitive root mod q,
// given the factors of q-1.
func CheckPrimitiveRoot(g, q uint64, factors []uint64) (err error) {

	if err = CheckFactors(q-1, factors); err != nil {
		return
	}

	for _, factor := range factors {
		if ModExp(g, (q-1)/factor, q) == 1 {
			return fmt.Errorf("invalid primitive root")
		}
	}

	return
}

// IsPrime applies the Baillie-PSW primality test on x.
func IsPrime(x uint64) bool {
	return bignum.NewInt(x).ProbablyPrime(0)
}
