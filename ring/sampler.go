package ring

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// UniformSampler samples polynomials with coefficients uniformly distributed
// in [0, Modulus-1] by rejection sampling the output of SHAKE256.
// Sampling is deterministic for a given seed.
type UniformSampler struct {
	Modulus uint64
	Mask    uint64
	xof     sha3.ShakeHash
	buf     [8 * 64]byte
	ptr     int
}

// NewUniformSampler creates a new [UniformSampler] for the given [Ring] keyed by seed.
func NewUniformSampler(seed []byte, r *Ring) (u *UniformSampler) {
	u = &UniformSampler{
		Modulus: r.Modulus,
		Mask:    r.Mask,
		xof:     sha3.NewShake256(),
	}
	_, _ = u.xof.Write(seed)
	u.ptr = len(u.buf)
	return
}

// Read fills pol with uniform coefficients.
func (u *UniformSampler) Read(pol []uint64) {
	for i := range pol {
		pol[i] = u.next()
	}
}

// ReadNew allocates and returns a uniform polynomial of N coefficients.
func (u *UniformSampler) ReadNew(N int) (pol []uint64) {
	pol = make([]uint64, N)
	u.Read(pol)
	return
}

func (u *UniformSampler) next() uint64 {
	for {
		if u.ptr == len(u.buf) {
			_, _ = u.xof.Read(u.buf[:])
			u.ptr = 0
		}
		c := binary.LittleEndian.Uint64(u.buf[u.ptr:]) & u.Mask
		u.ptr += 8
		if c < u.Modulus {
			return c
		}
	}
}
