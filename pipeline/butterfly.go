package pipeline

import (
	"github.com/Pro7ech/ntt2x2/ring"
)

// Mode selects the datapath of the [Butterfly] unit.
type Mode int

const (
	// ModeMerged evaluates two consecutive radix-2 stages on four elements.
	ModeMerged Mode = iota
	// ModeBypass evaluates a single radix-2 stage on two pairs of elements.
	ModeBypass
)

func (m Mode) String() string {
	if m == ModeBypass {
		return "bypass"
	}
	return "merged"
}

// Butterfly is the combinational 2x2 butterfly unit.
// Twiddle factors are expected in Montgomery form.
type Butterfly struct {
	Modulus      uint64
	MRedConstant uint64
}

// NewButterfly returns the [Butterfly] unit for the modulus of r.
func NewButterfly(r *ring.Ring) Butterfly {
	return Butterfly{Modulus: r.Modulus, MRedConstant: r.MRedConstant}
}

// Transform dispatches to [Butterfly.Merged] or [Butterfly.Bypass].
func (b Butterfly) Transform(mode Mode, in, w [Banks]uint64) [Banks]uint64 {
	if mode == ModeBypass {
		return b.Bypass(in, w)
	}
	return b.Merged(in, w)
}

// Merged computes, for in = (x, x+h, x+2h, x+3h) of one radix-4 group and
// w = (w1, w1, w2, w3), the stage l butterflies (0,2) and (1,3) with w1,
// followed by the stage l+1 butterflies (0,1) with w2 and (2,3) with w3.
func (b Butterfly) Merged(in, w [Banks]uint64) (out [Banks]uint64) {
	u0, u2 := b.ct(in[0], in[2], w[0])
	u1, u3 := b.ct(in[1], in[3], w[1])
	out[0], out[1] = b.ct(u0, u1, w[2])
	out[2], out[3] = b.ct(u2, u3, w[3])
	return
}

// Bypass computes the butterflies (0,1) with w[0] and (2,3) with w[1].
// w[2] and w[3] are ignored.
func (b Butterfly) Bypass(in, w [Banks]uint64) (out [Banks]uint64) {
	out[0], out[1] = b.ct(in[0], in[1], w[0])
	out[2], out[3] = b.ct(in[2], in[3], w[1])
	return
}

// ct is the Cooley-Tukey butterfly (x, y) -> (x + w*y, x - w*y).
func (b Butterfly) ct(x, y, w uint64) (uint64, uint64) {
	v := ring.MRed(y, w, b.Modulus, b.MRedConstant)
	return ring.ModAdd(x, v, b.Modulus), ring.ModSub(x, v, b.Modulus)
}
