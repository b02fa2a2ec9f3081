package pipeline

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/Pro7ech/ntt2x2/ring"
)

const (
	// DefaultModulus is the modulus used when none is given.
	DefaultModulus = ring.FalconModulus
	// DefaultReadLatency is the memory read latency, in ticks, used when
	// none is given.
	DefaultReadLatency = 2
)

// ParametersLiteral is a literal representation of the pipeline parameters.
// It has public fields and is used to express unchecked user-defined
// parameters literally into Go programs.
// The [NewParametersFromLiteral] function is used to generate the actual
// checked parameters from the literal representation.
//
// Optional fields (with their default values):
//   - Modulus: [DefaultModulus]
//   - Layout: [LayoutNatural]
//   - ReadLatency: [DefaultReadLatency]
type ParametersLiteral struct {
	LogN        int    `yaml:"logn" json:"logn"`
	Modulus     uint64 `yaml:"modulus,omitempty" json:"modulus,omitempty"`
	Layout      Layout `yaml:"layout" json:"layout"`
	ReadLatency *int   `yaml:"read_latency,omitempty" json:"read_latency,omitempty"`
}

// Parameters is the checked set of parameters of an [Engine].
type Parameters struct {
	ring        *ring.Ring
	layout      Layout
	readLatency int
	pattern     []int
}

// NewParametersFromLiteral instantiate a set of [Parameters] from a
// [ParametersLiteral]. It returns an error if the literal
// does not describe a supported configuration.
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	pattern, err := StagePattern(pl.LogN)
	if err != nil {
		return params, err
	}

	Modulus := pl.Modulus
	if Modulus == 0 {
		Modulus = DefaultModulus
	}

	if !pl.Layout.IsValid() {
		return params, fmt.Errorf("invalid layout: %v", pl.Layout)
	}

	latency := DefaultReadLatency
	if pl.ReadLatency != nil {
		if latency = *pl.ReadLatency; latency < 0 {
			return params, fmt.Errorf("invalid read latency: %d < 0", latency)
		}
	}

	r, err := ring.NewRing(1<<pl.LogN, Modulus)
	if err != nil {
		return params, fmt.Errorf("ring.NewRing: %w", err)
	}

	return Parameters{
		ring:        r,
		layout:      pl.Layout,
		readLatency: latency,
		pattern:     pattern,
	}, nil
}

// ParametersLiteral returns the [ParametersLiteral] of the target [Parameters].
func (p Parameters) ParametersLiteral() ParametersLiteral {
	latency := p.readLatency
	return ParametersLiteral{
		LogN:        p.LogN(),
		Modulus:     p.Modulus(),
		Layout:      p.layout,
		ReadLatency: &latency,
	}
}

// Ring returns the [ring.Ring] of the parameters.
func (p Parameters) Ring() *ring.Ring {
	return p.ring
}

// N returns the ring degree.
func (p Parameters) N() int {
	return p.ring.N
}

// LogN returns log2 of the ring degree.
func (p Parameters) LogN() int {
	return p.ring.LogN()
}

// Modulus returns the modulus q.
func (p Parameters) Modulus() uint64 {
	return p.ring.Modulus
}

// Rows returns the number of rows N/4 of the store.
func (p Parameters) Rows() int {
	return p.ring.N / Banks
}

// LogRows returns log2(N/4).
func (p Parameters) LogRows() int {
	return p.LogN() - 2
}

// Layout returns the layout of the store.
func (p Parameters) Layout() Layout {
	return p.layout
}

// ReadLatency returns the memory read latency in ticks.
func (p Parameters) ReadLatency() int {
	return p.readLatency
}

// Pattern returns a copy of the merged pass distances.
func (p Parameters) Pattern() []int {
	return append([]int(nil), p.pattern...)
}

// Phases returns the passes of a forward transform, in order.
func (p Parameters) Phases() []Phase {
	return phases(p.LogN(), p.pattern)
}

// WriteDepth returns the number of ticks between the read and the write of
// a row during phase ph.
func (p Parameters) WriteDepth(ph Phase) int {
	return p.readLatency + 2*ph.Width()
}

// Equal returns true if the receiver and other describe the same parameters.
func (p Parameters) Equal(other *Parameters) (res bool) {
	res = p.LogN() == other.LogN()
	res = res && p.Modulus() == other.Modulus()
	res = res && p.layout == other.layout
	res = res && p.readLatency == other.readLatency
	res = res && cmp.Equal(p.pattern, other.pattern)
	return
}
