package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Engine computes the forward negacyclic NTT of a [CoefficientStore] in
// place, by advancing a model of the pipelined 2x2 butterfly datapath one
// tick at a time.
//
// The result equals the in-place Cooley-Tukey transform: natural order
// input, bit-reversed order output, stored in the same layout as the input.
//
// An Engine is not safe for concurrent use; see [Engine.ShallowCopy].
type Engine struct {
	params Parameters

	table    TwiddleTable
	twiddles *TwiddleResolver
	merged   *Fabric
	bypass   *Fabric
	scratch  *BankedStore

	probe  Probe
	logger zerolog.Logger
}

// Option configures an [Engine].
type Option func(*Engine)

// WithProbe attaches a [Probe] to the engine.
func WithProbe(p Probe) Option {
	return func(e *Engine) {
		e.probe = p
	}
}

// WithLogger sets the logger of the engine. Passes are logged at debug level.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = log
	}
}

// NewEngine instantiates a new [Engine] for the given parameters.
func NewEngine(params Parameters, opts ...Option) *Engine {

	r := params.Ring()
	butterfly := NewButterfly(r)

	e := &Engine{
		params:   params,
		table:    NewTwiddleTable(r.RootsForward),
		twiddles: NewTwiddleResolver(params.Rows()),
		merged:   NewFabric(butterfly, ModeMerged, params.ReadLatency()),
		bypass:   NewFabric(butterfly, ModeBypass, params.ReadLatency()),
		scratch:  NewBankedStore(params.Rows()),
		probe:    nopProbe{},
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ShallowCopy creates a shallow copy of the receiver in which all the
// read-only data-structures are shared with the receiver and the temporary
// buffers are reallocated. The receiver and the returned [Engine] can be
// used concurrently. The probe and the logger are shared.
func (e *Engine) ShallowCopy() *Engine {
	butterfly := NewButterfly(e.params.Ring())
	return &Engine{
		params:   e.params,
		table:    e.table,
		twiddles: NewTwiddleResolver(e.params.Rows()),
		merged:   NewFabric(butterfly, ModeMerged, e.params.ReadLatency()),
		bypass:   NewFabric(butterfly, ModeBypass, e.params.ReadLatency()),
		scratch:  NewBankedStore(e.params.Rows()),
		probe:    e.probe,
		logger:   e.logger,
	}
}

// Parameters returns the parameters of the engine.
func (e *Engine) Parameters() Parameters {
	return e.params
}

// Forward computes the forward NTT of the store in place.
// The store must hold the coefficients in the layout of the parameters.
func (e *Engine) Forward(store CoefficientStore) {

	// Sanity check
	if store.Rows() != e.params.Rows() {
		panic(fmt.Errorf("cannot Forward: store.Rows()=%d != %d", store.Rows(), e.params.Rows()))
	}

	for _, p := range e.params.Phases() {
		e.pass(p, store)
	}
}

// ForwardPoly evaluates p2 = NTT(p1) through the pipeline. p1 and p2 can
// be the same slice.
func (e *Engine) ForwardPoly(p1, p2 []uint64) error {

	N := e.params.N()
	if len(p1) != N || len(p2) != N {
		return fmt.Errorf("invalid polynomial: len(p1)=%d and len(p2)=%d must be equal to N=%d", len(p1), len(p2), N)
	}

	e.scratch.Load(p1, e.params.Layout())
	e.Forward(e.scratch)
	e.scratch.Unload(p2, e.params.Layout())

	return nil
}

// schedulerState is the state of the stage scheduler during one pass.
type schedulerState struct {
	tick        int
	k, j        int
	writeEnable bool
	reads       int
	writes      int
}

// advance steps the (k, j) recurrence: k walks the rows with stride 2^s and
// j moves to the next offset when k wraps around.
func (st *schedulerState) advance(s, rows int) {
	if st.k+(1<<s) < rows {
		st.k += 1 << s
	} else {
		st.k = 0
		st.j++
	}
}

func (e *Engine) fabric(p Phase) *Fabric {
	switch p.Mode() {
	case ModeBypass:
		return e.bypass
	default:
		return e.merged
	}
}

// pass runs the R issue ticks of phase p followed by the drain.
func (e *Engine) pass(p Phase, store CoefficientStore) PassStats {

	now := time.Now()

	f := e.fabric(p)
	f.Reset(p.View())
	e.twiddles.Reset(p)

	R := e.params.Rows()
	D := f.WriteDepth()

	var st schedulerState
	for st.tick = 0; st.tick < R+D; st.tick++ {
		e.step(p, f, &st, store)
	}

	if debugAssertions && f.Pending() != 0 {
		panic(fmt.Errorf("%s: %d entries left in the fabric after the drain", p, f.Pending()))
	}

	stats := PassStats{
		Ticks:    st.tick,
		Reads:    st.reads,
		Writes:   st.writes,
		Depth:    D,
		Reseeds:  e.twiddles.Reseeds(),
		Advances: e.twiddles.Advances(),
		Elapsed:  time.Since(now),
	}

	e.probe.PassDone(p, stats)

	e.logger.Debug().
		Str("phase", p.String()).
		Int("stage", p.Stage()).
		Int("distance", p.Distance()).
		Int("ticks", stats.Ticks).
		Int("depth", D).
		Int("reseeds", stats.Reseeds).
		Dur("elapsed", stats.Elapsed).
		Msg("pass done")

	return stats
}

// step advances the pipeline by one tick: issue of the next row while rows
// remain, then the fabric, then the write back once the first issued row
// has crossed the whole fabric.
func (e *Engine) step(p Phase, f *Fabric, st *schedulerState, store CoefficientStore) {

	R := e.params.Rows()

	var row, w [Banks]uint64
	var addr int

	issue := st.tick < R

	if issue {
		logical := st.k + st.j
		addr = e.params.Layout().Resolve(logical, e.params.LogRows())

		if debugAssertions && (logical < 0 || logical >= R) {
			panic(fmt.Errorf("%s: tick %d issues logical row %d out of [0, %d)", p, st.tick, logical, R))
		}

		row = store.ReadRow(addr)
		w = e.table.Twiddles(e.twiddles.Resolve(st.k), f.Width())
		st.reads++

		e.probe.Read(p, st.tick, logical, addr)

		st.advance(p.Distance(), R)
	}

	out, waddr, ok := f.Tick(row, w, addr, issue)

	st.writeEnable = st.tick >= f.WriteDepth()

	if debugAssertions && ok != st.writeEnable {
		panic(fmt.Errorf("%s: tick %d write enable=%t but replayed address valid=%t", p, st.tick, st.writeEnable, ok))
	}

	if st.writeEnable {
		store.WriteRow(waddr, out)
		st.writes++
		e.probe.Write(p, st.tick, waddr)
	}
}
