package pipeline

import (
	"fmt"
)

// Fabric is the latency-compensation fabric around the butterfly unit.
//
// A row issued at tick t travels, one stage per tick, through
//
//	read line (L) -> gather -> butterfly -> scatter -> store
//
// where the gather and scatter lane buffers each add one block of width w.
// The twiddles resolved at tick t travel through a line of depth L+w and the
// row address through a replay line of depth D = L+2w, so that the three
// streams meet again at the butterfly and at the write port respectively.
type Fabric struct {
	butterfly Butterfly
	mode      Mode
	width     int
	latency   int

	read    *DelayLine[[Banks]uint64]
	gather  *LaneBuffer
	scatter *LaneBuffer
	twiddle *DelayLine[[Banks]uint64]
	replay  *DelayLine[int]
}

// NewFabric allocates a [Fabric] for the given datapath and memory
// read latency.
func NewFabric(butterfly Butterfly, mode Mode, latency int) *Fabric {

	width := Banks
	if mode == ModeBypass {
		width = 2
	}

	return &Fabric{
		butterfly: butterfly,
		mode:      mode,
		width:     width,
		latency:   latency,
		read:      NewDelayLine[[Banks]uint64](latency),
		gather:    NewLaneBuffer(width),
		scatter:   NewLaneBuffer(width),
		twiddle:   NewDelayLine[[Banks]uint64](latency + width),
		replay:    NewDelayLine[int](latency + 2*width),
	}
}

// Mode returns the datapath of the butterfly.
func (f *Fabric) Mode() Mode {
	return f.mode
}

// Width returns the block width of the lane buffers.
func (f *Fabric) Width() int {
	return f.width
}

// WriteDepth returns the number of ticks between the issue of a row and
// its write back.
func (f *Fabric) WriteDepth() int {
	return f.replay.Depth()
}

// Pending returns the number of valid entries held by the fabric.
func (f *Fabric) Pending() int {
	return f.read.Pending() + f.gather.Pending() + f.scatter.Pending() + f.twiddle.Pending() + f.replay.Pending()
}

// Reset clears the fabric for a new pass whose butterfly side uses the
// given view. The lane buffer counters start late by the read latency so
// that the first row of a block enters the gather buffer at slot 0.
func (f *Fabric) Reset(view View) {
	offset := -f.latency
	f.read.Reset()
	f.twiddle.Reset()
	f.replay.Reset()
	f.gather.Reset(RowView, view, offset)
	f.scatter.Reset(view, RowView, offset)
}

// Tick advances the fabric by one tick. row, w and addr are the data, the
// twiddles and the physical address issued at this tick and are ignored
// unless ok. It returns the row to write back and its address, valid if
// wok.
func (f *Fabric) Tick(row, w [Banks]uint64, addr int, ok bool) (out [Banks]uint64, waddr int, wok bool) {

	data, dataOK := f.read.Shift(row, ok)
	group, groupOK := f.gather.Push(data, dataOK)
	tw, twOK := f.twiddle.Shift(w, ok)

	if debugAssertions && groupOK != twOK {
		panic(fmt.Errorf("butterfly input valid=%t but twiddles valid=%t", groupOK, twOK))
	}

	if groupOK {
		group = f.butterfly.Transform(f.mode, group, tw)
	}

	out, outOK := f.scatter.Push(group, groupOK)
	waddr, wok = f.replay.Shift(addr, ok)

	if debugAssertions && outOK != wok {
		panic(fmt.Errorf("write data valid=%t but address valid=%t", outOK, wok))
	}

	return
}
