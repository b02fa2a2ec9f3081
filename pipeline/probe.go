package pipeline

import (
	"time"
)

// PassStats summarizes one pass of the pipeline.
type PassStats struct {
	Ticks    int
	Reads    int
	Writes   int
	Depth    int
	Reseeds  int
	Advances int
	Elapsed  time.Duration
}

// Probe observes the memory traffic of an [Engine].
// Calls are made synchronously from the goroutine running the transform.
type Probe interface {
	// Read is called when the row at logical address logical, mapped to
	// physical address physical, is issued at the given tick.
	Read(p Phase, tick, logical, physical int)
	// Write is called when a row is written back at the given tick.
	Write(p Phase, tick, physical int)
	// PassDone is called once the pass has drained.
	PassDone(p Phase, stats PassStats)
}

type nopProbe struct{}


func (nopProbe) Read(Phase, int, int, int) {}
func (nopProbe) Write(Phase, int, int)     {}
func (nopProbe) PassDone(Phase, PassStats) {}

// Probes fans every event out to each of its elements.
type Probes []Probe

func (ps Probes) Read(p Phase, tick, logical, physical int) {
	for _, probe := range ps {
		probe.Read(p, tick, logical, physical)
	}
}

func (ps Probes) Write(p Phase, tick, physical int) {
	for _, probe := range ps {
		probe.Write(p, tick, physical)
	}
}

func (ps Probes) PassDone(p Phase, stats PassStats) {
	for _, probe := range ps {
		probe.PassDone(p, stats)
	}
}
