package pipeline

import (
	"fmt"
)

// Phase is one pass of the pipeline over the whole store.
// It is implemented by [MergedStage] and [BypassStage] only.
type Phase interface {
	// Stage returns the index l of the first radix-2 stage computed by the pass.
	Stage() int
	// Distance returns the exponent s of the row stride of the pass.
	Distance() int
	// Mode returns the butterfly datapath used by the pass.
	Mode() Mode
	// Width returns the block width of the lane buffers.
	Width() int
	// View returns the view used by the lane buffers on the butterfly side.
	View() View
	String() string

	isPhase()
}

// MergedStage computes the radix-2 stages l and l+1 in a single pass.
type MergedStage struct {
	stage    int
	distance int
}

// NewMergedStage returns the merged pass starting at stage l with row
// stride 2^s.
func NewMergedStage(l, s int) MergedStage {
	return MergedStage{stage: l, distance: s}
}

func (m MergedStage) Stage() int    { return m.stage }
func (m MergedStage) Distance() int { return m.distance }
func (m MergedStage) Mode() Mode    { return ModeMerged }
func (m MergedStage) Width() int    { return Banks }

// Direct returns true for the pass whose butterfly pairs lie across the
// banks of a single row, in which case rows feed the butterfly unchanged.
func (m MergedStage) Direct() bool {
	return m.stage == 0
}

func (m MergedStage) View() View {
	if m.Direct() {
		return RowView
	}
	return ColumnView
}

func (m MergedStage) String() string {
	return fmt.Sprintf("merged(l=%d,s=%d)", m.stage, m.distance)
}

func (MergedStage) isPhase() {}

// BypassStage computes the last radix-2 stage alone, when logN is odd.
type BypassStage struct {
	stage int
}

// NewBypassStage returns the bypass pass for stage l of a ring of degree
// 2^logN.
func NewBypassStage(l int) BypassStage {
	return BypassStage{stage: l}
}

func (b BypassStage) Stage() int { return b.stage }

// Distance is always zero: the butterfly partners of the last stage are
// the adjacent rows r and r^1.
func (b BypassStage) Distance() int { return 0 }
func (b BypassStage) Mode() Mode    { return ModeBypass }
func (b BypassStage) Width() int    { return 2 }
func (b BypassStage) View() View    { return PairView }

func (b BypassStage) String() string {
	return fmt.Sprintf("bypass(l=%d)", b.stage)
}

func (BypassStage) isPhase() {}

// MinLogN and MaxLogN bound the supported ring degrees.
const (
	MinLogN = 3
	MaxLogN = 11
)

// stagePatterns lists, for each supported logN, the row distance of every
// merged pass. The first pass works across banks and has distance 0.
var stagePatterns = map[int][]int{
	3:  {0},
	4:  {0, 0},
	5:  {0, 1},
	6:  {0, 2, 0},
	7:  {0, 3, 1},
	8:  {0, 4, 2, 0},
	9:  {0, 5, 3, 1},
	10: {0, 6, 4, 2, 0},
	11: {0, 7, 5, 3, 1},
}

// StagePattern returns a copy of the merged pass distances for logN.
func StagePattern(logN int) ([]int, error) {
	pattern, ok := stagePatterns[logN]
	if !ok {
		return nil, fmt.Errorf("invalid logN: %d, no stage pattern (must be in [%d, %d])", logN, MinLogN, MaxLogN)
	}
	if err := validatePattern(logN, pattern); err != nil {
		return nil, err
	}
	return append([]int(nil), pattern...), nil
}

// validatePattern checks that pattern schedules logN/2 merged passes whose
// distances match the bank layout: pass p > 0 works on the row bits
// logN-2-2p and logN-1-2p, which must both lie below log2(N/4).
func validatePattern(logN int, pattern []int) error {

	if len(pattern) != logN>>1 {
		return fmt.Errorf("invalid stage pattern for logN=%d: %d merged passes but %d stage pairs", logN, len(pattern), logN>>1)
	}

	if pattern[0] != 0 {
		return fmt.Errorf("invalid stage pattern for logN=%d: first pass must have distance 0 but has %d", logN, pattern[0])
	}

	for p := 1; p < len(pattern); p++ {
		if want := logN - 2 - 2*p; pattern[p] != want {
			return fmt.Errorf("invalid stage pattern for logN=%d: pass %d has distance %d but the stages %d and %d require %d", logN, p, pattern[p], 2*p, 2*p+1, want)
		}
	}

	return nil
}

// phases returns the passes scheduled for logN from its pattern.
func phases(logN int, pattern []int) (ph []Phase) {
	for p, s := range pattern {
		ph = append(ph, NewMergedStage(2*p, s))
	}
	if logN&1 == 1 {
		ph = append(ph, NewBypassStage(logN-1))
	}
	return
}
