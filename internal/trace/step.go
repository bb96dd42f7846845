package trace

import "slices"

// Kind tags the semantic operation a step records.
type Kind string

const (
	KindInit      Kind = "init"
	KindPass      Kind = "pass"
	KindCompare   Kind = "compare"
	KindSwap      Kind = "swap"
	KindSelect    Kind = "select"
	KindMerge     Kind = "merge"
	KindInsert    Kind = "insert"
	KindVisit     Kind = "visit"
	KindBacktrack Kind = "backtrack"
	KindComplete  Kind = "complete"
)

// Step is one immutable snapshot of algorithm state.
type Step struct {
	Index   int     `json:"index"`
	Kind    Kind    `json:"kind"`
	Payload Payload `json:"payload"`
}

// Trace is the ordered, immutable sequence of steps from one generator run.
type Trace struct {
	algorithm string
	steps     []Step
}

func (t *Trace) Algorithm() string { return t.algorithm }
func (t *Trace) Len() int          { return len(t.steps) }

// Steps returns a copy of the step slice. Payloads are immutable, so the
// copy is shallow.
func (t *Trace) Steps() []Step {
	return slices.Clone(t.steps)
}

// Vocabulary is the closed set of kinds a generator may record.
type Vocabulary []Kind

func (v Vocabulary) Contains(k Kind) bool {
	return slices.Contains(v, k)
}
