package algo

import (
	"container/heap"
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/san-kum/algoviz/internal/trace"
)

// MergeRecord is one entry of the merge history.
type MergeRecord struct {
	First  int `json:"first"`
	Second int `json:"second"`
	Result int `json:"result"`
	Cost   int `json:"cost"`
}

// MergeHistory is the ordered list of merges performed so far.
type MergeHistory []MergeRecord

func (h MergeHistory) CloneValue() any { return slices.Clone(h) }

// OptimalMerge repeatedly merges the two smallest runs. The total cost
// equals the weighted external path length of the resulting merge tree.
type OptimalMerge struct {
	sizes []int
}

func NewOptimalMerge(sizes []int) *OptimalMerge {
	return &OptimalMerge{sizes: slices.Clone(sizes)}
}

func (m *OptimalMerge) Name() string { return "merge" }

func (m *OptimalMerge) Vocabulary() trace.Vocabulary {
	return trace.Vocabulary{trace.KindInit, trace.KindSelect, trace.KindMerge, trace.KindInsert, trace.KindComplete}
}

func (m *OptimalMerge) Run(ctx context.Context, rec trace.Recorder) error {
	if len(m.sizes) == 0 {
		return fmt.Errorf("%w: merge needs at least one size", ErrInvalidInput)
	}
	for _, s := range m.sizes {
		if s < 0 {
			return fmt.Errorf("%w: negative size %d", ErrInvalidInput, s)
		}
	}

	h := &runHeap{}
	for _, s := range m.sizes {
		h.add(s, false)
	}
	heap.Init(h)

	total := 0
	history := MergeHistory{}

	if err := rec.Record(trace.KindInit, trace.Fields{
		"heap":         h.sizes(),
		"totalCost":    total,
		"mergeHistory": history,
	}); err != nil {
		return err
	}

	for h.Len() > 1 {
		before := h.sizes()
		a := heap.Pop(h).(run)
		b := heap.Pop(h).(run)

		// a merged run absorbing a plain file is listed first
		first, second := a, b
		if b.merged && !a.merged {
			first, second = b, a
		}
		selected := []int{first.size, second.size}

		if err := rec.Record(trace.KindSelect, trace.Fields{
			"heap":         before,
			"selected":     selected,
			"totalCost":    total,
			"mergeHistory": history,
		}); err != nil {
			return err
		}

		sum := a.size + b.size
		total += sum
		history = append(history, MergeRecord{First: first.size, Second: second.size, Result: sum, Cost: sum})

		if err := rec.Record(trace.KindMerge, trace.Fields{
			"heap":         h.sizes(),
			"selected":     selected,
			"merged":       sum,
			"mergeCost":    sum,
			"totalCost":    total,
			"mergeHistory": history,
		}); err != nil {
			return err
		}

		heap.Push(h, h.next(sum, true))

		if err := rec.Record(trace.KindInsert, trace.Fields{
			"heap":         h.sizes(),
			"inserted":     sum,
			"mergeCost":    sum,
			"totalCost":    total,
			"mergeHistory": history,
		}); err != nil {
			return err
		}
	}

	return rec.Record(trace.KindComplete, trace.Fields{
		"heap":         h.sizes(),
		"result":       (*h).items[0].size,
		"totalCost":    total,
		"mergeHistory": history,
	})
}

type run struct {
	size   int
	merged bool
	seq    int
}

// runHeap orders runs by size, then by insertion order.
type runHeap struct {
	items []run
	seq   int
}

func (h *runHeap) next(size int, merged bool) run {
	r := run{size: size, merged: merged, seq: h.seq}
	h.seq++
	return r
}

func (h *runHeap) add(size int, merged bool) {
	h.items = append(h.items, h.next(size, merged))
}

func (h *runHeap) sizes() []int {
	return lo.Map(h.items, func(r run, _ int) int { return r.size })
}

func (h *runHeap) Len() int { return len(h.items) }

func (h *runHeap) Less(i, j int) bool {
	if h.items[i].size != h.items[j].size {
		return h.items[i].size < h.items[j].size
	}
	return h.items[i].seq < h.items[j].seq
}

func (h *runHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *runHeap) Push(x any)    { h.items = append(h.items, x.(run)) }

func (h *runHeap) Pop() any {
	n := len(h.items)
	r := h.items[n-1]
	h.items = h.items[:n-1]
	return r
}
