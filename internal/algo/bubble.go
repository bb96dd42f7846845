package algo

import (
	"context"
	"fmt"
	"slices"

	"github.com/san-kum/algoviz/internal/trace"
)

// BubbleSort sorts ascending by adjacent swaps. It stops after the first
// pass that swaps nothing, so a sorted input costs a single pass.
type BubbleSort struct {
	values []int
}

func NewBubbleSort(values []int) *BubbleSort {
	return &BubbleSort{values: slices.Clone(values)}
}

func (b *BubbleSort) Name() string { return "bubble" }

func (b *BubbleSort) Vocabulary() trace.Vocabulary {
	return trace.Vocabulary{trace.KindInit, trace.KindPass, trace.KindCompare, trace.KindSwap, trace.KindComplete}
}

func (b *BubbleSort) Run(ctx context.Context, rec trace.Recorder) error {
	if len(b.values) == 0 {
		return fmt.Errorf("%w: bubble sort needs at least one value", ErrInvalidInput)
	}
	values := slices.Clone(b.values)
	n := len(values)

	if err := rec.Record(trace.KindInit, trace.Fields{"values": values, "pass": 0}); err != nil {
		return err
	}

	pass, total := 0, 0
	for {
		pass++
		if err := rec.Record(trace.KindPass, trace.Fields{"values": values, "pass": pass}); err != nil {
			return err
		}

		swaps := 0
		// the last pass-1 slots already hold their final values
		for j := 0; j < n-pass; j++ {
			outOfOrder := values[j] > values[j+1]
			if err := rec.Record(trace.KindCompare, trace.Fields{
				"values":     values,
				"pass":       pass,
				"compared":   trace.Pair{j, j + 1},
				"outOfOrder": outOfOrder,
			}); err != nil {
				return err
			}
			if !outOfOrder {
				continue
			}
			values[j], values[j+1] = values[j+1], values[j]
			swaps++
			total++
			if err := rec.Record(trace.KindSwap, trace.Fields{
				"values":  values,
				"pass":    pass,
				"swapped": trace.Pair{j, j + 1},
				"swaps":   swaps,
			}); err != nil {
				return err
			}
		}
		if swaps == 0 {
			break
		}
	}

	return rec.Record(trace.KindComplete, trace.Fields{
		"values":     values,
		"passes":     pass,
		"totalSwaps": total,
	})
}
