// Package trace provides the step model and the immutable trace store that
// every algorithm visualization is played back from.
//
// The package defines:
//
//   - [Step]: one self-contained snapshot of algorithm state
//   - [Payload]: the immutable field mapping carried by a step
//   - [Recorder]: the sink generators record steps into
//   - [Generator]: the contract every algorithm implements
//   - [Store]: length, indexed access and progress over a finished trace
//
// # Example
//
//	st, err := trace.Generate(ctx, algo.NewBubbleSort([]int{5, 3, 4, 1, 2}))
//	if err != nil {
//		return err
//	}
//	last := st.Last()
//	values, _ := trace.Field[[]int](last.Payload, "values")
//
// # Live Generation
//
// [Stream] runs a generator on its own goroutine and suspends it after every
// recorded step until the consumer asks for the next one, so a slow
// presentation never races ahead of the algorithm and a recursive search
// never runs unbounded ahead of its viewer.
//
// # Thread Safety
//
// A [Store] and the steps it hands out are immutable and safe to share.
// A [Builder] is single-writer.
package trace
