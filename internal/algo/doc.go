// Package algo implements the trace generators behind each visualization.
//
// Every generator satisfies [trace.Generator]: it validates its input,
// then records a deterministic sequence of self-contained steps. None of
// them sleep or know about playback; timing belongs to the playback
// controller.
//
//   - [OptimalMerge]: greedy two-cheapest merge over a binary min-heap
//   - [KnightsTour]: Warnsdorff-ordered backtracking tour on an n×n board
//   - [ClosestPair]: brute-force pairwise distance scan
//   - [BubbleSort]: adjacent-swap passes with early exit
package algo
