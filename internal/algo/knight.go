package algo

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/san-kum/algoviz/internal/trace"
)

// DefaultMaxSteps bounds the number of steps a tour search may record.
const DefaultMaxSteps = 500_000

// knightMoves is the fixed candidate order used before degree ranking.
var knightMoves = [8]trace.Cell{
	{Row: -2, Col: 1}, {Row: -1, Col: 2}, {Row: 1, Col: 2}, {Row: 2, Col: 1},
	{Row: 2, Col: -1}, {Row: 1, Col: -2}, {Row: -1, Col: -2}, {Row: -2, Col: -1},
}

// Move is one edge of the knight's path.
type Move struct {
	From trace.Cell `json:"from"`
	To   trace.Cell `json:"to"`
}

// Path is the ordered list of moves taken so far.
type Path []Move

func (p Path) CloneValue() any { return slices.Clone(p) }

type KnightOption func(*KnightsTour)

// WithMaxSteps overrides DefaultMaxSteps.
func WithMaxSteps(n int) KnightOption {
	return func(k *KnightsTour) { k.maxSteps = n }
}

// KnightsTour searches for an open tour that visits every square once.
// Candidates are tried in ascending onward-degree order and the search
// backtracks out of dead ends.
type KnightsTour struct {
	size     int
	start    trace.Cell
	maxSteps int
}

func NewKnightsTour(size int, start trace.Cell, opts ...KnightOption) *KnightsTour {
	k := &KnightsTour{size: size, start: start, maxSteps: DefaultMaxSteps}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func (k *KnightsTour) Name() string { return "knight" }

func (k *KnightsTour) Vocabulary() trace.Vocabulary {
	return trace.Vocabulary{trace.KindVisit, trace.KindBacktrack, trace.KindComplete}
}

type frame struct {
	cell       trace.Cell
	candidates []trace.Cell
	next       int
}

func (k *KnightsTour) Run(ctx context.Context, rec trace.Recorder) error {
	n := k.size
	if n < 1 {
		return fmt.Errorf("%w: board size %d", ErrInvalidInput, n)
	}
	if !k.inside(k.start) {
		return fmt.Errorf("%w: start %v outside %dx%d board", ErrInvalidInput, k.start, n, n)
	}
	if k.maxSteps < 1 {
		return fmt.Errorf("%w: step budget %d", ErrInvalidInput, k.maxSteps)
	}

	board := make([][]int, n)
	for i := range board {
		board[i] = make([]int, n)
	}

	var (
		stack    []frame
		path     Path
		recorded int
	)

	record := func(kind trace.Kind, fields trace.Fields) error {
		if recorded >= k.maxSteps {
			return fmt.Errorf("%w: %d steps", ErrSearchBudget, k.maxSteps)
		}
		recorded++
		fields["board"] = board
		fields["path"] = path
		fields["size"] = n
		return rec.Record(kind, fields)
	}

	// enter marks cell as the next square of the tour and reports
	// whether the tour is now complete.
	enter := func(cell trace.Cell) (bool, error) {
		count := len(stack) + 1
		board[cell.Row][cell.Col] = count
		if len(stack) > 0 {
			path = append(path, Move{From: stack[len(stack)-1].cell, To: cell})
		}
		if err := record(trace.KindVisit, trace.Fields{"position": cell, "count": count}); err != nil {
			return false, err
		}
		if count == n*n {
			return true, record(trace.KindComplete, trace.Fields{
				"position": cell,
				"count":    count,
				"found":    true,
			})
		}
		stack = append(stack, frame{cell: cell, candidates: k.rank(board, cell)})
		return false, nil
	}

	done, err := enter(k.start)
	if done || err != nil {
		return err
	}
	if k.minorityStart() {
		stack[0].candidates = nil
	}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.candidates) {
			cand := top.candidates[top.next]
			top.next++
			done, err := enter(cand)
			if done || err != nil {
				return err
			}
			continue
		}

		dead := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		board[dead.cell.Row][dead.cell.Col] = 0

		invalidated := lo.Filter(path, func(m Move, _ int) bool { return m.To == dead.cell })
		path = lo.Reject(path, func(m Move, _ int) bool { return m.To == dead.cell })

		fields := trace.Fields{
			"undone":      dead.cell,
			"invalidated": Path(invalidated),
			"count":       len(stack),
		}
		if len(stack) > 0 {
			fields["position"] = stack[len(stack)-1].cell
		}
		if err := record(trace.KindBacktrack, fields); err != nil {
			return err
		}
	}

	return record(trace.KindComplete, trace.Fields{"count": 0, "found": false})
}

// minorityStart reports a start no tour can leave from. On an odd board
// every move flips square colour, so a tour covers one more square of the
// majority colour (row+col even) and must begin on it.
func (k *KnightsTour) minorityStart() bool {
	return k.size%2 == 1 && (k.start.Row+k.start.Col)%2 == 1
}

func (k *KnightsTour) inside(c trace.Cell) bool {
	return c.Row >= 0 && c.Row < k.size && c.Col >= 0 && c.Col < k.size
}

func (k *KnightsTour) open(board [][]int, c trace.Cell) bool {
	return k.inside(c) && board[c.Row][c.Col] == 0
}

// rank returns the unvisited squares reachable from c, fewest onward
// moves first. Ties keep knightMoves order.
func (k *KnightsTour) rank(board [][]int, c trace.Cell) []trace.Cell {
	type scored struct {
		cell   trace.Cell
		degree int
	}
	var out []scored
	for _, m := range knightMoves {
		next := trace.Cell{Row: c.Row + m.Row, Col: c.Col + m.Col}
		if !k.open(board, next) {
			continue
		}
		degree := 0
		for _, m2 := range knightMoves {
			if k.open(board, trace.Cell{Row: next.Row + m2.Row, Col: next.Col + m2.Col}) {
				degree++
			}
		}
		out = append(out, scored{cell: next, degree: degree})
	}
	slices.SortStableFunc(out, func(a, b scored) int { return cmp.Compare(a.degree, b.degree) })
	return lo.Map(out, func(s scored, _ int) trace.Cell { return s.cell })
}
