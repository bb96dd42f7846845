// Package console prints playback to a plain writer, one line per step.
package console

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/trace"
)

// Narrate describes what s shows, in one sentence.
func Narrate(algorithm string, s trace.Step) string {
	p := s.Payload
	switch algorithm {
	case "merge":
		return narrateMerge(s.Kind, p)
	case "knight":
		return narrateKnight(s.Kind, p)
	case "closest-pair":
		return narrateClosest(s.Kind, p)
	case "bubble":
		return narrateBubble(s.Kind, p)
	}
	return string(s.Kind)
}

func narrateMerge(kind trace.Kind, p trace.Payload) string {
	heap, _ := p.Ints("heap")
	total, _ := p.Int("totalCost")
	sel, _ := p.Ints("selected")
	switch kind {
	case trace.KindInit:
		return fmt.Sprintf("Build a min-heap from %d runs %s", len(heap), ints(heap))
	case trace.KindSelect:
		if len(sel) == 2 {
			return fmt.Sprintf("Take the two smallest runs, %d and %d", sel[0], sel[1])
		}
	case trace.KindMerge:
		merged, _ := p.Int("merged")
		if len(sel) == 2 {
			return fmt.Sprintf("Merge %d + %d = %d, total cost now %d", sel[0], sel[1], merged, total)
		}
	case trace.KindInsert:
		in, _ := p.Int("inserted")
		return fmt.Sprintf("Push %d back onto the heap %s", in, ints(heap))
	case trace.KindComplete:
		return fmt.Sprintf("Everything merged into one run. Total cost %d", total)
	}
	return string(kind)
}

func narrateKnight(kind trace.Kind, p trace.Payload) string {
	count, _ := p.Int("count")
	size, _ := p.Int("size")
	switch kind {
	case trace.KindVisit:
		pos, _ := p.Cell("position")
		return fmt.Sprintf("Move %d: knight lands on %s", count, cell(pos))
	case trace.KindBacktrack:
		undone, _ := p.Cell("undone")
		if pos, ok := p.Cell("position"); ok {
			return fmt.Sprintf("Dead end at %s, back to %s", cell(undone), cell(pos))
		}
		return fmt.Sprintf("Dead end at %s, nothing left to try", cell(undone))
	case trace.KindComplete:
		if found, _ := p.Bool("found"); found {
			return fmt.Sprintf("Tour complete: all %d squares visited once", size*size)
		}
		return fmt.Sprintf("No tour covers the %dx%d board from this start", size, size)
	}
	return string(kind)
}

func narrateClosest(kind trace.Kind, p trace.Payload) string {
	pts, _ := p.Points("points")
	n, _ := p.Int("comparisons")
	bestDist, _ := p.Float("bestDistance")
	best, hasBest := p.Pair("best")
	switch kind {
	case trace.KindInit:
		return fmt.Sprintf("%d points, %d pairs to compare", len(pts), len(pts)*(len(pts)-1)/2)
	case trace.KindCompare:
		pair, _ := p.Pair("pair")
		d, _ := p.Float("distance")
		line := fmt.Sprintf("Compare %s: distance %.2f", pairName(pts, pair), d)
		if improved, _ := p.Bool("improved"); improved {
			return line + " (new closest)"
		}
		return fmt.Sprintf("%s, closest still %s at %.2f", line, pairName(pts, best), bestDist)
	case trace.KindComplete:
		if hasBest {
			return fmt.Sprintf("Closest pair is %s at %.2f after %d comparisons", pairName(pts, best), bestDist, n)
		}
	}
	return string(kind)
}

func narrateBubble(kind trace.Kind, p trace.Payload) string {
	values, _ := p.Ints("values")
	pass, _ := p.Int("pass")
	switch kind {
	case trace.KindInit:
		return fmt.Sprintf("Sort %s", ints(values))
	case trace.KindPass:
		return fmt.Sprintf("Pass %d", pass)
	case trace.KindCompare:
		pr, _ := p.Pair("compared")
		verdict := "in order"
		if out, _ := p.Bool("outOfOrder"); out {
			verdict = "out of order"
		}
		return fmt.Sprintf("Compare %d and %d: %s", values[pr[0]], values[pr[1]], verdict)
	case trace.KindSwap:
		pr, _ := p.Pair("swapped")
		return fmt.Sprintf("Swap, now %s", emphasize(values, pr))
	case trace.KindComplete:
		passes, _ := p.Int("passes")
		swaps, _ := p.Int("totalSwaps")
		return fmt.Sprintf("Sorted %s in %d passes with %d swaps", ints(values), passes, swaps)
	}
	return string(kind)
}

func ints(vs []int) string {
	return "[" + strings.Join(lo.Map(vs, func(v int, _ int) string { return fmt.Sprint(v) }), " ") + "]"
}

func emphasize(vs []int, pr trace.Pair) string {
	parts := lo.Map(vs, func(v int, i int) string {
		if i == pr[0] || i == pr[1] {
			return fmt.Sprintf("*%d*", v)
		}
		return fmt.Sprint(v)
	})
	return "[" + strings.Join(parts, " ") + "]"
}

func cell(c trace.Cell) string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

func pairName(pts []trace.Point, pr trace.Pair) string {
	return pointName(pts, pr[0]) + "-" + pointName(pts, pr[1])
}

func pointName(pts []trace.Point, i int) string {
	if i >= 0 && i < len(pts) && pts[i].Label != "" {
		return pts[i].Label
	}
	return fmt.Sprintf("#%d", i)
}

// History lists the merges recorded so far, one per line.
func History(p trace.Payload) []string {
	h, _ := trace.Field[algo.MergeHistory](p, "mergeHistory")
	return lo.Map(h, func(r algo.MergeRecord, i int) string {
		return fmt.Sprintf("%d. %d + %d = %d (cost %d)", i+1, r.First, r.Second, r.Result, r.Cost)
	})
}
