package algo

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/algoviz/internal/trace"
)

// ClosestPair compares every unordered pair of points once and keeps the
// nearest. Ties keep the pair seen first.
type ClosestPair struct {
	points []trace.Point
}

func NewClosestPair(points []trace.Point) *ClosestPair {
	return &ClosestPair{points: slices.Clone(points)}
}

func (c *ClosestPair) Name() string { return "closest-pair" }

func (c *ClosestPair) Vocabulary() trace.Vocabulary {
	return trace.Vocabulary{trace.KindInit, trace.KindCompare, trace.KindComplete}
}

func (c *ClosestPair) Run(ctx context.Context, rec trace.Recorder) error {
	pts := c.points
	if len(pts) < 2 {
		return fmt.Errorf("%w: closest pair needs at least two points, got %d", ErrInvalidInput, len(pts))
	}
	for i, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("%w: point %d has a non-finite coordinate", ErrInvalidInput, i)
		}
	}

	if err := rec.Record(trace.KindInit, trace.Fields{
		"points":      pts,
		"comparisons": 0,
	}); err != nil {
		return err
	}

	var (
		best     trace.Pair
		bestDist float64
		compared int
	)
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			d := Distance(pts[i], pts[j])
			compared++
			improved := compared == 1 || d < bestDist
			if improved {
				best, bestDist = trace.Pair{i, j}, d
			}
			if err := rec.Record(trace.KindCompare, trace.Fields{
				"points":       pts,
				"pair":         trace.Pair{i, j},
				"distance":     d,
				"best":         best,
				"bestDistance": bestDist,
				"improved":     improved,
				"comparisons":  compared,
			}); err != nil {
				return err
			}
		}
	}

	return rec.Record(trace.KindComplete, trace.Fields{
		"points":       pts,
		"best":         best,
		"bestDistance": bestDist,
		"comparisons":  compared,
	})
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b trace.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
