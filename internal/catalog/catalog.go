// Package catalog maps algorithm names to trace generators built from
// configuration.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/trace"
)

// Factory builds a generator from the algorithm's section of cfg.
type Factory func(cfg *config.Config) trace.Generator

type Entry struct {
	Name        string
	Title       string
	Description string
	Factory     Factory
}

type Catalog struct {
	entries map[string]Entry
}

func New() *Catalog {
	c := &Catalog{entries: make(map[string]Entry)}

	c.Register(Entry{
		Name:        "merge",
		Title:       "Optimal Merge Pattern",
		Description: "Merge sorted files pairwise, always cheapest first",
		Factory: func(cfg *config.Config) trace.Generator {
			return algo.NewOptimalMerge(cfg.Merge.Sizes)
		},
	})
	c.Register(Entry{
		Name:        "knight",
		Title:       "Knight's Tour",
		Description: "Plan a delivery route that visits every block exactly once",
		Factory: func(cfg *config.Config) trace.Generator {
			k := cfg.Knight
			var opts []algo.KnightOption
			if k.MaxSteps > 0 {
				opts = append(opts, algo.WithMaxSteps(k.MaxSteps))
			}
			return algo.NewKnightsTour(k.Size, trace.Cell{Row: k.StartRow, Col: k.StartCol}, opts...)
		},
	})
	c.Register(Entry{
		Name:        "closest-pair",
		Title:       "Closest Pair of Points",
		Description: "Find the two nearest cities by checking every pair",
		Factory: func(cfg *config.Config) trace.Generator {
			pts := lo.Map(cfg.ClosestPair.Points, func(p config.PointConfig, _ int) trace.Point {
				return trace.Point{Label: p.Label, X: p.X, Y: p.Y}
			})
			return algo.NewClosestPair(pts)
		},
	})
	c.Register(Entry{
		Name:        "bubble",
		Title:       "Bubble Sort",
		Description: "Order a support queue by priority with adjacent swaps",
		Factory: func(cfg *config.Config) trace.Generator {
			return algo.NewBubbleSort(cfg.Bubble.Values)
		},
	})

	return c
}

// Register adds e, replacing any entry with the same name.
func (c *Catalog) Register(e Entry) { c.entries[e.Name] = e }

func (c *Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

func (c *Catalog) Get(name string, cfg *config.Config) (trace.Generator, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm: %s", name)
	}
	return e.Factory(cfg), nil
}

func (c *Catalog) List() []string {
	names := lo.Keys(c.entries)
	slices.Sort(names)
	return names
}

// Generate builds and runs the named generator.
func (c *Catalog) Generate(ctx context.Context, name string, cfg *config.Config) (*trace.Store, error) {
	g, err := c.Get(name, cfg)
	if err != nil {
		return nil, err
	}
	return trace.Generate(ctx, g)
}

// GenerateAll runs each named generator on its own goroutine. Results
// keep the order of names; the first error in that order is returned.
func (c *Catalog) GenerateAll(ctx context.Context, names []string, cfg *config.Config) ([]*trace.Store, error) {
	stores := make([]*trace.Store, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(idx int, name string) {
			defer wg.Done()
			stores[idx], errs[idx] = c.Generate(ctx, name, cfg)
		}(i, name)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return stores, nil
}
