// Package metrics summarizes traces: step counts per kind and numeric
// payload fields over time.
package metrics

import (
	"github.com/samber/lo"
	"github.com/san-kum/algoviz/internal/trace"
)

// Metric folds the steps of a trace into a single number.
type Metric interface {
	Name() string
	Observe(s trace.Step)
	Value() float64
	Reset()
}

type KindCount struct {
	kind  trace.Kind
	count int
}

func NewKindCount(kind trace.Kind) *KindCount { return &KindCount{kind: kind} }

func (k *KindCount) Name() string { return string(k.kind) + "_count" }

func (k *KindCount) Observe(s trace.Step) {
	if s.Kind == k.kind {
		k.count++
	}
}

func (k *KindCount) Value() float64 { return float64(k.count) }
func (k *KindCount) Reset()         { k.count = 0 }

// FieldMax tracks the largest value a numeric payload field reaches.
type FieldMax struct {
	field string
	max   float64
	seen  bool
}

func NewFieldMax(field string) *FieldMax { return &FieldMax{field: field} }

func (f *FieldMax) Name() string { return f.field + "_max" }

func (f *FieldMax) Observe(s trace.Step) {
	v, ok := s.Payload.Number(f.field)
	if !ok {
		return
	}
	if !f.seen || v > f.max {
		f.max = v
		f.seen = true
	}
}

func (f *FieldMax) Value() float64 { return f.max }

func (f *FieldMax) Reset() {
	f.max = 0
	f.seen = false
}

// FieldFinal keeps the last value a numeric payload field took.
type FieldFinal struct {
	field string
	last  float64
}

func NewFieldFinal(field string) *FieldFinal { return &FieldFinal{field: field} }

func (f *FieldFinal) Name() string { return f.field }

func (f *FieldFinal) Observe(s trace.Step) {
	if v, ok := s.Payload.Number(f.field); ok {
		f.last = v
	}
}

func (f *FieldFinal) Value() float64 { return f.last }
func (f *FieldFinal) Reset()         { f.last = 0 }

// Default returns the metrics reported for a given algorithm.
func Default(algorithm string) []Metric {
	switch algorithm {
	case "merge":
		return []Metric{NewKindCount(trace.KindMerge), NewFieldFinal("totalCost"), NewFieldMax("mergeCost")}
	case "knight":
		return []Metric{NewKindCount(trace.KindVisit), NewKindCount(trace.KindBacktrack), NewFieldMax("count")}
	case "closest-pair":
		return []Metric{NewFieldFinal("comparisons"), NewFieldFinal("bestDistance")}
	case "bubble":
		return []Metric{NewKindCount(trace.KindCompare), NewKindCount(trace.KindSwap), NewFieldFinal("passes")}
	default:
		return nil
	}
}

// Summary describes a whole trace.
type Summary struct {
	Algorithm string
	Steps     int
	Kinds     map[trace.Kind]int
	Values    map[string]float64
}

// Summarize runs every metric over st.
func Summarize(st *trace.Store, ms ...Metric) Summary {
	steps := st.Steps()
	for _, m := range ms {
		m.Reset()
	}
	for _, s := range steps {
		for _, m := range ms {
			m.Observe(s)
		}
	}

	return Summary{
		Algorithm: st.Algorithm(),
		Steps:     len(steps),
		Kinds:     lo.CountValuesBy(steps, func(s trace.Step) trace.Kind { return s.Kind }),
		Values: lo.SliceToMap(ms, func(m Metric) (string, float64) {
			return m.Name(), m.Value()
		}),
	}
}

// Series returns field's value at every step that carries it.
func Series(st *trace.Store, field string) []float64 {
	return lo.FilterMap(st.Steps(), func(s trace.Step, _ int) (float64, bool) {
		return s.Payload.Number(field)
	})
}

// NumericFields lists the fields of the last step that hold a number.
func NumericFields(st *trace.Store) []string {
	p := st.Last().Payload
	return lo.Filter(p.Keys(), func(k string, _ int) bool {
		_, ok := p.Number(k)
		return ok
	})
}

// Timeline returns one value per step: field where the step carries it,
// otherwise the last value seen (0 before the first).
func Timeline(st *trace.Store, field string) []float64 {
	last := 0.0
	return lo.Map(st.Steps(), func(s trace.Step, _ int) float64 {
		if v, ok := s.Payload.Number(field); ok {
			last = v
		}
		return last
	})
}

// ChartField names the field that best tracks progress for algorithm.
func ChartField(algorithm string) string {
	switch algorithm {
	case "merge":
		return "totalCost"
	case "knight":
		return "count"
	case "closest-pair":
		return "bestDistance"
	case "bubble":
		return "swaps"
	}
	return ""
}
