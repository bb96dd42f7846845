package trace

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
)

// Fields is the mutable input a generator hands to Record.
type Fields map[string]any

// Cloner lets algorithm-specific payload types provide a deep copy.
type Cloner interface {
	CloneValue() any
}

// Cell addresses a square on a grid board.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Point is a labelled location on a plane.
type Point struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Pair holds two indices, e.g. the positions being compared.
type Pair [2]int

// Payload is an immutable mapping of named fields. Values are copied on the
// way in and on the way out.
type Payload struct {
	fields map[string]any
}

// NewPayload deep-copies fields into an immutable payload.
func NewPayload(fields Fields) (Payload, error) {
	p := Payload{fields: make(map[string]any, len(fields))}
	for name, v := range fields {
		c, err := cloneValue(v)
		if err != nil {
			return Payload{}, fmt.Errorf("field %q: %w", name, err)
		}
		p.fields[name] = c
	}
	return p, nil
}

func (p Payload) Len() int { return len(p.fields) }

func (p Payload) Has(name string) bool {
	_, ok := p.fields[name]
	return ok
}

// Keys returns the field names in sorted order.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p.fields))
	for k := range p.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value returns a copy of the named field.
func (p Payload) Value(name string) (any, bool) {
	v, ok := p.fields[name]
	if !ok {
		return nil, false
	}
	c, _ := cloneValue(v)
	return c, true
}

func (p Payload) Int(name string) (int, bool)          { return Field[int](p, name) }
func (p Payload) Float(name string) (float64, bool)    { return Field[float64](p, name) }
func (p Payload) Bool(name string) (bool, bool)        { return Field[bool](p, name) }
func (p Payload) Text(name string) (string, bool)      { return Field[string](p, name) }
func (p Payload) Ints(name string) ([]int, bool)       { return Field[[]int](p, name) }
func (p Payload) Grid(name string) ([][]int, bool)     { return Field[[][]int](p, name) }
func (p Payload) Cell(name string) (Cell, bool)        { return Field[Cell](p, name) }
func (p Payload) Pair(name string) (Pair, bool)        { return Field[Pair](p, name) }
func (p Payload) Points(name string) ([]Point, bool)   { return Field[[]Point](p, name) }
func (p Payload) Floats(name string) ([]float64, bool) { return Field[[]float64](p, name) }

// Number returns a numeric field as float64 regardless of its stored type.
func (p Payload) Number(name string) (float64, bool) {
	switch v := p.fields[name].(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// Field returns a typed copy of the named field.
func Field[T any](p Payload, name string) (T, bool) {
	var zero T
	v, ok := p.Value(name)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

func (p Payload) MarshalJSON() ([]byte, error) {
	if p.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.fields)
}

func cloneValue(v any) (any, error) {
	switch x := v.(type) {
	case nil, int, int64, float64, string, bool, Cell, Point, Pair:
		return x, nil
	case []int:
		return slices.Clone(x), nil
	case []float64:
		return slices.Clone(x), nil
	case []string:
		return slices.Clone(x), nil
	case []Cell:
		return slices.Clone(x), nil
	case []Point:
		return slices.Clone(x), nil
	case [][]int:
		out := make([][]int, len(x))
		for i, row := range x {
			out[i] = slices.Clone(row)
		}
		return out, nil
	case Cloner:
		return x.CloneValue(), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}
