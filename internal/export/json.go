// Package export writes traces out for inspection. Nothing here is read
// back; traces are always regenerated from their inputs.
package export

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/trace"
)

type Document struct {
	Algorithm string             `json:"algorithm"`
	Generated time.Time          `json:"generated"`
	Length    int                `json:"length"`
	Kinds     map[trace.Kind]int `json:"kinds"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Steps     []trace.Step       `json:"steps"`
}

func NewDocument(st *trace.Store, now time.Time) Document {
	sum := metrics.Summarize(st, metrics.Default(st.Algorithm())...)
	return Document{
		Algorithm: st.Algorithm(),
		Generated: now.UTC(),
		Length:    st.Len(),
		Kinds:     sum.Kinds,
		Metrics:   sum.Values,
		Steps:     st.Steps(),
	}
}

func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func WriteJSONFile(path string, doc Document) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, doc)
}
