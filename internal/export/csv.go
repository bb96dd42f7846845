package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/samber/lo"
	"github.com/san-kum/algoviz/internal/trace"
)

// WriteCSV writes one row per step: index, kind, every numeric field seen
// anywhere in the trace, then the full payload as JSON.
func WriteCSV(w io.Writer, st *trace.Store) error {
	steps := st.Steps()
	columns := numericColumns(steps)

	cw := csv.NewWriter(w)

	header := append([]string{"index", "kind"}, columns...)
	header = append(header, "payload")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range steps {
		row := []string{strconv.Itoa(s.Index), string(s.Kind)}
		for _, col := range columns {
			v, ok := s.Payload.Number(col)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		payload, err := json.Marshal(s.Payload)
		if err != nil {
			return err
		}
		row = append(row, string(payload))

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func WriteCSVFile(path string, st *trace.Store) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteCSV(file, st)
}

func numericColumns(steps []trace.Step) []string {
	cols := lo.Uniq(lo.FlatMap(steps, func(s trace.Step, _ int) []string {
		return lo.Filter(s.Payload.Keys(), func(k string, _ int) bool {
			_, ok := s.Payload.Number(k)
			return ok
		})
	}))
	slices.Sort(cols)
	return cols
}
