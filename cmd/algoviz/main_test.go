package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/logging"
	"github.com/san-kum/algoviz/internal/tutor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "closest-pair")
	assert.Contains(t, out, "Optimal Merge Pattern")
	assert.Contains(t, out, "delivery")
}

func TestPresets(t *testing.T) {
	out, err := execute(t, "presets", "bubble")
	require.NoError(t, err)
	assert.Contains(t, out, "queue")
	assert.Contains(t, out, "values [50 30 40 10 20]")

	_, err = execute(t, "presets", "quicksort")
	assert.ErrorContains(t, err, "unknown algorithm: quicksort")
}

func TestGenerate_Several(t *testing.T) {
	out, err := execute(t, "generate", "merge", "bubble")
	require.NoError(t, err)
	assert.Contains(t, out, "merge")
	assert.Contains(t, out, "bubble")
	assert.Contains(t, out, "swap_count=")
}

func TestGenerate_UnknownPreset(t *testing.T) {
	_, err := execute(t, "generate", "--algorithm", "bubble", "--preset", "nope")
	assert.ErrorContains(t, err, "unknown preset: nope")
}

func TestExport_JSONAppliesPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	_, err := execute(t, "export", "bubble", "--preset", "sorted", "-o", path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Algorithm string `json:"algorithm"`
		Length    int    `json:"length"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "bubble", doc.Algorithm)
	assert.Positive(t, doc.Length)
}

func TestExport_CSVAndSVG(t *testing.T) {
	out, err := execute(t, "export", "merge", "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "index,kind,"), out)

	out, err = execute(t, "export", "knight", "--format", "svg", "--step", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")

	_, err = execute(t, "export", "merge", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format: xml")
}

func TestPlot(t *testing.T) {
	out, err := execute(t, "plot", "merge")
	require.NoError(t, err)
	assert.Contains(t, out, "totalCost")

	_, err = execute(t, "plot", "merge", "--field", "nothing")
	assert.ErrorContains(t, err, `no numeric field "nothing"`)
}

func TestAsk(t *testing.T) {
	var got [2]string
	h := tutor.NewHandler(tutor.AnswererFunc(func(_ context.Context, algorithm, question string) (string, error) {
		got = [2]string{algorithm, question}
		return "It swaps neighbours.", nil
	}), logging.Discard())
	srv := httptest.NewServer(h)
	defer srv.Close()

	out, err := execute(t, "ask", "--endpoint", srv.URL+"/ask", "--algorithm", "bubble", "how", "does", "it", "work")
	require.NoError(t, err)
	assert.Contains(t, out, "It swaps neighbours.")
	assert.Equal(t, [2]string{"bubble", "how does it work"}, got)
}

func TestAsk_Unconfigured(t *testing.T) {
	srv := httptest.NewServer(tutor.NewHandler(tutor.Unavailable{}, logging.Discard()))
	defer srv.Close()

	_, err := execute(t, "ask", "--endpoint", srv.URL+"/ask", "why")
	assert.EqualError(t, err, "Server configuration error")
}

func TestDescribeInput(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, "5x5 board from (0,0)", describeInput("knight", cfg))
	assert.True(t, strings.HasPrefix(describeInput("closest-pair", cfg), "A(20,30) B(80,20)"))
	assert.Empty(t, describeInput("quicksort", cfg))
}
