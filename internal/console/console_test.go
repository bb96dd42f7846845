package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/playback"
	"github.com/san-kum/algoviz/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, g trace.Generator) *trace.Store {
	t.Helper()
	st, err := trace.Generate(context.Background(), g)
	require.NoError(t, err)
	return st
}

func TestNarrate_Merge(t *testing.T) {
	st := generate(t, algo.NewOptimalMerge([]int{2, 3, 4}))
	steps := st.Steps()

	assert.Equal(t, "Build a min-heap from 3 runs [2 3 4]", Narrate("merge", steps[0]))
	assert.Equal(t, "Take the two smallest runs, 2 and 3", Narrate("merge", steps[1]))
	assert.Equal(t, "Merge 2 + 3 = 5, total cost now 5", Narrate("merge", steps[2]))
	assert.Equal(t, "Everything merged into one run. Total cost 14", Narrate("merge", steps[7]))

	assert.Equal(t, []string{"1. 2 + 3 = 5 (cost 5)", "2. 5 + 4 = 9 (cost 9)"}, History(steps[7].Payload))
}

func TestNarrate_Knight(t *testing.T) {
	st := generate(t, algo.NewKnightsTour(2, trace.Cell{}))
	steps := st.Steps()

	assert.Equal(t, "Move 1: knight lands on (0,0)", Narrate("knight", steps[0]))
	assert.Equal(t, "Dead end at (0,0), nothing left to try", Narrate("knight", steps[1]))
	assert.Equal(t, "No tour covers the 2x2 board from this start", Narrate("knight", steps[2]))
}

func TestNarrate_ClosestPair(t *testing.T) {
	pts := []trace.Point{{Label: "A", X: 0, Y: 0}, {Label: "B", X: 3, Y: 4}, {Label: "C", X: 9, Y: 9}}
	st := generate(t, algo.NewClosestPair(pts))
	steps := st.Steps()

	assert.Equal(t, "3 points, 3 pairs to compare", Narrate("closest-pair", steps[0]))
	assert.Equal(t, "Compare A-B: distance 5.00 (new closest)", Narrate("closest-pair", steps[1]))
	assert.True(t, strings.HasSuffix(Narrate("closest-pair", steps[2]), "closest still A-B at 5.00"))
	assert.Equal(t, "Closest pair is A-B at 5.00 after 3 comparisons", Narrate("closest-pair", st.Last()))
}

func TestNarrate_Bubble(t *testing.T) {
	st := generate(t, algo.NewBubbleSort([]int{2, 1}))
	steps := st.Steps()

	assert.Equal(t, "Sort [2 1]", Narrate("bubble", steps[0]))
	assert.Equal(t, "Pass 1", Narrate("bubble", steps[1]))
	assert.Equal(t, "Compare 2 and 1: out of order", Narrate("bubble", steps[2]))
	assert.Equal(t, "Swap, now [*1* *2*]", Narrate("bubble", steps[3]))
	assert.Equal(t, "Sorted [1 2] in 2 passes with 1 swaps", Narrate("bubble", st.Last()))
}

func TestNarrate_UnknownAlgorithm(t *testing.T) {
	st := generate(t, algo.NewBubbleSort([]int{1}))
	assert.Equal(t, "init", Narrate("quicksort", st.Steps()[0]))
}

func TestPrinter_ReplaysToCompletion(t *testing.T) {
	st := generate(t, algo.NewBubbleSort([]int{2, 1}))
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	clock := playback.NewManualClock()
	ctl, err := playback.New(st, playback.WithClock(clock), playback.WithObserver(printer))
	require.NoError(t, err)
	defer ctl.Close()

	ctl.Run()
	clock.Advance(time.Minute)

	select {
	case <-printer.Done():
	default:
		t.Fatal("printer did not see completion")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, st.Len())
	assert.True(t, strings.HasPrefix(lines[0], "[  1/6  16.7%] init"), lines[0])
	assert.Contains(t, lines[len(lines)-1], "[  6/6 100.0%] complete")
}

func TestPrinter_IgnoresStaleAndRepeatedViews(t *testing.T) {
	st := generate(t, algo.NewBubbleSort([]int{1, 2}))
	s := st.Steps()[1]
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.OnChange(playback.View{Algorithm: "bubble", Cursor: 1, Length: 4, Revision: 2, Step: &s})
	p.OnChange(playback.View{Algorithm: "bubble", Cursor: 0, Length: 4, Revision: 1, Step: &s})
	p.OnChange(playback.View{Algorithm: "bubble", Cursor: 1, Length: 4, Revision: 3, Step: &s, State: playback.Paused})

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestFormatLine_Idle(t *testing.T) {
	assert.Equal(t, "[  0/5   0.0%] idle", FormatLine(playback.View{Length: 5, Cursor: -1}))
}
