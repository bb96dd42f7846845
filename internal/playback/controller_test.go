package playback

import (
	"sync"
	"testing"
	"time"

	"github.com/san-kum/algoviz/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t testing.TB, n int) *trace.Store {
	t.Helper()
	b := trace.NewBuilder("test", nil)
	for i := 0; i < n; i++ {
		require.NoError(t, b.Record(trace.KindVisit, trace.Fields{"i": i}))
	}
	tr, err := b.Build()
	require.NoError(t, err)
	st, err := trace.NewStore(tr)
	require.NoError(t, err)
	return st
}

func newController(t testing.TB, n int, opts ...Option) (*Controller, *ManualClock) {
	t.Helper()
	clock := NewManualClock()
	c, err := New(newStore(t, n), append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, clock
}

func TestController_RunPauseStep(t *testing.T) {
	c, clock := newController(t, 5)

	c.Run()
	clock.Advance(500 * time.Millisecond)
	clock.Advance(500 * time.Millisecond)
	c.Pause()

	v := c.View()
	assert.Equal(t, Paused, v.State)
	assert.Equal(t, 1, v.Cursor)

	c.Step()
	c.Step()

	v = c.View()
	assert.Equal(t, 3, v.Cursor)
	assert.Equal(t, Paused, v.State)
	require.NotNil(t, v.Step)
	assert.Equal(t, 3, v.Step.Index)
	assert.InDelta(t, 80.0, v.Progress, 1e-9)
}

func TestController_RunsToCompletion(t *testing.T) {
	c, clock := newController(t, 3)

	c.Run()
	clock.Advance(10 * time.Second)

	v := c.View()
	assert.Equal(t, Completed, v.State)
	assert.Equal(t, 2, v.Cursor)
	assert.Equal(t, 0, clock.Pending())
}

func TestController_SingleStepTrace(t *testing.T) {
	c, clock := newController(t, 1)

	c.Run()
	clock.Advance(500 * time.Millisecond)

	v := c.View()
	assert.Equal(t, Completed, v.State)
	assert.Equal(t, 0, v.Cursor)
	assert.InDelta(t, 100.0, v.Progress, 1e-9)
}

func TestController_RunIgnoredWhenRunningOrCompleted(t *testing.T) {
	c, clock := newController(t, 4)

	c.Run()
	c.Run()
	assert.Equal(t, 1, clock.Pending(), "second run must not schedule another tick")

	c.GoToStep(3)
	before := c.View()
	c.Run()
	assert.Equal(t, before, c.View())
}

func TestController_PauseCancelsPendingTick(t *testing.T) {
	c, clock := newController(t, 5)

	c.Run()
	clock.Advance(300 * time.Millisecond)
	c.Pause()
	clock.Advance(time.Second)

	v := c.View()
	assert.Equal(t, -1, v.Cursor)
	assert.Equal(t, Paused, v.State)
	assert.Nil(t, v.Step)
}

func TestController_StaleTickIgnored(t *testing.T) {
	st := newStore(t, 6)
	var timers []func()
	clock := clockFunc(func(d time.Duration, f func()) Timer {
		timers = append(timers, f)
		return noopTimer{}
	})
	c, err := New(st, WithClock(clock))
	require.NoError(t, err)

	c.Run()
	require.Len(t, timers, 1)
	c.Pause()

	// a timer that could not be stopped fires late
	timers[0]()
	assert.Equal(t, -1, c.View().Cursor)
	assert.Equal(t, Paused, c.View().State)
}

func TestController_StepIgnoredWhileRunning(t *testing.T) {
	c, _ := newController(t, 5)

	c.Run()
	c.Step()
	c.StepBack()

	v := c.View()
	assert.Equal(t, Running, v.State)
	assert.Equal(t, -1, v.Cursor)
}

func TestController_StepFromIdle(t *testing.T) {
	c, _ := newController(t, 3)

	c.Step()
	v := c.View()
	assert.Equal(t, Paused, v.State)
	assert.Equal(t, 0, v.Cursor)

	c.Step()
	c.Step()
	assert.Equal(t, Completed, c.View().State)

	c.Step()
	assert.Equal(t, 2, c.View().Cursor, "step past the end is ignored")
}

func TestController_StepBack(t *testing.T) {
	c, _ := newController(t, 3)

	c.GoToStep(2)
	require.Equal(t, Completed, c.View().State)

	c.StepBack()
	v := c.View()
	assert.Equal(t, Paused, v.State)
	assert.Equal(t, 1, v.Cursor)

	c.StepBack()
	c.StepBack()
	v = c.View()
	assert.Equal(t, Idle, v.State)
	assert.Equal(t, -1, v.Cursor)

	c.StepBack()
	assert.Equal(t, -1, c.View().Cursor)
}

func TestController_GoToStepClamps(t *testing.T) {
	c, _ := newController(t, 5)
	store := newStore(t, 5)

	for _, tc := range []struct {
		target int
		cursor int
		state  State
	}{
		{target: -4, cursor: 0, state: Paused},
		{target: 2, cursor: 2, state: Paused},
		{target: 4, cursor: 4, state: Completed},
		{target: 99, cursor: 4, state: Completed},
	} {
		c.GoToStep(tc.target)
		v := c.View()
		assert.Equal(t, tc.cursor, v.Cursor, "goto %d", tc.target)
		assert.Equal(t, tc.state, v.State, "goto %d", tc.target)

		want, err := store.StepAt(tc.cursor)
		require.NoError(t, err)
		require.NotNil(t, v.Step)
		assert.Equal(t, want, *v.Step, "goto %d", tc.target)
	}
}

func TestController_GoToStepWhileRunning(t *testing.T) {
	c, clock := newController(t, 10)

	c.Run()
	clock.Advance(500 * time.Millisecond)
	c.GoToStep(6)
	clock.Advance(5 * time.Second)

	v := c.View()
	assert.Equal(t, 6, v.Cursor)
	assert.Equal(t, Paused, v.State)
}

func TestController_ResetStartsNewSession(t *testing.T) {
	c, clock := newController(t, 5, WithSpeed(Fast))

	first := c.View().SessionID
	c.Run()
	clock.Advance(time.Second)
	c.Reset()

	v := c.View()
	assert.Equal(t, Idle, v.State)
	assert.Equal(t, -1, v.Cursor)
	assert.Equal(t, Fast, v.Speed)
	assert.NotEqual(t, first, v.SessionID)
	assert.Equal(t, 0, clock.Pending())
}

func TestController_SetSpeedAffectsNextTick(t *testing.T) {
	c, clock := newController(t, 10)

	c.Run()
	c.SetSpeed(Fast)

	// the tick already pending keeps its normal delay
	clock.Advance(150 * time.Millisecond)
	assert.Equal(t, -1, c.View().Cursor)

	clock.Advance(350 * time.Millisecond)
	assert.Equal(t, 0, c.View().Cursor)

	clock.Advance(150 * time.Millisecond)
	assert.Equal(t, 1, c.View().Cursor)
}

func TestController_CustomDelays(t *testing.T) {
	c, clock := newController(t, 4, WithDelays(Delays{Slow: 30 * time.Millisecond, Normal: 20 * time.Millisecond, Fast: 10 * time.Millisecond}))

	c.Run()
	clock.Advance(40 * time.Millisecond)
	assert.Equal(t, 1, c.View().Cursor)
}

func TestController_CursorStaysInBounds(t *testing.T) {
	c, clock := newController(t, 4)
	ops := []func(){
		c.Run, c.Pause, c.Step, c.StepBack, c.Reset,
		func() { c.GoToStep(-10) }, func() { c.GoToStep(10) },
		func() { clock.Advance(500 * time.Millisecond) },
	}

	for i := 0; i < 400; i++ {
		ops[(i*7+i/3)%len(ops)]()
		v := c.View()
		require.GreaterOrEqual(t, v.Cursor, -1)
		require.LessOrEqual(t, v.Cursor, 3)
		if v.State == Idle {
			require.Equal(t, -1, v.Cursor)
		}
		if v.State == Completed {
			require.Equal(t, 3, v.Cursor)
		}
	}
}

func TestController_ObserversSeeChanges(t *testing.T) {
	var (
		mu    sync.Mutex
		views []View
	)
	c, clock := newController(t, 3, WithObserver(ObserverFunc(func(v View) {
		mu.Lock()
		defer mu.Unlock()
		views = append(views, v)
	})))

	c.Pause() // no-op, no notification
	c.Run()
	for range 3 {
		clock.Advance(500 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	// run, then ticks onto 0, 1 and 2
	require.Len(t, views, 4)
	assert.Equal(t, Running, views[0].State)
	assert.Equal(t, 0, views[1].Cursor)
	assert.Equal(t, Completed, views[3].State)
	assert.Less(t, views[0].Revision, views[3].Revision)
}

func TestController_ObserverMayCallBack(t *testing.T) {
	var c *Controller
	clock := NewManualClock()
	c, err := New(newStore(t, 5), WithClock(clock), WithObserver(ObserverFunc(func(v View) {
		if v.Cursor == 1 {
			c.Pause()
		}
	})))
	require.NoError(t, err)

	c.Run()
	clock.Advance(5 * time.Second)

	v := c.View()
	assert.Equal(t, Paused, v.State)
	assert.Equal(t, 1, v.Cursor)
}

func TestController_LoadReplacesSession(t *testing.T) {
	c, clock := newController(t, 3)
	c.Run()
	clock.Advance(500 * time.Millisecond)
	old := c.View().SessionID

	require.NoError(t, c.Load(newStore(t, 7)))
	clock.Advance(5 * time.Second)

	v := c.View()
	assert.Equal(t, Idle, v.State)
	assert.Equal(t, 7, v.Length)
	assert.Equal(t, -1, v.Cursor)
	assert.NotEqual(t, old, v.SessionID)

	assert.ErrorIs(t, c.Load(nil), trace.ErrEmptyTrace)
}

func TestController_Seek(t *testing.T) {
	c, _ := newController(t, 11)

	c.Seek(50)
	assert.Equal(t, 5, c.View().Cursor)
	c.Seek(100)
	assert.Equal(t, Completed, c.View().State)
}

func TestController_ClosedIgnoresOperations(t *testing.T) {
	c, clock := newController(t, 3)
	c.Run()
	c.Close()
	clock.Advance(time.Second)
	c.Step()

	assert.Equal(t, -1, c.View().Cursor)
	assert.Equal(t, 0, clock.Pending())
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, trace.ErrEmptyTrace)
}

func TestController_RealClock(t *testing.T) {
	st := newStore(t, 3)
	done := make(chan struct{})
	c, err := New(st,
		WithDelays(Delays{Slow: time.Millisecond, Normal: time.Millisecond, Fast: time.Millisecond}),
		WithObserver(ObserverFunc(func(v View) {
			if v.State == Completed {
				close(done)
			}
		})),
	)
	require.NoError(t, err)
	defer c.Close()

	c.Run()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("playback did not complete")
	}
	assert.Equal(t, 2, c.View().Cursor)
}

func TestStepForPercent(t *testing.T) {
	assert.Equal(t, 0, StepForPercent(0, 10))
	assert.Equal(t, 9, StepForPercent(100, 10))
	assert.Equal(t, 5, StepForPercent(50, 11))
	assert.Equal(t, 9, StepForPercent(250, 10))
	assert.Equal(t, 0, StepForPercent(-5, 10))
	assert.Equal(t, -1, StepForPercent(50, 0))
}

func TestParseSpeed(t *testing.T) {
	for in, want := range map[string]Speed{"slow": Slow, "Normal": Normal, " FAST ": Fast, "": Normal} {
		got, err := ParseSpeed(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSpeed("warp")
	assert.ErrorIs(t, err, ErrUnknownSpeed)
}

type clockFunc func(d time.Duration, f func()) Timer

func (f clockFunc) AfterFunc(d time.Duration, fn func()) Timer { return f(d, fn) }

type noopTimer struct{}

func (noopTimer) Stop() bool { return false }
