package playback

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/san-kum/algoviz/internal/trace"
)

// View is the read-only snapshot handed to presenters.
type View struct {
	SessionID string
	Algorithm string
	State     State
	Speed     Speed
	Cursor    int
	Length    int
	Progress  float64
	// Revision increases with every change; presenters can drop stale views.
	Revision uint64
	// Step is nil while the cursor is before the first step.
	Step *trace.Step
}

type Observer interface {
	OnChange(v View)
}

type ObserverFunc func(v View)

func (f ObserverFunc) OnChange(v View) { f(v) }

type Option func(*Controller)

func WithClock(c Clock) Option       { return func(ctl *Controller) { ctl.clock = c } }
func WithDelays(d Delays) Option     { return func(ctl *Controller) { ctl.delays = d } }
func WithSpeed(s Speed) Option       { return func(ctl *Controller) { ctl.speed = s } }
func WithObserver(o Observer) Option { return func(ctl *Controller) { ctl.observers = append(ctl.observers, o) } }
func WithLogger(l *slog.Logger) Option {
	return func(ctl *Controller) { ctl.logger = l }
}

// Controller drives one playback session over an immutable trace.
// All operations are safe for concurrent use; transitions that do not
// apply in the current state are ignored.
type Controller struct {
	mu        sync.Mutex
	clock     Clock
	delays    Delays
	logger    *slog.Logger
	observers []Observer

	store    *trace.Store
	session  string
	cursor   int
	state    State
	speed    Speed
	revision uint64
	closed   bool

	timer Timer
	// gen invalidates ticks scheduled before the last cancel
	gen uint64
}

func New(store *trace.Store, opts ...Option) (*Controller, error) {
	if store == nil {
		return nil, trace.ErrEmptyTrace
	}
	c := &Controller{
		clock:  RealClock{},
		delays: DefaultDelays(),
		logger: slog.New(slog.DiscardHandler),
		speed:  Normal,
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.speed.valid() {
		c.speed = Normal
	}
	c.reload(store)
	return c, nil
}

// Load replaces the trace and starts a fresh idle session. Speed is kept.
func (c *Controller) Load(store *trace.Store) error {
	if store == nil {
		return trace.ErrEmptyTrace
	}
	c.update("load", func() bool {
		c.cancel()
		c.reload(store)
		return true
	})
	return nil
}

func (c *Controller) reload(store *trace.Store) {
	c.store = store
	c.session = uuid.NewString()
	c.cursor = -1
	c.state = Idle
}

// Run starts automatic advancement from the current cursor.
func (c *Controller) Run() {
	c.update("run", func() bool {
		if c.state == Running || c.state == Completed {
			return false
		}
		c.state = Running
		c.schedule()
		return true
	})
}

func (c *Controller) Pause() {
	c.update("pause", func() bool {
		if c.state != Running {
			return false
		}
		c.cancel()
		c.state = Paused
		return true
	})
}

// Reset returns to idle with the cursor before the first step.
func (c *Controller) Reset() {
	c.update("reset", func() bool {
		c.cancel()
		c.session = uuid.NewString()
		c.cursor = -1
		c.state = Idle
		return true
	})
}

// Step advances one step while not running.
func (c *Controller) Step() {
	c.update("step", func() bool {
		if c.state == Running || c.cursor >= c.store.Len()-1 {
			return false
		}
		c.cursor++
		c.settle()
		return true
	})
}

// StepBack moves back one step while not running. Moving back from the
// first step returns the session to idle.
func (c *Controller) StepBack() {
	c.update("step_back", func() bool {
		if c.state == Running || c.cursor < 0 {
			return false
		}
		c.cursor--
		if c.cursor < 0 {
			c.state = Idle
			return true
		}
		c.state = Paused
		return true
	})
}

// SetSpeed changes the delay used for ticks scheduled from now on.
func (c *Controller) SetSpeed(s Speed) {
	c.update("set_speed", func() bool {
		if !s.valid() || s == c.speed {
			return false
		}
		c.speed = s
		return true
	})
}

// GoToStep jumps to index i, clamped to the trace bounds, and pauses.
func (c *Controller) GoToStep(i int) {
	c.update("goto", func() bool {
		c.cancel()
		c.cursor = max(0, min(i, c.store.Len()-1))
		c.settle()
		return true
	})
}

// Seek jumps to the step nearest percent of the way through the trace.
func (c *Controller) Seek(percent float64) {
	c.mu.Lock()
	n := c.store.Len()
	c.mu.Unlock()
	c.GoToStep(StepForPercent(percent, n))
}

// Subscribe registers an observer for subsequent changes.
func (c *Controller) Subscribe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.observers = append(c.observers, o)
	}
}

// Close stops the timer and detaches observers. Later calls are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
	c.observers = nil
	c.closed = true
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) tick(gen uint64) {
	c.update("tick", func() bool {
		if gen != c.gen || c.state != Running {
			return false
		}
		c.timer = nil
		c.cursor++
		if c.cursor >= c.store.Len()-1 {
			c.cursor = c.store.Len() - 1
			c.state = Completed
			return true
		}
		c.schedule()
		return true
	})
}

// settle picks paused or completed after a manual cursor move.
func (c *Controller) settle() {
	if c.cursor == c.store.Len()-1 {
		c.state = Completed
	} else {
		c.state = Paused
	}
}

func (c *Controller) schedule() {
	c.gen++
	gen := c.gen
	c.timer = c.clock.AfterFunc(c.delays.For(c.speed), func() { c.tick(gen) })
}

func (c *Controller) cancel() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

// update applies fn under the lock and notifies observers outside it
// when fn reports a change.
func (c *Controller) update(op string, fn func() bool) {
	c.mu.Lock()
	if c.closed || !fn() {
		c.mu.Unlock()
		return
	}
	c.revision++
	v := c.viewLocked()
	observers := slices.Clone(c.observers)
	c.mu.Unlock()

	c.logger.Debug("playback transition",
		"op", op,
		"session", v.SessionID,
		"state", v.State.String(),
		"cursor", v.Cursor,
		"length", v.Length,
	)
	for _, o := range observers {
		o.OnChange(v)
	}
}

func (c *Controller) viewLocked() View {
	v := View{
		SessionID: c.session,
		Algorithm: c.store.Algorithm(),
		State:     c.state,
		Speed:     c.speed,
		Cursor:    c.cursor,
		Length:    c.store.Len(),
		Revision:  c.revision,
	}
	if c.cursor < 0 {
		return v
	}
	s, err := c.store.StepAt(c.cursor)
	if err != nil {
		c.logger.Error("cursor outside trace", "session", c.session, "err", err)
		return v
	}
	v.Step = &s
	v.Progress = c.store.ProgressPercent(c.cursor)
	return v
}
