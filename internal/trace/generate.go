package trace

import (
	"context"
	"fmt"
)

// Generator is implemented by every algorithm that can be visualized.
// Run must be deterministic for a given input, must not sleep or assume a
// presenter, and must return input errors before recording any step.
type Generator interface {
	Name() string
	Vocabulary() Vocabulary
	Run(ctx context.Context, rec Recorder) error
}

// Generate runs g to completion and wraps the result in a Store.
func Generate(ctx context.Context, g Generator) (*Store, error) {
	b := NewBuilder(g.Name(), g.Vocabulary())
	if err := g.Run(ctx, &ctxRecorder{ctx: ctx, next: b}); err != nil {
		return nil, fmt.Errorf("%s: %w", g.Name(), err)
	}
	t, err := b.Build()
	if err != nil {
		return nil, err
	}
	return NewStore(t)
}

type ctxRecorder struct {
	ctx  context.Context
	next Recorder
}

func (r *ctxRecorder) Record(kind Kind, fields Fields) error {
	select {
	case <-r.ctx.Done():
		return r.ctx.Err()
	default:
	}
	return r.next.Record(kind, fields)
}

// Live is a generator suspended between steps. The generator goroutine
// only advances past a recorded step when Next is called again.
type Live struct {
	steps   chan Step
	resume  chan struct{}
	done    chan struct{}
	cancel  context.CancelFunc
	builder *Builder

	// written by the generator goroutine before done is closed
	err   error
	trace *Trace
}

// Stream starts g under cooperative suspension. The caller must drain it
// with Next or release it with Close.
func Stream(ctx context.Context, g Generator) *Live {
	ctx, cancel := context.WithCancel(ctx)
	l := &Live{
		steps:   make(chan Step),
		resume:  make(chan struct{}),
		done:    make(chan struct{}),
		cancel:  cancel,
		builder: NewBuilder(g.Name(), g.Vocabulary()),
	}
	go l.run(ctx, g)
	return l
}

func (l *Live) run(ctx context.Context, g Generator) {
	defer close(l.done)

	select {
	case <-l.resume:
	case <-ctx.Done():
		l.err = ctx.Err()
		return
	}

	if err := g.Run(ctx, &gate{live: l, ctx: ctx}); err != nil {
		l.err = fmt.Errorf("%s: %w", g.Name(), err)
		return
	}
	l.trace, l.err = l.builder.Build()
}

// Next resumes the generator and returns the step it records next.
// It reports false once the generator has finished or failed.
func (l *Live) Next() (Step, bool) {
	select {
	case l.resume <- struct{}{}:
	case <-l.done:
		return Step{}, false
	}
	select {
	case s := <-l.steps:
		return s, true
	case <-l.done:
		return Step{}, false
	}
}

// Err returns the generator's error once Next has reported false.
func (l *Live) Err() error {
	select {
	case <-l.done:
		return l.err
	default:
		return nil
	}
}

// Store drains any remaining steps and returns the materialized trace.
func (l *Live) Store() (*Store, error) {
	for {
		if _, ok := l.Next(); !ok {
			break
		}
	}
	if l.err != nil {
		return nil, l.err
	}
	return NewStore(l.trace)
}

// Close cancels the generator and waits for its goroutine to exit.
func (l *Live) Close() {
	l.cancel()
	<-l.done
}

type gate struct {
	live *Live
	ctx  context.Context
}

func (g *gate) Record(kind Kind, fields Fields) error {
	step, err := g.live.builder.append(kind, fields)
	if err != nil {
		return err
	}
	select {
	case g.live.steps <- step:
	case <-g.ctx.Done():
		return g.ctx.Err()
	}
	select {
	case <-g.live.resume:
		return nil
	case <-g.ctx.Done():
		return g.ctx.Err()
	}
}
