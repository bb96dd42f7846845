package trace

import "fmt"

// Recorder receives steps from a generator in execution order.
type Recorder interface {
	Record(kind Kind, fields Fields) error
}

// Builder accumulates steps into a trace. It assigns indices, enforces the
// vocabulary, and seals itself once built.
type Builder struct {
	algorithm  string
	vocabulary Vocabulary
	steps      []Step
	sealed     bool
}

func NewBuilder(algorithm string, vocabulary Vocabulary) *Builder {
	return &Builder{
		algorithm:  algorithm,
		vocabulary: vocabulary,
		steps:      make([]Step, 0, 64),
	}
}

func (b *Builder) Record(kind Kind, fields Fields) error {
	_, err := b.append(kind, fields)
	return err
}

func (b *Builder) append(kind Kind, fields Fields) (Step, error) {
	if b.sealed {
		return Step{}, ErrSealed
	}
	if len(b.vocabulary) > 0 && !b.vocabulary.Contains(kind) {
		return Step{}, fmt.Errorf("%w: %s records %q", ErrUnknownKind, b.algorithm, kind)
	}
	payload, err := NewPayload(fields)
	if err != nil {
		return Step{}, err
	}
	step := Step{Index: len(b.steps), Kind: kind, Payload: payload}
	b.steps = append(b.steps, step)
	return step, nil
}

func (b *Builder) Len() int { return len(b.steps) }

// Build seals the builder and returns the finished trace.
func (b *Builder) Build() (*Trace, error) {
	if len(b.steps) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTrace, b.algorithm)
	}
	b.sealed = true
	return &Trace{algorithm: b.algorithm, steps: b.steps}, nil
}
