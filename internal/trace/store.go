package trace

// Store wraps a finished trace for playback. It never regenerates or
// mutates its trace; loading another run means building another store.
type Store struct {
	trace *Trace
}

func NewStore(t *Trace) (*Store, error) {
	if t == nil || t.Len() == 0 {
		return nil, ErrEmptyTrace
	}
	return &Store{trace: t}, nil
}

func (s *Store) Len() int          { return s.trace.Len() }
func (s *Store) Algorithm() string { return s.trace.algorithm }
func (s *Store) Trace() *Trace     { return s.trace }

func (s *Store) StepAt(index int) (Step, error) {
	if index < 0 || index >= s.trace.Len() {
		return Step{}, &IndexError{Index: index, Length: s.trace.Len()}
	}
	return s.trace.steps[index], nil
}

// Last returns the final step. A store is never empty.
func (s *Store) Last() Step {
	return s.trace.steps[s.trace.Len()-1]
}

func (s *Store) Steps() []Step { return s.trace.Steps() }

// ProgressPercent reports how far through the trace the given cursor is.
// A cursor of -1 (before the first step) reports 0.
func (s *Store) ProgressPercent(index int) float64 {
	return 100 * float64(index+1) / float64(s.trace.Len())
}
