package trace

import (
	"errors"
	"fmt"
)

// Domain errors for trace construction and access.
var (
	// ErrIndexOutOfRange indicates a step index outside [0, length-1].
	ErrIndexOutOfRange = errors.New("trace: step index out of range")

	// ErrEmptyTrace indicates a generator produced no steps.
	ErrEmptyTrace = errors.New("trace: trace has no steps")

	// ErrUnknownKind indicates a step kind outside the generator's vocabulary.
	ErrUnknownKind = errors.New("trace: step kind not in vocabulary")

	// ErrSealed indicates a record attempt after the trace was built.
	ErrSealed = errors.New("trace: builder already sealed")

	// ErrUnsupportedValue indicates a payload value that cannot be copied safely.
	ErrUnsupportedValue = errors.New("trace: unsupported payload value")
)

// IndexError wraps ErrIndexOutOfRange with the offending index.
type IndexError struct {
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d, length %d", ErrIndexOutOfRange, e.Index, e.Length)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
