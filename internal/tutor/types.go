// Package tutor is the boundary to the question-answering backend: the
// request and response shapes, the HTTP handler serving them, and a
// client that turns failures into messages a presenter can show.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotConfigured = errors.New("tutor: no answerer configured")
	ErrMissingFields = errors.New("tutor: missing question or algorithm")
)

// Request is the body of POST /ask. Message and Algorithm are accepted
// as aliases for Question and AlgorithmName.
type Request struct {
	Question      string `json:"question,omitempty"`
	AlgorithmName string `json:"algorithmName,omitempty"`
	Message       string `json:"message,omitempty"`
	Algorithm     string `json:"algorithm,omitempty"`
}

// Normalize folds the aliases and trims whitespace.
func (r Request) Normalize() (question, algorithm string, err error) {
	question = strings.TrimSpace(firstNonEmpty(r.Question, r.Message))
	algorithm = strings.TrimSpace(firstNonEmpty(r.AlgorithmName, r.Algorithm))
	if question == "" || algorithm == "" {
		return "", "", ErrMissingFields
	}
	return question, algorithm, nil
}

type Response struct {
	Answer string `json:"answer"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Answerer produces an answer about one algorithm.
type Answerer interface {
	Answer(ctx context.Context, algorithm, question string) (string, error)
}

type AnswererFunc func(ctx context.Context, algorithm, question string) (string, error)

func (f AnswererFunc) Answer(ctx context.Context, algorithm, question string) (string, error) {
	return f(ctx, algorithm, question)
}

// Unavailable answers nothing and reports ErrNotConfigured.
type Unavailable struct{}

func (Unavailable) Answer(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}

// UpstreamError is a non-success reply from the backend.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tutor: upstream responded with %d", e.Status)
	}
	return fmt.Sprintf("tutor: upstream responded with %d: %s", e.Status, e.Message)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
