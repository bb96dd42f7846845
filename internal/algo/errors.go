package algo

import "errors"

var (
	// ErrInvalidInput indicates input a generator cannot run on.
	ErrInvalidInput = errors.New("algo: invalid input")

	// ErrSearchBudget indicates a search recorded more steps than allowed.
	ErrSearchBudget = errors.New("algo: search exceeded step budget")
)
