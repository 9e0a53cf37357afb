package domain

import "errors"

// Sentinel errors shared across handlers, services and repositories.
// Insufficient history is deliberately not an error: the engine degrades to
// zero-demand plans and absent accuracy instead.
var (
	ErrInvalidRequest = errors.New("months and review_days must be positive")
	ErrNotFound       = errors.New("product not found")
	ErrInconsistency  = errors.New("internal inconsistency in plan computation")
)
