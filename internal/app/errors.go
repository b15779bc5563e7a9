package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrDuplicateOutcome marks an outcome id that was already rated.
	ErrDuplicateOutcome = errors.New("outcome already rated")

	// ErrNotStarted marks use of a service before Start.
	ErrNotStarted = errors.New("service not started")
)
