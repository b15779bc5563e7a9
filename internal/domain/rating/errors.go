package rating

import "errors"

// Sentinel kinds for rating errors.
var (
	// ErrInvalidOutcome marks an outcome that cannot be rated: tied
	// scores, an empty side, or an unknown game type.
	ErrInvalidOutcome = errors.New("invalid outcome")

	// ErrUnknownPlayer marks an outcome referencing a player the caller
	// supplied no state for.
	ErrUnknownPlayer = errors.New("unknown player")
)
