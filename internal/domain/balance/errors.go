package balance

import "errors"

// Sentinel kinds for balancing errors.
var (
	// ErrRosterIncomplete marks a roster whose size does not match the
	// game type's required count.
	ErrRosterIncomplete = errors.New("roster incomplete")

	// ErrInvalidRoster marks structural roster problems: duplicate
	// players or an unknown game type.
	ErrInvalidRoster = errors.New("invalid roster")
)
