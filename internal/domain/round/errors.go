package round

import "errors"

// Sentinel errors for round validation.
var (
	ErrMissingName   = errors.New("round has no name")
	ErrNoPasses      = errors.New("round has no passes")
	ErrInvalidArrows = errors.New("arrow count must be positive")
)
