package target

import "errors"

// Sentinel errors for target construction.
var (
	ErrUnknownSystem    = errors.New("unknown scoring system")
	ErrUnknownUnit      = errors.New("unknown length unit")
	ErrEmptyFace        = errors.New("face spec has no rings")
	ErrInvalidFace      = errors.New("invalid face spec")
	ErrInvalidDimension = errors.New("diameter and distance must be positive")
)
