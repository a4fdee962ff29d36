package repository

import "errors"

// Sentinel kinds for catalogue errors.
var (
	ErrNotFound        = errors.New("round not found")
	ErrMissingCodename = errors.New("round has no codename")
	ErrInvalidRound    = errors.New("invalid round definition")
)
