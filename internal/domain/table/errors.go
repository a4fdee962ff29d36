package table

import "errors"

// Sentinel kinds for table errors.
var (
	ErrNoRounds    = errors.New("no rounds provided for handicap table")
	ErrNoHandicaps = errors.New("no handicaps provided for handicap table")
	ErrInvalidGrid = errors.New("invalid handicap grid")
	ErrTooManyRows = errors.New("table exceeds the row limit")
)
