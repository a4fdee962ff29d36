package handicap

import (
	"errors"
	"fmt"

	"github.com/okian/archery-handicaps/internal/domain/target"
)

// Sentinel errors returned by the engine.
var (
	ErrEmptyFace       = target.ErrEmptyFace
	ErrUnknownScheme   = errors.New("unknown handicap scheme")
	ErrInvalidParams   = errors.New("invalid scheme parameters")
	ErrScoreOutOfRange = errors.New("score out of range")

	// ErrNotBracketed and ErrNoConvergence indicate a defect in the scheme
	// bounds or the root finder, never bad user input.
	ErrNotBracketed  = errors.New("root not bracketed by scheme bounds")
	ErrNoConvergence = errors.New("root finder did not converge")
)

// ScoreRangeError reports a score that cannot be achieved on a round.
type ScoreRangeError struct {
	Score float64
	Max   float64
	Round string
}

func (e *ScoreRangeError) Error() string {
	return fmt.Sprintf("score %g is not valid for %s: must be in (0, %g]", e.Score, e.Round, e.Max)
}

// Unwrap lets errors.Is match ErrScoreOutOfRange.
func (e *ScoreRangeError) Unwrap() error { return ErrScoreOutOfRange }
