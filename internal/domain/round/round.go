// Package round models archery rounds as ordered passes over targets.
package round

import (
	"fmt"
	"strings"

	"github.com/okian/archery-handicaps/internal/domain/target"
)

// Location values.
const (
	Indoor  = "indoor"
	Outdoor = "outdoor"
	Field   = "field"
)

// Pass is a block of arrows shot at a single target.
type Pass struct {
	Arrows int
	Target target.Target
}

// NewPass builds a pass, rejecting non-positive arrow counts.
func NewPass(arrows int, tgt target.Target) (Pass, error) {
	if arrows <= 0 {
		return Pass{}, fmt.Errorf("%w: %d", ErrInvalidArrows, arrows)
	}
	return Pass{Arrows: arrows, Target: tgt}, nil
}

// MaxScore returns the best possible score for the pass.
func (p Pass) MaxScore() float64 {
	return float64(p.Arrows) * p.Target.MaxScore()
}

// Round is a named, ordered sequence of passes.
type Round struct {
	Codename string
	Name     string
	Location string
	Body     string
	Family   string
	Passes   []Pass
}

// MaxScore returns the best possible score for the round.
func (r Round) MaxScore() float64 {
	var total float64
	for _, p := range r.Passes {
		total += p.MaxScore()
	}
	return total
}

// MaxDistance returns the longest distance shot, in metres.
func (r Round) MaxDistance() float64 {
	var d float64
	for _, p := range r.Passes {
		if p.Target.Distance > d {
			d = p.Target.Distance
		}
	}
	return d
}

// Arrows returns the total arrow count.
func (r Round) Arrows() int {
	n := 0
	for _, p := range r.Passes {
		n += p.Arrows
	}
	return n
}

// Validate checks the round can be scored.
func (r Round) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if len(r.Passes) == 0 {
		return fmt.Errorf("%w: %s", ErrNoPasses, r.Name)
	}
	for i, p := range r.Passes {
		if p.Arrows <= 0 {
			return fmt.Errorf("%w: pass %d of %s has %d arrows", ErrInvalidArrows, i+1, r.Name, p.Arrows)
		}
		if p.Target.Face.Len() == 0 {
			return fmt.Errorf("pass %d of %s: %w", i+1, r.Name, target.ErrEmptyFace)
		}
		if p.Target.Distance <= 0 {
			return fmt.Errorf("pass %d of %s: %w", i+1, r.Name, target.ErrInvalidDimension)
		}
	}
	return nil
}

// String renders the round as its name.
func (r Round) String() string { return r.Name }
