// Package repository holds the round catalogue: an in-memory store of round
// definitions and the YAML loader that fills it.
package repository

import (
	"context"

	"github.com/okian/archery-handicaps/internal/domain/round"
)

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	Location string
	Body     string
	Family   string
}

func (f Filter) match(r round.Round) bool {
	return (f.Location == "" || f.Location == r.Location) &&
		(f.Body == "" || f.Body == r.Body) &&
		(f.Family == "" || f.Family == r.Family)
}

// Store provides access to round definitions.
type Store interface {
	// Get returns the round with the given codename.
	// Returns ErrNotFound if the codename is unknown.
	Get(ctx context.Context, codename string) (round.Round, error)

	// Put adds or replaces a round keyed by its codename.
	Put(ctx context.Context, r round.Round) error

	// List returns the rounds matching f, ordered by codename.
	List(ctx context.Context, f Filter) ([]round.Round, error)

	// Count returns the number of rounds held.
	Count(ctx context.Context) int
}
