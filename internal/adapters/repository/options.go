package repository

import (
	"github.com/okian/archery-handicaps/internal/domain/round"
	"github.com/okian/archery-handicaps/pkg/logger"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithRoundCheck runs check on every round before it is stored, in addition
// to round.Validate. Used to reject rounds a handicap scheme cannot invert.
func WithRoundCheck(check func(round.Round) error) Option {
	return func(s *MemoryStore) {
		if check != nil {
			s.checks = append(s.checks, check)
		}
	}
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger sets the logger used for definition warnings.
func WithLoaderLogger(l logger.Logger) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.log = l
		}
	}
}
