package handicap

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/okian/archery-handicaps/internal/domain/round"
	"github.com/okian/archery-handicaps/pkg/logger"
	"github.com/okian/archery-handicaps/pkg/metrics"
)

// Step sizes used to walk down from the best bound for a maximum score.
var maxScoreSteps = []float64{1.0, 0.01, 0.0001}

type invertConfig struct {
	arrowDiameter float64
	intPrec       bool
}

// InvertOption configures HandicapFromScore.
type InvertOption func(*invertConfig)

// WithArrowDiameter sets the arrow diameter in metres; zero or less keeps
// the scheme default.
func WithArrowDiameter(d float64) InvertOption {
	return func(c *invertConfig) {
		c.arrowDiameter = d
	}
}

// WithIntegerPrecision returns whole-number handicaps as used in printed
// tables.
func WithIntegerPrecision() InvertOption {
	return func(c *invertConfig) {
		c.intPrec = true
	}
}

// HandicapFromScore returns the handicap that corresponds to score on rnd.
//
// A maximum score has no unique handicap; the best handicap that still
// rounds to the maximum is returned instead. With integer precision the
// result is the whole handicap on the worse side of the continuous one,
// extended towards worse archers while the rounded score still reaches
// score.
func (s *Scheme) HandicapFromScore(ctx context.Context, score float64, rnd round.Round, opts ...InvertOption) (float64, error) {
	cfg := invertConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validRound(rnd); err != nil {
		return 0, err
	}

	maxScore := rnd.MaxScore()
	if score <= 0 || score > maxScore || math.IsNaN(score) {
		return 0, &ScoreRangeError{Score: score, Max: maxScore, Round: rnd.Name}
	}

	if score == maxScore {
		h, err := s.maxScoreHandicap(ctx, rnd, cfg)
		if err != nil {
			return 0, err
		}
		metrics.RecordInversion(s.Name, metrics.RegimeMaxScore)
		return h, nil
	}

	f := func(h float64) float64 {
		return s.roundScore(h, rnd, cfg.arrowDiameter) - score
	}
	res, err := brentRoot(ctx, f, s.Bounds[0], s.Bounds[1])
	if err != nil {
		switch {
		case errors.Is(err, ErrNotBracketed):
			metrics.RecordRootFindFailure(s.Name, "not_bracketed")
		case errors.Is(err, ErrNoConvergence):
			metrics.RecordRootFindFailure(s.Name, "no_convergence")
			s.log.Error(ctx, "root finder did not converge",
				logger.String("scheme", s.Name),
				logger.String("round", rnd.Name),
				logger.Float64("score", score),
				logger.Float64("residual", res.residual))
		}
		return 0, fmt.Errorf("%s on %s for score %g: %w", s.Name, rnd.Name, score, err)
	}
	metrics.RecordRootFindIterations(s.Name, res.iterations)
	if !res.converged {
		s.log.Debug(ctx, "root finder reached its iteration cap; accepting residual",
			logger.String("scheme", s.Name),
			logger.String("round", rnd.Name),
			logger.Float64("score", score),
			logger.Float64("residual", res.residual))
	}
	metrics.RecordInversion(s.Name, metrics.RegimeRootFind)

	if !cfg.intPrec {
		return res.root, nil
	}
	return s.integerHandicap(ctx, res.root, score, rnd, cfg.arrowDiameter)
}

// integerHandicap moves a continuous handicap to the nearest whole handicap
// on its worse side, then walks towards worse archers while the rounded
// score still reaches score. The worse-side neighbour is confirmed with
// direct score evaluations, so a root residual cannot push it across a
// whole number.
func (s *Scheme) integerHandicap(ctx context.Context, h, score float64, rnd round.Round, arrowDiameter float64) (float64, error) {
	if s.Direction == Descending {
		h = math.Ceil(h)
	} else {
		h = math.Floor(h)
	}
	step := s.worse()

	for s.inBounds(h-step) && s.roundScore(h-step, rnd, arrowDiameter) <= score {
		h -= step
	}
	for s.inBounds(h+step) && s.roundScore(h, rnd, arrowDiameter) > score {
		h += step
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		next := h + step
		if !s.inBounds(next) {
			break
		}
		if s.roundedRoundScore(next, rnd, arrowDiameter) < score {
			break
		}
		h = next
	}
	return h, nil
}

// maxScoreHandicap walks from the best bound towards worse handicaps with
// successively finer steps, stopping at the last handicap whose continuous
// score is still within the rounding margin of the maximum.
func (s *Scheme) maxScoreHandicap(ctx context.Context, rnd round.Round, cfg invertConfig) (float64, error) {
	threshold := rnd.MaxScore() - s.RoundingMargin
	h := s.best()
	for _, size := range maxScoreSteps {
		d := size * s.worse()
		for {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			next := h + d
			if !s.inBounds(next) || s.roundScore(next, rnd, cfg.arrowDiameter) <= threshold {
				break
			}
			h = next
		}
	}

	if cfg.intPrec {
		if s.Direction == Descending {
			return math.Floor(h), nil
		}
		return math.Ceil(h), nil
	}

	s.log.Warn(ctx, "handicap requested for maximum score without integer precision; "+
		"returning the first handicap that achieves it",
		logger.String("scheme", s.Name),
		logger.String("round", rnd.Name),
		logger.Float64("handicap", h))
	metrics.RecordBoundaryWarning(s.Name)
	return h, nil
}

// ValidateBounds reports whether every whole score from 1 to the maximum on
// rnd can be inverted within the scheme bounds.
func (s *Scheme) ValidateBounds(rnd round.Round, arrowDiameter float64) error {
	if err := validRound(rnd); err != nil {
		return err
	}
	best := s.roundScore(s.best(), rnd, arrowDiameter)
	worst := s.roundScore(s.worst(), rnd, arrowDiameter)
	if best <= rnd.MaxScore()-s.RoundingMargin || worst >= 1 {
		return fmt.Errorf("%w: %s on %s scores %g..%g over %v", ErrNotBracketed,
			s.Name, rnd.Name, worst, best, s.Bounds)
	}
	return nil
}
