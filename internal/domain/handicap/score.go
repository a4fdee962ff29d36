package handicap

import (
	"fmt"
	"math"

	"github.com/okian/archery-handicaps/internal/domain/round"
	"github.com/okian/archery-handicaps/internal/domain/target"
	"github.com/okian/archery-handicaps/pkg/metrics"
)

// arrowScore is the expected score of one arrow. The target must already be
// validated and arrowDiameter resolved.
//
// Each ring boundary contributes its score drop weighted by the probability
// of landing outside it, exp(-((r_arrow + r_ring)/sigma_r)^2).
func (s *Scheme) arrowScore(h float64, t target.Target, arrowDiameter float64) float64 {
	sigR := s.SigmaRAt(h, t.Distance)
	arrowRadius := arrowDiameter / 2
	var lost float64
	t.Face.Each(func(r target.Ring, drop float64) {
		x := (arrowRadius + r.Diameter/2) / sigR
		lost += drop * math.Exp(-x*x)
	})
	return t.Face.MaxScore() - lost
}

func (s *Scheme) resolveDiameter(t target.Target, arrowDiameter float64) float64 {
	if arrowDiameter > 0 {
		return arrowDiameter
	}
	return s.ArrowDiameter(t.Indoor)
}

func checkTarget(t target.Target) error {
	if t.Face.Len() == 0 {
		return ErrEmptyFace
	}
	if t.Distance <= 0 {
		return fmt.Errorf("%w: distance=%g", target.ErrInvalidDimension, t.Distance)
	}
	return nil
}

// ArrowScoreAt returns the expected score of a single arrow at handicap h.
// An arrowDiameter of zero or less selects the scheme default for the
// target's venue.
func (s *Scheme) ArrowScoreAt(h float64, t target.Target, arrowDiameter float64) (float64, error) {
	out, err := s.ArrowScore([]float64{h}, t, arrowDiameter)
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// ArrowScore returns the expected single-arrow score for each handicap.
func (s *Scheme) ArrowScore(handicaps []float64, t target.Target, arrowDiameter float64) ([]float64, error) {
	if err := checkTarget(t); err != nil {
		return nil, err
	}
	arw := s.resolveDiameter(t, arrowDiameter)
	out := make([]float64, len(handicaps))
	for i, h := range handicaps {
		out[i] = s.arrowScore(h, t, arw)
	}
	return out, nil
}

// ScoreForPasses returns the expected score of every pass, one row per pass
// and one column per handicap. Each pass is rounded on its own when rounded
// is set, so rows need not sum to the rounded round score.
func (s *Scheme) ScoreForPasses(handicaps []float64, rnd round.Round, arrowDiameter float64, rounded bool) ([][]float64, error) {
	if err := validRound(rnd); err != nil {
		return nil, err
	}
	rows := make([][]float64, len(rnd.Passes))
	for i, p := range rnd.Passes {
		arw := s.resolveDiameter(p.Target, arrowDiameter)
		row := make([]float64, len(handicaps))
		for j, h := range handicaps {
			v := float64(p.Arrows) * s.arrowScore(h, p.Target, arw)
			if rounded {
				v = s.RoundScore(v)
			}
			row[j] = v
		}
		rows[i] = row
	}
	return rows, nil
}

// ScoreForRound returns the expected round score for each handicap. Rounding
// is applied to the round total only.
func (s *Scheme) ScoreForRound(handicaps []float64, rnd round.Round, arrowDiameter float64, rounded bool) ([]float64, error) {
	if err := validRound(rnd); err != nil {
		return nil, err
	}
	metrics.RecordRoundEvaluation(s.Name)
	out := make([]float64, len(handicaps))
	for i, h := range handicaps {
		v := s.roundScore(h, rnd, arrowDiameter)
		if rounded {
			v = s.RoundScore(v)
		}
		out[i] = v
	}
	return out, nil
}

// ScoreForRoundAt returns the expected round score at one handicap.
func (s *Scheme) ScoreForRoundAt(h float64, rnd round.Round, arrowDiameter float64, rounded bool) (float64, error) {
	out, err := s.ScoreForRound([]float64{h}, rnd, arrowDiameter, rounded)
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// roundScore is the unrounded round total for a validated round.
func (s *Scheme) roundScore(h float64, rnd round.Round, arrowDiameter float64) float64 {
	var total float64
	for _, p := range rnd.Passes {
		total += float64(p.Arrows) * s.arrowScore(h, p.Target, s.resolveDiameter(p.Target, arrowDiameter))
	}
	return total
}

func (s *Scheme) roundedRoundScore(h float64, rnd round.Round, arrowDiameter float64) float64 {
	return s.RoundScore(s.roundScore(h, rnd, arrowDiameter))
}

func validRound(rnd round.Round) error {
	if len(rnd.Passes) == 0 {
		return fmt.Errorf("%w: %s", round.ErrNoPasses, rnd.Name)
	}
	for _, p := range rnd.Passes {
		if err := checkTarget(p.Target); err != nil {
			return fmt.Errorf("%s: %w", rnd.Name, err)
		}
	}
	return nil
}
