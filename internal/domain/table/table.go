// Package table builds printed handicap tables: expected round scores for a
// list of handicaps across a list of rounds.
package table

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/archery-handicaps/internal/domain/handicap"
	"github.com/okian/archery-handicaps/internal/domain/round"
	"github.com/okian/archery-handicaps/pkg/logger"
	"github.com/okian/archery-handicaps/pkg/metrics"
)

// Defaults for table building.
const (
	DefaultWorkers = 4
	gridPrecision  = 1e9
	maxGridRows    = 1 << 20
)

// Table holds one row per handicap and one column per round. Blank cells
// (repeated scores removed by gap cleaning) are NaN.
type Table struct {
	Scheme    string
	Handicaps []float64
	Rounds    []string
	Scores    [][]float64
	IntPrec   bool
	Rounded   bool
}

type config struct {
	rounded       bool
	intPrec       bool
	cleanGaps     bool
	arrowDiameter float64
	workers       int
	log           logger.Logger
}

// Option configures Build.
type Option func(*config)

// WithRounded selects rounded round scores.
func WithRounded(v bool) Option {
	return func(c *config) { c.rounded = v }
}

// WithIntegerPrecision truncates scores to whole numbers.
func WithIntegerPrecision(v bool) Option {
	return func(c *config) { c.intPrec = v }
}

// WithCleanGaps blanks repeated scores so each score appears once, against
// the worst handicap that achieves it.
func WithCleanGaps(v bool) Option {
	return func(c *config) { c.cleanGaps = v }
}

// WithArrowDiameter overrides the scheme arrow diameter, in metres.
func WithArrowDiameter(d float64) Option {
	return func(c *config) { c.arrowDiameter = d }
}

// WithWorkers bounds how many round columns are computed concurrently.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger used for option warnings.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// Build computes a handicap table.
func Build(ctx context.Context, s *handicap.Scheme, handicaps []float64, rounds []round.Round, opts ...Option) (*Table, error) {
	cfg := config{
		rounded:   true,
		intPrec:   true,
		cleanGaps: true,
		workers:   DefaultWorkers,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(rounds) == 0 {
		return nil, ErrNoRounds
	}
	if len(handicaps) == 0 {
		return nil, ErrNoHandicaps
	}
	if cfg.rounded && !cfg.intPrec {
		cfg.log.Warn(ctx, "rounded scores requested without integer precision; using integer precision",
			logger.String("scheme", s.Name))
		cfg.intPrec = true
	}

	start := time.Now()
	hcs := handicaps
	if cfg.cleanGaps {
		hcs = withSentinels(handicaps)
	}

	cols := make([][]float64, len(rounds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for j, rnd := range rounds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			col, err := s.ScoreForRound(hcs, rnd, cfg.arrowDiameter, cfg.rounded)
			if err != nil {
				return fmt.Errorf("round %s: %w", rnd.Name, err)
			}
			if cfg.intPrec {
				for i := range col {
					col[i] = math.Trunc(col[i])
				}
			}
			cols[j] = col
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores := make([][]float64, len(hcs))
	for i := range hcs {
		row := make([]float64, len(rounds))
		for j := range rounds {
			row[j] = cols[j][i]
		}
		scores[i] = row
	}

	t := &Table{
		Scheme:    s.Name,
		Handicaps: hcs,
		Scores:    scores,
		IntPrec:   cfg.intPrec,
		Rounded:   cfg.rounded,
	}
	for _, rnd := range rounds {
		t.Rounds = append(t.Rounds, rnd.Name)
	}
	if cfg.cleanGaps {
		t.cleanRepeated(s.Direction)
		t.Handicaps = t.Handicaps[1 : len(t.Handicaps)-1]
		t.Scores = t.Scores[1 : len(t.Scores)-1]
	}

	metrics.RecordTableBuild(s.Name, len(t.Handicaps)*len(rounds), float64(time.Since(start).Microseconds())/1000)
	return t, nil
}

// withSentinels adds one extra handicap at each end so repeats at the edges
// of the requested range are caught.
func withSentinels(hcs []float64) []float64 {
	startStep, endStep := 1.0, 1.0
	if n := len(hcs); n > 1 {
		startStep = hcs[1] - hcs[0]
		endStep = hcs[n-1] - hcs[n-2]
	}
	out := make([]float64, 0, len(hcs)+2)
	out = append(out, hcs[0]-startStep)
	out = append(out, hcs...)
	return append(out, hcs[len(hcs)-1]+endStep)
}

// cleanRepeated blanks a score when the next weaker handicap scores the
// same, leaving each score against the weakest handicap that achieves it.
func (t *Table) cleanRepeated(dir handicap.Direction) {
	n := len(t.Scores)
	row := func(i int) []float64 {
		if dir == handicap.Ascending {
			return t.Scores[n-1-i]
		}
		return t.Scores[i]
	}
	for i := 0; i < n-1; i++ {
		cur, next := row(i), row(i+1)
		for j := range cur {
			if cur[j] == next[j] {
				cur[j] = math.NaN()
			}
		}
	}
}

// Grid returns handicaps from min to max inclusive in steps of step. The row
// count is checked against limit before anything is allocated; a limit of
// zero or less only applies the hard ceiling of maxGridRows.
func Grid(min, max, step float64, limit int) ([]float64, error) {
	if step <= 0 || max < min || !finite(min, max, step) {
		return nil, fmt.Errorf("%w: min=%g max=%g step=%g", ErrInvalidGrid, min, max, step)
	}
	if limit <= 0 || limit > maxGridRows {
		limit = maxGridRows
	}
	rows := math.Floor((max-min)/step+1e-9) + 1
	if rows > float64(limit) {
		return nil, fmt.Errorf("%w: %.0f rows requested, limit is %d", ErrTooManyRows, rows, limit)
	}
	out := make([]float64, int(rows))
	for i := range out {
		out[i] = math.Round((min+float64(i)*step)*gridPrecision) / gridPrecision
	}
	return out, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
