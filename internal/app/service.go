// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	repository "github.com/okian/archery-handicaps/internal/adapters/repository"
	"github.com/okian/archery-handicaps/internal/domain/handicap"
	"github.com/okian/archery-handicaps/internal/domain/round"
	"github.com/okian/archery-handicaps/internal/domain/table"
	"github.com/okian/archery-handicaps/internal/domain/target"
	"github.com/okian/archery-handicaps/internal/domain/types"
	"github.com/okian/archery-handicaps/pkg/logger"
	"github.com/okian/archery-handicaps/pkg/metrics"
)

// Service answers scoring, inversion and table queries against the round
// catalogue.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalogue repository.Store
	schemes   map[string]*handicap.Scheme

	// Configuration
	defaultScheme string
	arrowDiameter float64
	roundsFiles   []string
	tableWorkers  int
	maxTableRows  int
	gridMin       float64
	gridMax       float64
	gridStep      float64
	rounded       bool
	intPrec       bool
	cleanGaps     bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalogue supplies a ready round store instead of loading the bundled
// catalogue on Start.
func WithCatalogue(store repository.Store) Option {
	return func(s *Service) {
		s.catalogue = store
	}
}

// WithRoundsFile adds a round definition file loaded on top of the bundled
// catalogue.
func WithRoundsFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.roundsFiles = append(s.roundsFiles, path)
		}
	}
}

// WithDefaultScheme sets the scheme used when a request names none.
func WithDefaultScheme(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.defaultScheme = name
		}
	}
}

// WithArrowDiameter sets the default arrow diameter in metres. Zero keeps
// each scheme's own default.
func WithArrowDiameter(d float64) Option {
	return func(s *Service) {
		if d >= 0 {
			s.arrowDiameter = d
		}
	}
}

// WithTableWorkers bounds how many round columns are computed concurrently.
func WithTableWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.tableWorkers = n
		}
	}
}

// WithMaxTableRows caps the number of handicap rows a table may have.
func WithMaxTableRows(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTableRows = n
		}
	}
}

// WithTableGrid sets the default handicap grid for tables.
func WithTableGrid(min, max, step float64) Option {
	return func(s *Service) {
		if step > 0 && max >= min {
			s.gridMin, s.gridMax, s.gridStep = min, max, step
		}
	}
}

// WithTableFlags sets the default table flags.
func WithTableFlags(rounded, intPrec, cleanGaps bool) Option {
	return func(s *Service) {
		s.rounded, s.intPrec, s.cleanGaps = rounded, intPrec, cleanGaps
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultScheme: handicap.AGB,
		tableWorkers:  table.DefaultWorkers,
		maxTableRows:  5000,
		gridMin:       0,
		gridMax:       150,
		gridStep:      1,
		rounded:       true,
		intPrec:       true,
		cleanGaps:     true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the schemes and loads the round catalogue.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting handicap service...")

	schemes := make(map[string]*handicap.Scheme, len(handicap.Names()))
	for _, name := range handicap.Names() {
		sch, err := handicap.ByName(name, handicap.WithLogger(s.logger.Named("handicap")))
		if err != nil {
			return fmt.Errorf("build scheme %s: %w", name, err)
		}
		schemes[name] = sch
	}
	if _, ok := schemes[s.defaultScheme]; !ok {
		return fmt.Errorf("default scheme: %w: %q", handicap.ErrUnknownScheme, s.defaultScheme)
	}
	s.schemes = schemes

	if s.catalogue == nil {
		ld := repository.NewLoader(repository.WithLoaderLogger(s.logger.Named("catalogue")))
		store, err := repository.NewCatalogue(ctx, ld, s.roundsFiles)
		if err != nil {
			return fmt.Errorf("load round catalogue: %w", err)
		}
		s.catalogue = store
	}

	s.started = true
	s.logger.Info(ctx, "handicap service started",
		logger.String("defaultScheme", s.defaultScheme),
		logger.Int("rounds", s.catalogue.Count(ctx)),
		logger.Int("tableWorkers", s.tableWorkers),
	)

	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "handicap service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Scheme returns the named scheme; an empty name selects the default.
func (s *Service) Scheme(name string) (*handicap.Scheme, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if name == "" {
		name = s.defaultScheme
	}
	sch, ok := s.schemes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q, select from %v", handicap.ErrUnknownScheme, name, handicap.Names())
	}
	return sch, nil
}

// Schemes describes every supported scheme.
func (s *Service) Schemes() []types.SchemeSummary {
	out := make([]types.SchemeSummary, 0, len(handicap.Names()))
	for _, name := range handicap.Names() {
		sch, err := s.Scheme(name)
		if err != nil {
			continue
		}
		out = append(out, types.SchemeSummary{
			Name:                 sch.Name,
			Direction:            sch.Direction.String(),
			Bounds:               sch.Bounds,
			ArrowDiameterIndoor:  sch.ArrowDiameterIndoor,
			ArrowDiameterOutdoor: sch.ArrowDiameterOutdoor,
			Params:               sch.Params(),
		})
	}
	return out
}

// Round returns a catalogue round by codename.
func (s *Service) Round(ctx context.Context, codename string) (round.Round, error) {
	if err := s.ready(); err != nil {
		return round.Round{}, err
	}
	return s.catalogue.Get(ctx, codename)
}

// RoundSummary returns the display shape of a catalogue round.
func (s *Service) RoundSummary(ctx context.Context, codename string) (types.RoundSummary, error) {
	r, err := s.Round(ctx, codename)
	if err != nil {
		return types.RoundSummary{}, err
	}
	return Summarize(r), nil
}

// Rounds lists catalogue rounds matching f.
func (s *Service) Rounds(ctx context.Context, f repository.Filter) ([]types.RoundSummary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rounds, err := s.catalogue.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]types.RoundSummary, 0, len(rounds))
	for _, r := range rounds {
		out = append(out, Summarize(r))
	}
	return out, nil
}

// Summarize converts a round into its display shape, quoting distances in
// their native unit.
func Summarize(r round.Round) types.RoundSummary {
	passes := make([]types.PassSummary, 0, len(r.Passes))
	for _, p := range r.Passes {
		unit := p.Target.NativeUnit
		if unit == "" {
			unit = target.Metre
		}
		passes = append(passes, types.PassSummary{
			Arrows:       p.Arrows,
			Scoring:      string(p.Target.System),
			DiameterCM:   roundTo(target.FromMetres(p.Target.Diameter, target.Centimetre), 6),
			Distance:     roundTo(target.FromMetres(p.Target.Distance, unit), 6),
			DistanceUnit: string(unit),
			MaxScore:     p.MaxScore(),
		})
	}
	return types.RoundSummary{
		Codename: r.Codename,
		Name:     r.Name,
		Location: r.Location,
		Body:     r.Body,
		Family:   r.Family,
		MaxScore: r.MaxScore(),
		Arrows:   r.Arrows(),
		Passes:   passes,
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func (s *Service) arrow(requested float64) float64 {
	if requested > 0 {
		return requested
	}
	return s.arrowDiameter
}

// Score computes expected scores for each requested handicap.
func (s *Service) Score(ctx context.Context, req types.ScoreRequest) (types.ScoreResult, error) {
	if err := req.Validate(); err != nil {
		return types.ScoreResult{}, err
	}
	sch, err := s.Scheme(req.Scheme)
	if err != nil {
		return types.ScoreResult{}, err
	}
	rnd, err := s.Round(ctx, req.Round)
	if err != nil {
		return types.ScoreResult{}, err
	}

	rounded := types.BoolOr(req.Rounded, true)
	arw := s.arrow(req.ArrowDiameter)
	scores, err := sch.ScoreForRound(req.Handicaps, rnd, arw, rounded)
	if err != nil {
		return types.ScoreResult{}, err
	}
	res := types.ScoreResult{
		Scheme:    sch.Name,
		Round:     rnd.Codename,
		MaxScore:  rnd.MaxScore(),
		Handicaps: req.Handicaps,
		Scores:    scores,
	}
	if req.PerPass {
		if res.PassScores, err = sch.ScoreForPasses(req.Handicaps, rnd, arw, rounded); err != nil {
			return types.ScoreResult{}, err
		}
	}
	return res, nil
}

// Handicap inverts a score on a catalogue round.
func (s *Service) Handicap(ctx context.Context, req types.HandicapRequest) (types.HandicapResult, error) {
	if err := req.Validate(); err != nil {
		return types.HandicapResult{}, err
	}
	sch, err := s.Scheme(req.Scheme)
	if err != nil {
		return types.HandicapResult{}, err
	}
	rnd, err := s.Round(ctx, req.Round)
	if err != nil {
		return types.HandicapResult{}, err
	}

	intPrec := types.BoolOr(req.IntPrec, true)
	opts := []handicap.InvertOption{handicap.WithArrowDiameter(s.arrow(req.ArrowDiameter))}
	if intPrec {
		opts = append(opts, handicap.WithIntegerPrecision())
	}
	h, err := sch.HandicapFromScore(ctx, req.Score, rnd, opts...)
	if err != nil {
		return types.HandicapResult{}, err
	}
	return types.HandicapResult{
		Scheme:   sch.Name,
		Round:    rnd.Codename,
		Score:    req.Score,
		Handicap: h,
		IntPrec:  intPrec,
	}, nil
}

// Table builds a handicap table over catalogue rounds.
func (s *Service) Table(ctx context.Context, req types.TableRequest) (*table.Table, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sch, err := s.Scheme(req.Scheme)
	if err != nil {
		return nil, err
	}

	rounds := make([]round.Round, 0, len(req.Rounds))
	for _, code := range req.Rounds {
		rnd, err := s.Round(ctx, code)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, rnd)
	}

	hcs := req.Handicaps
	if len(hcs) == 0 {
		hcs, err = table.Grid(floatOr(req.Min, s.gridMin), floatOr(req.Max, s.gridMax), floatOr(req.Step, s.gridStep), s.maxTableRows)
		if err != nil {
			return nil, err
		}
	}
	if len(hcs) > s.maxTableRows {
		return nil, fmt.Errorf("%w: %d rows requested, limit is %d", table.ErrTooManyRows, len(hcs), s.maxTableRows)
	}

	return table.Build(ctx, sch, hcs, rounds,
		table.WithRounded(types.BoolOr(req.Rounded, s.rounded)),
		table.WithIntegerPrecision(types.BoolOr(req.IntPrec, s.intPrec)),
		table.WithCleanGaps(types.BoolOr(req.CleanGaps, s.cleanGaps)),
		table.WithArrowDiameter(s.arrow(req.ArrowDiameter)),
		table.WithWorkers(s.tableWorkers),
		table.WithLogger(s.logger.Named("table")),
	)
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"defaultScheme": s.defaultScheme,
		"schemes":       handicap.Names(),
		"tableWorkers":  s.tableWorkers,
		"maxTableRows":  s.maxTableRows,
	}

	if s.started {
		stats["rounds"] = s.catalogue.Count(context.Background())

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		metrics.UpdateSystemMemoryUsage(mem.Alloc)
		metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	}

	return stats
}
