// Package handicap implements the archery handicap schemes: the expected
// score model, round aggregation and the inversion from score to handicap.
package handicap

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/okian/archery-handicaps/pkg/logger"
)

var validate = validator.New()

// Direction is the sense of a handicap scale.
type Direction int

const (
	// Descending scales give better archers lower handicaps (AGB, AGBold).
	Descending Direction = iota
	// Ascending scales give better archers higher handicaps (AA, AA2).
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "ascending"
	}
	return "descending"
}

// Rounding is how a continuous round score becomes an integer.
type Rounding int

const (
	// RoundNearest rounds half to even.
	RoundNearest Rounding = iota
	// RoundCeil always rounds up.
	RoundCeil
)

// Scheme names.
const (
	AGB    = "AGB"
	AGBOld = "AGBold"
	AA     = "AA"
	AA2    = "AA2"
)

// Search intervals covering every practically achievable handicap.
var (
	descendingBounds = [2]float64{-75, 300}
	ascendingBounds  = [2]float64{-250, 175}
)

// deviationModel is the per-scheme angular deviation. It is implemented by
// AGBParams, AGBOldParams, AAParams and AA2Params only.
type deviationModel interface {
	sigmaT(handicap, distance float64) float64
	params() map[string]float64
}

// Scheme is a named handicap scale together with its scale-wide policy.
// All scoring and inversion logic is shared; only the deviation model
// differs between schemes.
type Scheme struct {
	Name                 string
	ArrowDiameterIndoor  float64
	ArrowDiameterOutdoor float64
	Direction            Direction
	Bounds               [2]float64
	RoundingMargin       float64
	Rounding             Rounding

	model deviationModel
	log   logger.Logger
}

// Option configures a Scheme.
type Option func(*Scheme)

// WithLogger sets the logger used for scheme warnings.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheme) {
		if l != nil {
			s.log = l
		}
	}
}

// WithArrowDiameters overrides the default indoor and outdoor arrow
// diameters, in metres.
func WithArrowDiameters(indoor, outdoor float64) Option {
	return func(s *Scheme) {
		if indoor > 0 {
			s.ArrowDiameterIndoor = indoor
		}
		if outdoor > 0 {
			s.ArrowDiameterOutdoor = outdoor
		}
	}
}

func newScheme(base Scheme, model deviationModel, opts []Option) (*Scheme, error) {
	if err := validate.Struct(model); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidParams, base.Name, err)
	}
	s := base
	s.model = model
	s.log = logger.Nop()
	for _, opt := range opts {
		opt(&s)
	}
	return &s, nil
}

// Names lists the supported schemes.
func Names() []string {
	return []string{AGB, AGBOld, AA, AA2}
}

// ByName returns the named scheme with its default constants.
func ByName(name string, opts ...Option) (*Scheme, error) {
	switch name {
	case AGB:
		return NewAGB(DefaultAGBParams(), opts...)
	case AGBOld:
		return NewAGBOld(DefaultAGBOldParams(), opts...)
	case AA:
		return NewAA(DefaultAAParams(), opts...)
	case AA2:
		return NewAA2(DefaultAA2Params(), opts...)
	default:
		return nil, fmt.Errorf("%w: %q, select from %v", ErrUnknownScheme, name, Names())
	}
}

// Params returns the scheme constants keyed by name.
func (s *Scheme) Params() map[string]float64 {
	return s.model.params()
}

// String returns the scheme name.
func (s *Scheme) String() string { return s.Name }

// ArrowDiameter returns the default arrow diameter for the venue.
func (s *Scheme) ArrowDiameter(indoor bool) float64 {
	if indoor {
		return s.ArrowDiameterIndoor
	}
	return s.ArrowDiameterOutdoor
}

// SigmaTAt returns the angular deviation in radians at one handicap.
func (s *Scheme) SigmaTAt(handicap, distance float64) float64 {
	return s.model.sigmaT(handicap, distance)
}

// SigmaT returns the angular deviation for each handicap.
func (s *Scheme) SigmaT(handicaps []float64, distance float64) []float64 {
	out := make([]float64, len(handicaps))
	for i, h := range handicaps {
		out[i] = s.model.sigmaT(h, distance)
	}
	return out
}

// SigmaRAt returns the radial deviation in metres at one handicap.
func (s *Scheme) SigmaRAt(handicap, distance float64) float64 {
	return distance * s.model.sigmaT(handicap, distance)
}

// SigmaR returns the radial deviation for each handicap.
func (s *Scheme) SigmaR(handicaps []float64, distance float64) []float64 {
	out := make([]float64, len(handicaps))
	for i, h := range handicaps {
		out[i] = s.SigmaRAt(h, distance)
	}
	return out
}

// RoundScore applies the scheme's integer rounding convention.
func (s *Scheme) RoundScore(score float64) float64 {
	if s.Rounding == RoundCeil {
		return math.Ceil(score)
	}
	return math.RoundToEven(score)
}

// best is the bound where scores are highest; worst is the other one.
func (s *Scheme) best() float64 {
	if s.Direction == Descending {
		return s.Bounds[0]
	}
	return s.Bounds[1]
}

func (s *Scheme) worst() float64 {
	if s.Direction == Descending {
		return s.Bounds[1]
	}
	return s.Bounds[0]
}

// worse returns +1 or -1, the sign of a step towards weaker archers.
func (s *Scheme) worse() float64 {
	if s.Direction == Descending {
		return 1
	}
	return -1
}

func (s *Scheme) inBounds(h float64) bool {
	return h >= s.Bounds[0] && h <= s.Bounds[1]
}
