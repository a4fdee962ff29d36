// Package types contains the request and response shapes shared by the
// service layer and the HTTP API.
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// PassSummary describes one pass of a round in display units.
type PassSummary struct {
	Arrows       int     `json:"n_arrows"`
	Scoring      string  `json:"scoring"`
	DiameterCM   float64 `json:"diameter_cm"`
	Distance     float64 `json:"distance"`
	DistanceUnit string  `json:"dist_unit"`
	MaxScore     float64 `json:"max_score"`
}

// RoundSummary describes a catalogue round.
type RoundSummary struct {
	Codename string        `json:"codename"`
	Name     string        `json:"name"`
	Location string        `json:"location"`
	Body     string        `json:"body"`
	Family   string        `json:"family"`
	MaxScore float64       `json:"max_score"`
	Arrows   int           `json:"n_arrows"`
	Passes   []PassSummary `json:"passes"`
}

// SchemeSummary describes a handicap scheme and its constants.
type SchemeSummary struct {
	Name                 string             `json:"name"`
	Direction            string             `json:"direction"`
	Bounds               [2]float64         `json:"bounds"`
	ArrowDiameterIndoor  float64            `json:"arrow_diameter_indoor"`
	ArrowDiameterOutdoor float64            `json:"arrow_diameter_outdoor"`
	Params               map[string]float64 `json:"params"`
}

// ScoreRequest asks for expected scores on a round.
type ScoreRequest struct {
	Scheme        string    `json:"scheme"`
	Round         string    `json:"round" validate:"required"`
	Handicaps     []float64 `json:"handicaps" validate:"required,min=1,max=10000"`
	ArrowDiameter float64   `json:"arrow_diameter" validate:"gte=0"`
	// Rounded defaults to true when omitted.
	Rounded *bool `json:"rounded"`
	PerPass bool  `json:"per_pass"`
}

// ScoreResult carries one score per requested handicap.
type ScoreResult struct {
	Scheme     string      `json:"scheme"`
	Round      string      `json:"round"`
	MaxScore   float64     `json:"max_score"`
	Handicaps  []float64   `json:"handicaps"`
	Scores     []float64   `json:"scores"`
	PassScores [][]float64 `json:"pass_scores,omitempty"`
}

// HandicapRequest asks for the handicap that a score corresponds to.
type HandicapRequest struct {
	Scheme        string  `json:"scheme"`
	Round         string  `json:"round" validate:"required"`
	Score         float64 `json:"score"`
	ArrowDiameter float64 `json:"arrow_diameter" validate:"gte=0"`
	// IntPrec defaults to true when omitted.
	IntPrec *bool `json:"int_prec"`
}

// HandicapResult carries the inverted handicap.
type HandicapResult struct {
	Scheme   string  `json:"scheme"`
	Round    string  `json:"round"`
	Score    float64 `json:"score"`
	Handicap float64 `json:"handicap"`
	IntPrec  bool    `json:"int_prec"`
}

// TableRequest asks for a handicap table. Handicaps, when given, override
// the Min/Max/Step grid.
type TableRequest struct {
	Scheme        string    `json:"scheme"`
	Rounds        []string  `json:"rounds" validate:"required,min=1,dive,required"`
	Handicaps     []float64 `json:"handicaps"`
	Min           *float64  `json:"min"`
	Max           *float64  `json:"max"`
	Step          *float64  `json:"step" validate:"omitempty,gt=0"`
	ArrowDiameter float64   `json:"arrow_diameter" validate:"gte=0"`
	Rounded       *bool     `json:"rounded"`
	IntPrec       *bool     `json:"int_prec"`
	CleanGaps     *bool     `json:"clean_gaps"`
}

// TableResult is a JSON rendering of a table; blank cells are null.
type TableResult struct {
	Scheme    string       `json:"scheme"`
	Rounds    []string     `json:"rounds"`
	Handicaps []float64    `json:"handicaps"`
	Scores    [][]*float64 `json:"scores"`
	IntPrec   bool         `json:"int_prec"`
}

// Validate checks the request's field constraints.
func (r ScoreRequest) Validate() error { return check(r) }

// Validate checks the request's field constraints.
func (r HandicapRequest) Validate() error { return check(r) }

// Validate checks the request's field constraints.
func (r TableRequest) Validate() error { return check(r) }

func check(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

// BoolOr returns *p, or def when p is nil.
func BoolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
