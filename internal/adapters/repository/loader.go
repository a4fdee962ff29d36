package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/okian/archery-handicaps/internal/domain/round"
	"github.com/okian/archery-handicaps/internal/domain/target"
	"github.com/okian/archery-handicaps/pkg/logger"
)

// DefaultBody is assigned to rounds that do not name a governing body.
const DefaultBody = "custom"

var locationAliases = map[string][]string{
	round.Indoor:  {"i", "indoors", "indoor", "in", "inside"},
	round.Outdoor: {"o", "outdoors", "outdoor", "out", "outside"},
	round.Field:   {"f", "field", "woods"},
}

// RoundFile is the on-disk layout of a catalogue file.
type RoundFile struct {
	Rounds []RoundDef `yaml:"rounds" validate:"required,min=1,dive"`
}

// RoundDef describes one round in a catalogue file.
type RoundDef struct {
	Codename string    `yaml:"codename" validate:"required"`
	Name     string    `yaml:"name" validate:"required"`
	Location *string   `yaml:"location"`
	Body     *string   `yaml:"body"`
	Family   *string   `yaml:"family"`
	Passes   []PassDef `yaml:"passes" validate:"required,min=1,dive"`
}

// PassDef describes one pass of a round. DiameterUnit defaults to cm.
type PassDef struct {
	Arrows       int     `yaml:"n_arrows" validate:"gt=0"`
	Scoring      string  `yaml:"scoring" validate:"required"`
	Diameter     float64 `yaml:"diameter" validate:"gt=0"`
	DiameterUnit string  `yaml:"diameter_unit"`
	Distance     float64 `yaml:"distance" validate:"gt=0"`
	DistanceUnit string  `yaml:"dist_unit" validate:"required"`
}

// Loader turns catalogue YAML into rounds.
type Loader struct {
	validator *validator.Validate
	log       logger.Logger
}

// NewLoader constructs a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	ld := &Loader{validator: validator.New(), log: logger.Nop()}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// LoadFile reads a catalogue file from disk.
func (ld *Loader) LoadFile(ctx context.Context, path string) ([]round.Round, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ld.load(ctx, data)
}

// Load reads a catalogue document from r.
func (ld *Loader) Load(ctx context.Context, r io.Reader) ([]round.Round, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return ld.load(ctx, data)
}

func (ld *Loader) load(ctx context.Context, data []byte) ([]round.Round, error) {
	var file RoundFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: YAML decode failed: %w", ErrInvalidRound, err)
	}
	if err := ld.validator.Struct(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRound, err)
	}

	seen := make(map[string]struct{}, len(file.Rounds))
	out := make([]round.Round, 0, len(file.Rounds))
	for _, def := range file.Rounds {
		if _, dup := seen[def.Codename]; dup {
			return nil, fmt.Errorf("%w: duplicate codename %q", ErrInvalidRound, def.Codename)
		}
		seen[def.Codename] = struct{}{}

		r, err := ld.build(ctx, def)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRound, def.Codename, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (ld *Loader) build(ctx context.Context, def RoundDef) (round.Round, error) {
	location := ld.location(ctx, def)
	indoor := location == round.Indoor

	body := DefaultBody
	if def.Body != nil {
		body = *def.Body
	} else {
		ld.log.Warn(ctx, "no body provided for round, defaulting to custom",
			logger.String("round", def.Name))
	}

	family := ""
	if def.Family != nil {
		family = *def.Family
	} else {
		ld.log.Warn(ctx, "no family provided for round, defaulting to empty",
			logger.String("round", def.Name))
	}

	passes := make([]round.Pass, 0, len(def.Passes))
	for i, pd := range def.Passes {
		p, err := buildPass(pd, indoor)
		if err != nil {
			return round.Round{}, fmt.Errorf("pass %d: %w", i+1, err)
		}
		passes = append(passes, p)
	}

	return round.Round{
		Codename: def.Codename,
		Name:     def.Name,
		Location: location,
		Body:     body,
		Family:   family,
		Passes:   passes,
	}, nil
}

// location resolves the round's location alias. Missing or unknown values
// map to "" and the round is treated as outdoor.
func (ld *Loader) location(ctx context.Context, def RoundDef) string {
	if def.Location == nil {
		ld.log.Warn(ctx, "no location provided for round", logger.String("round", def.Name))
		return ""
	}
	alias := strings.ToLower(strings.TrimSpace(*def.Location))
	for loc, aliases := range locationAliases {
		for _, a := range aliases {
			if a == alias {
				return loc
			}
		}
	}
	ld.log.Warn(ctx, "location not recognised for round",
		logger.String("round", def.Name), logger.String("location", *def.Location))
	return ""
}

func buildPass(pd PassDef, indoor bool) (round.Pass, error) {
	system, err := target.ParseSystem(pd.Scoring)
	if err != nil {
		return round.Pass{}, err
	}

	diamUnit := target.Centimetre
	if pd.DiameterUnit != "" {
		if diamUnit, err = target.ParseLengthUnit(pd.DiameterUnit); err != nil {
			return round.Pass{}, err
		}
	}
	distUnit, err := target.ParseLengthUnit(pd.DistanceUnit)
	if err != nil {
		return round.Pass{}, err
	}

	tgt, err := target.New(system,
		target.ToMetres(pd.Diameter, diamUnit),
		target.ToMetres(pd.Distance, distUnit),
		indoor,
		target.WithNativeUnit(distUnit),
	)
	if err != nil {
		return round.Pass{}, err
	}
	return round.NewPass(pd.Arrows, tgt)
}
