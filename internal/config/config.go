// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and ARCHERY_ environment variables on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"runtime"

	"github.com/okian/archery-handicaps/internal/domain/handicap"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// Scheme is used when a request names none.
	Scheme string `koanf:"scheme" validate:"oneof=AGB AGBold AA AA2"`

	// ArrowDiameter in metres; zero keeps each scheme's default.
	ArrowDiameter float64 `koanf:"arrow_diameter" validate:"gte=0,lt=0.05"`

	// RoundsFile is an optional YAML round catalogue loaded on top of the
	// bundled one.
	RoundsFile string `koanf:"rounds_file"`

	// Default handicap grid for tables.
	TableMin  float64 `koanf:"table_min"`
	TableMax  float64 `koanf:"table_max" validate:"gtefield=TableMin"`
	TableStep float64 `koanf:"table_step" validate:"gt=0"`

	// TableWorkers bounds concurrent round columns per table.
	TableWorkers int `koanf:"table_workers" validate:"gte=1"`

	// Default table flags.
	TableIntPrec   bool `koanf:"table_int_prec"`
	TableRounded   bool `koanf:"table_rounded"`
	TableCleanGaps bool `koanf:"table_clean_gaps"`

	// MaxTableRows caps the handicap rows of one table.
	MaxTableRows int `koanf:"max_table_rows" validate:"gte=1"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":8080",
		Scheme:         handicap.AGB,
		TableMin:       0,
		TableMax:       150,
		TableStep:      1,
		TableWorkers:   runtime.NumCPU(),
		TableIntPrec:   true,
		TableRounded:   true,
		TableCleanGaps: true,
		MaxTableRows:   5000,
	}
}
