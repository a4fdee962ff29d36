package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/archery-handicaps/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Scheme, convey.ShouldEqual, "AGB")
				convey.So(cfg.TableMax, convey.ShouldEqual, 150.0)
				convey.So(cfg.RoundsFile, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ARCHERY_ADDR", ":9090")
			_ = os.Setenv("ARCHERY_SCHEME", "AA2")
			_ = os.Setenv("ARCHERY_ARROW_DIAMETER", "0.0071")
			_ = os.Setenv("ARCHERY_TABLE_STEP", "0.5")
			_ = os.Setenv("ARCHERY_TABLE_WORKERS", "3")
			_ = os.Setenv("ARCHERY_TABLE_CLEAN_GAPS", "false")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Scheme, convey.ShouldEqual, "AA2")
				convey.So(cfg.ArrowDiameter, convey.ShouldEqual, 0.0071)
				convey.So(cfg.TableStep, convey.ShouldEqual, 0.5)
				convey.So(cfg.TableWorkers, convey.ShouldEqual, 3)
				convey.So(cfg.TableCleanGaps, convey.ShouldBeFalse)
				convey.So(cfg.TableIntPrec, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
addr: ":7070"
log_level: debug
scheme: AGBold
rounds_file: /etc/archery/club.yaml
table_min: -10
table_max: 90
table_int_prec: false
max_table_rows: 200
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("ARCHERY_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Scheme, convey.ShouldEqual, "AGBold")
				convey.So(cfg.RoundsFile, convey.ShouldEqual, "/etc/archery/club.yaml")
				convey.So(cfg.TableMin, convey.ShouldEqual, -10.0)
				convey.So(cfg.TableMax, convey.ShouldEqual, 90.0)
				convey.So(cfg.TableIntPrec, convey.ShouldBeFalse)
				convey.So(cfg.MaxTableRows, convey.ShouldEqual, 200)
			})

			convey.Convey("And env vars should override file values", func() {
				_ = os.Setenv("ARCHERY_ADDR", ":6060")
				_ = os.Setenv("ARCHERY_MAX_TABLE_ROWS", "300")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.MaxTableRows, convey.ShouldEqual, 300)
				convey.So(cfg.Scheme, convey.ShouldEqual, "AGBold")
			})
		})

		convey.Convey("When loading from an explicit path", func() {
			tmpFile := createTempConfigFile("scheme: AA\n")
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.LoadFrom(ctx, tmpFile)

			convey.Convey("Then the file should be applied without ARCHERY_CONFIG", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Scheme, convey.ShouldEqual, "AA")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("ARCHERY_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("ARCHERY_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When an env var fails validation", func() {
			_ = os.Setenv("ARCHERY_SCHEME", "NFAA")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "Scheme")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a numeric env var is malformed", func() {
			_ = os.Setenv("ARCHERY_TABLE_WORKERS", "many")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"ARCHERY_CONFIG",
		"ARCHERY_LOG_LEVEL",
		"ARCHERY_ADDR",
		"ARCHERY_SCHEME",
		"ARCHERY_ARROW_DIAMETER",
		"ARCHERY_ROUNDS_FILE",
		"ARCHERY_TABLE_MIN",
		"ARCHERY_TABLE_MAX",
		"ARCHERY_TABLE_STEP",
		"ARCHERY_TABLE_WORKERS",
		"ARCHERY_TABLE_INT_PREC",
		"ARCHERY_TABLE_ROUNDED",
		"ARCHERY_TABLE_CLEAN_GAPS",
		"ARCHERY_MAX_TABLE_ROWS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "archery-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
