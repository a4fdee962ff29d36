package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/archery-handicaps/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Scheme, convey.ShouldEqual, "AGB")
			convey.So(cfg.TableMax, convey.ShouldEqual, 150.0)
			convey.So(cfg.TableStep, convey.ShouldEqual, 1.0)
			convey.So(cfg.TableWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.TableIntPrec, convey.ShouldBeTrue)
			convey.So(cfg.TableCleanGaps, convey.ShouldBeTrue)
			convey.So(cfg.MaxTableRows, convey.ShouldEqual, 5000)
		})

		convey.Convey("Then the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs that break one constraint each", t, func() {
		cases := map[string]struct {
			key    string
			mutate func(*config.Config)
		}{
			"unknown scheme":       {"scheme", func(c *config.Config) { c.Scheme = "NFAA" }},
			"unknown log level":    {"log_level", func(c *config.Config) { c.LogLevel = "trace" }},
			"negative diameter":    {"arrow_diameter", func(c *config.Config) { c.ArrowDiameter = -0.001 }},
			"inverted grid":        {"table_max", func(c *config.Config) { c.TableMin, c.TableMax = 10, 5 }},
			"zero step":            {"table_step", func(c *config.Config) { c.TableStep = 0 }},
			"zero workers":         {"table_workers", func(c *config.Config) { c.TableWorkers = 0 }},
			"zero row limit":       {"max_table_rows", func(c *config.Config) { c.MaxTableRows = 0 }},
			"empty listen address": {"addr", func(c *config.Config) { c.Addr = "" }},
		}

		for name, tc := range cases {
			convey.Convey("When the config has "+name, func() {
				cfg := config.New()
				tc.mutate(cfg)

				convey.Convey("Then validation should fail naming the key", func() {
					err := cfg.Validate()
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.key+"=")
				})
			})
		}
	})
}
