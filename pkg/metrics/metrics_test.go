package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating a manager with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When passing empty values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "archery")
				So(manager.subsystem, ShouldEqual, "handicap")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestManagerRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry))

		Convey("When recording inversions", func() {
			manager.RecordInversion("AGB", RegimeRootFind)
			manager.RecordInversion("AGB", RegimeRootFind)
			manager.RecordInversion("AA", RegimeMaxScore)

			Convey("Then counters should be split by scheme and regime", func() {
				So(testutil.ToFloat64(manager.inversions.WithLabelValues("AGB", RegimeRootFind)), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.inversions.WithLabelValues("AA", RegimeMaxScore)), ShouldEqual, 1)
			})
		})

		Convey("When recording root finder outcomes", func() {
			manager.RecordRootFindIterations("AGB", 9)
			manager.RecordRootFindFailure("AGB", "no_convergence")

			Convey("Then the failure counter should increase", func() {
				So(testutil.ToFloat64(manager.rootFindFailures.WithLabelValues("AGB", "no_convergence")), ShouldEqual, 1)
				So(testutil.CollectAndCount(manager.rootFindIters), ShouldEqual, 1)
			})
		})

		Convey("When recording table builds", func() {
			manager.RecordTableBuild("AGBold", 150, 12.5)
			manager.RecordTableBuild("AGBold", 50, 3)

			Convey("Then builds and cells should be counted", func() {
				So(testutil.ToFloat64(manager.tableBuilds.WithLabelValues("AGBold")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.tableCells), ShouldEqual, 200)
			})
		})

		Convey("When recording warnings and evaluations", func() {
			manager.RecordBoundaryWarning("AGB")
			manager.RecordRoundEvaluation("AA2")

			Convey("Then both counters should increase", func() {
				So(testutil.ToFloat64(manager.boundaryWarnings.WithLabelValues("AGB")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.roundEvaluations.WithLabelValues("AA2")), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry), WithMetricsEnabled(false))

		Convey("When recording", func() {
			manager.RecordInversion("AGB", RegimeRootFind)
			manager.RecordTableBuild("AGB", 10, 1)

			Convey("Then nothing should be counted", func() {
				So(testutil.ToFloat64(manager.inversions.WithLabelValues("AGB", RegimeRootFind)), ShouldEqual, 0)
				So(testutil.ToFloat64(manager.tableCells), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording through package functions", func() {
			Convey("Then no call should panic", func() {
				So(func() {
					RecordInversion("AGB", RegimeRootFind)
					RecordRootFindIterations("AGB", 7)
					RecordRootFindFailure("AGB", "not_bracketed")
					RecordBoundaryWarning("AGB")
					RecordRoundEvaluation("AGB")
					RecordTableBuild("AGB", 3, 0.4)
					UpdateCatalogueRounds(12)
					RecordHTTPRequest("/handicap", "POST", "200")
					RecordHTTPRequestDuration("/handicap", "POST", "200", 1.5)
					RecordErrorByEndpoint("/handicap", "POST", "bad_request")
					UpdateSystemMemoryUsage(1024)
					UpdateSystemGoroutineCount(8)
				}, ShouldNotPanic)
			})

			Convey("And the registry should expose the engine metrics", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["archery_handicap_inversions_total"], ShouldBeTrue)
				So(names["archery_handicap_catalogue_rounds"], ShouldBeTrue)
			})
		})
	})
}
