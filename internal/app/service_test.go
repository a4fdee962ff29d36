package service_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	repository "github.com/okian/archery-handicaps/internal/adapters/repository"
	service "github.com/okian/archery-handicaps/internal/app"
	"github.com/okian/archery-handicaps/internal/domain/handicap"
	"github.com/okian/archery-handicaps/internal/domain/round"
	"github.com/okian/archery-handicaps/internal/domain/table"
	"github.com/okian/archery-handicaps/internal/domain/types"
	"github.com/okian/archery-handicaps/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func started(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(opts...)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	return svc
}

func fptr(v float64) *float64 { return &v }

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		defer svc.Stop()

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should start with the bundled catalogue", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["rounds"], ShouldEqual, 42)
				So(stats["defaultScheme"], ShouldEqual, handicap.AGB)
			})
		})
	})

	Convey("Given an unknown default scheme", t, func() {
		svc := service.New(service.WithDefaultScheme("XYZ"))

		Convey("Then Start should fail", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, handicap.ErrUnknownScheme), ShouldBeTrue)
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("Then queries should fail with ErrNotStarted", func() {
			_, err := svc.Round(context.Background(), "wa18")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Schemes(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t)
		defer svc.Stop()

		Convey("Then every scheme should be described", func() {
			summaries := svc.Schemes()
			So(len(summaries), ShouldEqual, 4)
			So(summaries[0].Name, ShouldEqual, handicap.AGB)
			So(summaries[0].Direction, ShouldEqual, "descending")
			So(summaries[2].Name, ShouldEqual, handicap.AA)
			So(summaries[2].Direction, ShouldEqual, "ascending")
			So(summaries[0].Params, ShouldNotBeEmpty)
		})

		Convey("Then an empty scheme name should select the default", func() {
			sch, err := svc.Scheme("")
			So(err, ShouldBeNil)
			So(sch.Name, ShouldEqual, handicap.AGB)
		})
	})
}

func TestService_Rounds(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When listing AGB indoor rounds", func() {
			rounds, err := svc.Rounds(ctx, repository.Filter{Location: round.Indoor, Body: "AGB"})

			Convey("Then only those rounds should be returned", func() {
				So(err, ShouldBeNil)
				So(len(rounds), ShouldEqual, 10)
				for _, r := range rounds {
					So(r.Location, ShouldEqual, round.Indoor)
				}
			})
		})

		Convey("When summarising an imperial round", func() {
			york, err := svc.Round(ctx, "york")
			So(err, ShouldBeNil)
			sum := service.Summarize(york)

			Convey("Then distances should be quoted in yards", func() {
				So(sum.MaxScore, ShouldEqual, 1296.0)
				So(sum.Arrows, ShouldEqual, 144)
				So(sum.Passes[0].Distance, ShouldEqual, 100.0)
				So(sum.Passes[0].DistanceUnit, ShouldEqual, "yard")
				So(sum.Passes[0].DiameterCM, ShouldEqual, 122.0)
			})
		})

		Convey("When asking for an unknown round", func() {
			_, err := svc.Round(ctx, "nope")

			Convey("Then it should report not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Score(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When scoring WA 1440 (90m) with AGB", func() {
			res, err := svc.Score(ctx, types.ScoreRequest{
				Round:     "wa1440_90",
				Handicaps: []float64{1, 2, 3, 4, 5},
				PerPass:   true,
			})

			Convey("Then the rounded scores should match the published table", func() {
				So(err, ShouldBeNil)
				So(res.Scheme, ShouldEqual, handicap.AGB)
				So(res.MaxScore, ShouldEqual, 1440.0)
				So(res.Scores, ShouldResemble, []float64{1396, 1393, 1389, 1385, 1380})
				So(len(res.PassScores), ShouldEqual, 4)
				So(len(res.PassScores[0]), ShouldEqual, 5)
			})
		})

		Convey("When scoring unrounded", func() {
			off := false
			res, err := svc.Score(ctx, types.ScoreRequest{
				Round:     "wa1440_90",
				Handicaps: []float64{10},
				Rounded:   &off,
			})

			Convey("Then the raw expectation should be returned", func() {
				So(err, ShouldBeNil)
				So(res.Scores[0], ShouldAlmostEqual, 1355.8270359849505, 1e-8)
			})
		})

		Convey("When the scheme is unknown", func() {
			_, err := svc.Score(ctx, types.ScoreRequest{Scheme: "XYZ", Round: "wa18", Handicaps: []float64{1}})

			Convey("Then it should fail with ErrUnknownScheme", func() {
				So(errors.Is(err, handicap.ErrUnknownScheme), ShouldBeTrue)
			})
		})

		Convey("When the request is invalid", func() {
			_, err := svc.Score(ctx, types.ScoreRequest{Round: "wa18"})

			Convey("Then it should fail validation", func() {
				So(errors.Is(err, types.ErrInvalidRequest), ShouldBeTrue)
			})
		})
	})
}

func TestService_Handicap(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When inverting a published AGB score", func() {
			res, err := svc.Handicap(ctx, types.HandicapRequest{Round: "wa1440_90", Score: 1396})

			Convey("Then the integer handicap should be returned", func() {
				So(err, ShouldBeNil)
				So(res.Handicap, ShouldEqual, 1.0)
				So(res.IntPrec, ShouldBeTrue)
			})
		})

		Convey("When inverting without integer precision", func() {
			off := false
			res, err := svc.Handicap(ctx, types.HandicapRequest{Round: "wa1440_90", Score: 1355.8270359849505, IntPrec: &off})

			Convey("Then the continuous handicap should be returned", func() {
				So(err, ShouldBeNil)
				So(res.Handicap, ShouldAlmostEqual, 10, 1e-5)
			})
		})

		Convey("When the score exceeds the maximum", func() {
			_, err := svc.Handicap(ctx, types.HandicapRequest{Round: "wa18", Score: 601})

			Convey("Then it should fail with ErrScoreOutOfRange", func() {
				So(errors.Is(err, handicap.ErrScoreOutOfRange), ShouldBeTrue)
			})
		})
	})
}

func TestService_Table(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t, service.WithMaxTableRows(100))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When building a table with clean gaps", func() {
			tbl, err := svc.Table(ctx, types.TableRequest{
				Rounds: []string{"wa18", "wa720_70"},
				Min:    fptr(120),
				Max:    fptr(130),
			})

			Convey("Then repeated scores should be blanked", func() {
				So(err, ShouldBeNil)
				So(tbl.Rounds, ShouldResemble, []string{"WA 18", "WA 720 (70m)"})
				So(len(tbl.Handicaps), ShouldEqual, 11)
				So(tbl.Scores[0][0], ShouldEqual, 18.0)
				So(math.IsNaN(tbl.Scores[0][1]), ShouldBeTrue)
				So(tbl.Scores[1][1], ShouldEqual, 9.0)
			})
		})

		Convey("When the grid exceeds the row limit", func() {
			_, err := svc.Table(ctx, types.TableRequest{Rounds: []string{"wa18"}, Min: fptr(0), Max: fptr(150)})

			Convey("Then it should fail with ErrTooManyRows", func() {
				So(errors.Is(err, table.ErrTooManyRows), ShouldBeTrue)
			})
		})

		Convey("When a round is unknown", func() {
			_, err := svc.Table(ctx, types.TableRequest{Rounds: []string{"wa18", "nope"}, Handicaps: []float64{1}})

			Convey("Then it should report not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}
