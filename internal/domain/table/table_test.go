package table

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"

	"github.com/okian/archery-handicaps/internal/domain/handicap"
	"github.com/okian/archery-handicaps/internal/domain/round"
	"github.com/okian/archery-handicaps/internal/domain/target"
	"github.com/okian/archery-handicaps/pkg/logger"
)

var blank = math.NaN()

func pass(t *testing.T, arrows int, diameter, distance float64, indoor bool) round.Pass {
	t.Helper()
	tgt, err := target.New(target.TenZone, diameter, distance, indoor)
	if err != nil {
		t.Fatalf("target: %v", err)
	}
	return round.Pass{Arrows: arrows, Target: tgt}
}

func wa1440Rounds(t *testing.T) []round.Round {
	return []round.Round{
		{Name: "WA 1440 (90m)", Passes: []round.Pass{
			pass(t, 36, 1.22, 90, false), pass(t, 36, 1.22, 70, false),
			pass(t, 36, 0.8, 50, false), pass(t, 36, 0.8, 30, false),
		}},
		{Name: "WA 1440 (70m)", Passes: []round.Pass{
			pass(t, 36, 1.22, 70, false), pass(t, 36, 1.22, 60, false),
			pass(t, 36, 0.8, 50, false), pass(t, 36, 0.8, 30, false),
		}},
		{Name: "WA 1440 (60m)", Passes: []round.Pass{
			pass(t, 36, 1.22, 60, false), pass(t, 36, 1.22, 50, false),
			pass(t, 36, 0.8, 40, false), pass(t, 36, 0.8, 30, false),
		}},
	}
}

func shortRounds(t *testing.T) []round.Round {
	return []round.Round{
		{Name: "WA 18", Passes: []round.Pass{pass(t, 60, 0.4, 18, true)}},
		{Name: "WA 720 (70m)", Passes: []round.Pass{pass(t, 72, 1.22, 70, false)}},
	}
}

func scheme(t *testing.T, name string) *handicap.Scheme {
	t.Helper()
	s, err := handicap.ByName(name)
	if err != nil {
		t.Fatalf("scheme: %v", err)
	}
	return s
}

func seq(from, to float64) []float64 {
	var out []float64
	for h := from; h <= to; h++ {
		out = append(out, h)
	}
	return out
}

func TestBuild(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()

	Convey("Given AGB and the WA 1440 rounds", t, func() {
		tbl, err := Build(ctx, scheme(t, handicap.AGB), seq(1, 5), wa1440Rounds(t))
		So(err, ShouldBeNil)

		Convey("Then the scores should match the published table", func() {
			want := [][]float64{
				{1396, 1412, 1427},
				{1393, 1409, 1425},
				{1389, 1406, 1423},
				{1385, 1403, 1420},
				{1380, 1399, 1418},
			}
			So(cmp.Diff(want, tbl.Scores), ShouldBeEmpty)
			So(tbl.Handicaps, ShouldResemble, seq(1, 5))
			So(tbl.Rounds, ShouldResemble, []string{"WA 1440 (90m)", "WA 1440 (70m)", "WA 1440 (60m)"})
		})

		Convey("Then the text rendering should use fixed-width columns", func() {
			want := strings.Join([]string{
				"      Handicap WA 1440 (90m) WA 1440 (70m) WA 1440 (60m)",
				"             1          1396          1412          1427",
				"             2          1393          1409          1425",
				"             3          1389          1406          1423",
				"             4          1385          1403          1420",
				"             5          1380          1399          1418",
			}, "\n")
			So(tbl.String(), ShouldEqual, want)
		})
	})

	Convey("Given a descending table with repeated scores", t, func() {
		tbl, err := Build(ctx, scheme(t, handicap.AGB), seq(120, 130), shortRounds(t))
		So(err, ShouldBeNil)

		Convey("Then each score should be kept against its weakest handicap", func() {
			want := [][]float64{
				{18, blank}, {17, 9}, {16, blank}, {15, 8}, {14, blank}, {13, 7},
				{blank, blank}, {12, blank}, {11, 6}, {blank, blank}, {10, blank},
			}
			So(cmp.Diff(want, tbl.Scores, cmpopts.EquateNaNs()), ShouldBeEmpty)
		})
	})

	Convey("Given an ascending table with repeated scores", t, func() {
		tbl, err := Build(ctx, scheme(t, handicap.AA), seq(112, 123), shortRounds(t))
		So(err, ShouldBeNil)

		Convey("Then repeats should be removed towards lower handicaps", func() {
			want := [][]float64{
				{blank, 687}, {blank, 689}, {598, 691}, {blank, 693}, {599, 694}, {blank, 696},
				{blank, 698}, {blank, 699}, {blank, 701}, {600, 702}, {blank, 704}, {blank, 705},
			}
			So(cmp.Diff(want, tbl.Scores, cmpopts.EquateNaNs()), ShouldBeEmpty)
		})
	})

	Convey("Given clean gaps disabled", t, func() {
		tbl, err := Build(ctx, scheme(t, handicap.AGB), seq(120, 130), shortRounds(t), WithCleanGaps(false))
		So(err, ShouldBeNil)

		Convey("Then every cell should be filled", func() {
			So(len(tbl.Scores), ShouldEqual, 11)
			for _, row := range tbl.Scores {
				for _, v := range row {
					So(math.IsNaN(v), ShouldBeFalse)
				}
			}
		})
	})

	Convey("Given rounded scores without integer precision", t, func() {
		var buf bytes.Buffer
		tbl, err := Build(ctx, scheme(t, handicap.AGB), seq(1, 2), wa1440Rounds(t),
			WithIntegerPrecision(false), WithLogger(logger.New(&buf)))

		Convey("Then integer precision should be forced with a warning", func() {
			So(err, ShouldBeNil)
			So(tbl.IntPrec, ShouldBeTrue)
			So(buf.String(), ShouldContainSubstring, "using integer precision")
		})
	})

	Convey("Given unrounded scores", t, func() {
		tbl, err := Build(ctx, scheme(t, handicap.AGB), []float64{10, 10.5}, wa1440Rounds(t)[:1],
			WithRounded(false), WithIntegerPrecision(false), WithCleanGaps(false))
		So(err, ShouldBeNil)

		Convey("Then scores and handicaps should print with decimals", func() {
			So(tbl.Scores[0][0], ShouldAlmostEqual, 1355.8270359849505, 1e-8)
			So(tbl.HandicapDecimals(), ShouldEqual, 1)
			lines := strings.Split(tbl.String(), "\n")
			So(lines[1], ShouldEqual, "          10.0 1355.82703598")
		})
	})

	Convey("Given invalid inputs", t, func() {
		Convey("When no rounds are given", func() {
			_, err := Build(ctx, scheme(t, handicap.AGB), seq(1, 3), nil)
			So(errors.Is(err, ErrNoRounds), ShouldBeTrue)
		})

		Convey("When no handicaps are given", func() {
			_, err := Build(ctx, scheme(t, handicap.AGB), nil, wa1440Rounds(t))
			So(errors.Is(err, ErrNoHandicaps), ShouldBeTrue)
		})

		Convey("When a round has no passes", func() {
			_, err := Build(ctx, scheme(t, handicap.AGB), seq(1, 3), []round.Round{{Name: "Empty"}})
			So(errors.Is(err, round.ErrNoPasses), ShouldBeTrue)
		})
	})
}

func TestCSV(t *testing.T) {
	Convey("Given a table with blanks", t, func() {
		tbl := &Table{
			Handicaps: []float64{1, 2},
			Rounds:    []string{"Portsmouth", "WA 18"},
			Scores:    [][]float64{{590, blank}, {589, 588}},
			IntPrec:   true,
		}
		var buf bytes.Buffer

		Convey("Then CSV should carry full round names and empty blanks", func() {
			So(tbl.WriteCSV(&buf), ShouldBeNil)
			So(buf.String(), ShouldEqual, "Handicap,Portsmouth,WA 18\n1,590,\n2,589,588\n")
		})
	})
}

func TestAbbreviate(t *testing.T) {
	Convey("Given long round names", t, func() {
		Convey("Then known words should be shortened", func() {
			So(Abbreviate("Portsmouth Compound Triple"), ShouldEqual, "Ports C Tr")
			So(Abbreviate("Long Metric Gents"), ShouldEqual, "Lg Metric G")
			So(Abbreviate("WA 18"), ShouldEqual, "WA 18")
		})
	})
}

func TestGrid(t *testing.T) {
	Convey("Given grid bounds", t, func() {
		Convey("When the step divides the range", func() {
			g, err := Grid(0, 1, 0.1, 0)

			Convey("Then both ends should be included without drift", func() {
				So(err, ShouldBeNil)
				So(len(g), ShouldEqual, 11)
				So(g[3], ShouldEqual, 0.3)
				So(g[10], ShouldEqual, 1.0)
			})
		})

		Convey("When the step is not positive", func() {
			_, err := Grid(0, 10, 0, 0)

			Convey("Then it should fail", func() {
				So(errors.Is(err, ErrInvalidGrid), ShouldBeTrue)
			})
		})

		Convey("When a bound is not finite", func() {
			_, err := Grid(0, math.Inf(1), 1, 0)

			Convey("Then it should fail", func() {
				So(errors.Is(err, ErrInvalidGrid), ShouldBeTrue)
			})
		})

		Convey("When the grid has more rows than the limit", func() {
			_, err := Grid(0, 150, 1, 150)

			Convey("Then it should be rejected before allocating", func() {
				So(errors.Is(err, ErrTooManyRows), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "151 rows requested, limit is 150")
			})
		})

		Convey("When the grid would not fit in memory", func() {
			g, err := Grid(0, 1e18, 1e-9, 0)

			Convey("Then the hard ceiling should reject it", func() {
				So(errors.Is(err, ErrTooManyRows), ShouldBeTrue)
				So(g, ShouldBeNil)
			})
		})

		Convey("When the grid exactly fills the limit", func() {
			g, err := Grid(0, 149, 1, 150)

			Convey("Then it should be built", func() {
				So(err, ShouldBeNil)
				So(len(g), ShouldEqual, 150)
			})
		})
	})
}
