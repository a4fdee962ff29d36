package export

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/archery-handicaps/internal/domain/table"
)

// Chart dimensions in pixels.
const (
	ChartWidth  = 1024
	ChartHeight = 576
)

var palette = []drawing.Color{
	drawing.ColorFromHex("1b5e20"),
	drawing.ColorFromHex("c62828"),
	drawing.ColorFromHex("1565c0"),
	drawing.ColorFromHex("f9a825"),
	drawing.ColorFromHex("6a1b9a"),
	drawing.ColorFromHex("00838f"),
	drawing.ColorFromHex("4e342e"),
}

// WritePNG renders one score-versus-handicap curve per round of t as a PNG
// line chart. Blank cells are skipped; rounds with fewer than two points are
// left out.
func WritePNG(w io.Writer, t *table.Table) error {
	if t == nil || len(t.Handicaps) == 0 {
		return ErrEmptyTable
	}

	series := make([]chart.Series, 0, len(t.Rounds))
	for j, name := range t.Rounds {
		xs := make([]float64, 0, len(t.Handicaps))
		ys := make([]float64, 0, len(t.Handicaps))
		for i, h := range t.Handicaps {
			v := t.Scores[i][j]
			if math.IsNaN(v) {
				continue
			}
			xs = append(xs, h)
			ys = append(ys, v)
		}
		if len(xs) < 2 {
			continue
		}
		colour := palette[j%len(palette)]
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: colour,
				StrokeWidth: 2,
			},
		})
	}
	if len(series) == 0 {
		return ErrNoSeries
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s handicap curves", t.Scheme),
		Width:  ChartWidth,
		Height: ChartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name: "Handicap",
		},
		YAxis: chart.YAxis{
			Name: "Score",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
