package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/okian/archery-handicaps/internal/adapters/export"
	repository "github.com/okian/archery-handicaps/internal/adapters/repository"
	app "github.com/okian/archery-handicaps/internal/app"
	"github.com/okian/archery-handicaps/internal/config"
	"github.com/okian/archery-handicaps/internal/domain/table"
	"github.com/okian/archery-handicaps/internal/domain/types"
	"github.com/okian/archery-handicaps/pkg/logger"
)

// Command line errors.
var (
	errNoValues      = errors.New("at least one value is required")
	errUnknownFormat = errors.New("unknown output format")
)

// state carries the configuration resolved by the app's Before hook.
type state struct {
	cfg *config.Config
}

func (st *state) service(c *cli.Context) (*app.Service, error) {
	return newService(c.Context, st.cfg, logger.Get())
}

func (st *state) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address"},
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("addr") {
				st.cfg.Addr = c.String("addr")
			}
			return serve(c.Context, st.cfg, logger.Get())
		},
	}
}

func (st *state) scoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "expected scores for handicaps on a round",
		ArgsUsage: "HANDICAP...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "round", Aliases: []string{"r"}, Usage: "round codename", Required: true},
			&cli.Float64Flag{Name: "arrow-diameter", Usage: "arrow diameter in metres"},
			&cli.BoolFlag{Name: "unrounded", Usage: "print continuous expected scores"},
			&cli.BoolFlag{Name: "per-pass", Usage: "add one column per pass"},
		},
		Action: func(c *cli.Context) error {
			hcs, err := parseFloats(c.Args().Slice())
			if err != nil {
				return err
			}
			svc, err := st.service(c)
			if err != nil {
				return err
			}
			defer svc.Stop()

			rounded := !c.Bool("unrounded")
			res, err := svc.Score(c.Context, types.ScoreRequest{
				Round:         c.String("round"),
				Handicaps:     hcs,
				ArrowDiameter: c.Float64("arrow-diameter"),
				Rounded:       &rounded,
				PerPass:       c.Bool("per-pass"),
			})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprint(tw, "Handicap\tScore\t")
			for i := range res.PassScores {
				fmt.Fprintf(tw, "Pass %d\t", i+1)
			}
			fmt.Fprintln(tw)
			for j, h := range res.Handicaps {
				fmt.Fprintf(tw, "%s\t%s\t", formatFloat(h), formatFloat(res.Scores[j]))
				for _, row := range res.PassScores {
					fmt.Fprintf(tw, "%s\t", formatFloat(row[j]))
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
}

func (st *state) handicapCommand() *cli.Command {
	return &cli.Command{
		Name:      "handicap",
		Usage:     "handicap for scores on a round",
		ArgsUsage: "SCORE...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "round", Aliases: []string{"r"}, Usage: "round codename", Required: true},
			&cli.Float64Flag{Name: "arrow-diameter", Usage: "arrow diameter in metres"},
			&cli.BoolFlag{Name: "continuous", Usage: "print the exact handicap instead of the whole-number one"},
		},
		Action: func(c *cli.Context) error {
			scores, err := parseFloats(c.Args().Slice())
			if err != nil {
				return err
			}
			svc, err := st.service(c)
			if err != nil {
				return err
			}
			defer svc.Stop()

			intPrec := !c.Bool("continuous")
			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "Score\tHandicap\t")
			for _, score := range scores {
				res, err := svc.Handicap(c.Context, types.HandicapRequest{
					Round:         c.String("round"),
					Score:         score,
					ArrowDiameter: c.Float64("arrow-diameter"),
					IntPrec:       &intPrec,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t\n", formatFloat(res.Score), formatFloat(res.Handicap))
			}
			return tw.Flush()
		},
	}
}

// tableFlags are shared by the table and chart commands.
func tableFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "rounds", Aliases: []string{"r"}, Usage: "round codenames, comma separated", Required: true},
		&cli.Float64Flag{Name: "min", Usage: "lowest handicap"},
		&cli.Float64Flag{Name: "max", Usage: "highest handicap"},
		&cli.Float64Flag{Name: "step", Usage: "handicap step"},
		&cli.Float64Flag{Name: "arrow-diameter", Usage: "arrow diameter in metres"},
		&cli.BoolFlag{Name: "unrounded", Usage: "keep continuous scores"},
		&cli.BoolFlag{Name: "decimals", Usage: "print scores with decimals"},
		&cli.BoolFlag{Name: "keep-gaps", Usage: "keep repeated scores"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file, - for stdout", Value: "-"},
	}
}

func tableRequest(c *cli.Context) types.TableRequest {
	req := types.TableRequest{
		Rounds:        c.StringSlice("rounds"),
		ArrowDiameter: c.Float64("arrow-diameter"),
	}
	for name, dst := range map[string]**float64{"min": &req.Min, "max": &req.Max, "step": &req.Step} {
		if c.IsSet(name) {
			v := c.Float64(name)
			*dst = &v
		}
	}
	for name, dst := range map[string]**bool{"unrounded": &req.Rounded, "decimals": &req.IntPrec, "keep-gaps": &req.CleanGaps} {
		if c.IsSet(name) {
			v := !c.Bool(name)
			*dst = &v
		}
	}
	return req
}

func (st *state) buildTable(c *cli.Context) (*table.Table, error) {
	svc, err := st.service(c)
	if err != nil {
		return nil, err
	}
	defer svc.Stop()
	return svc.Table(c.Context, tableRequest(c))
}

func (st *state) tableCommand() *cli.Command {
	return &cli.Command{
		Name:  "table",
		Usage: "handicap table over one or more rounds",
		Flags: append(tableFlags(),
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "text, csv or xlsx", Value: "text"},
		),
		Action: func(c *cli.Context) error {
			var write func(io.Writer, *table.Table) error
			switch format := c.String("format"); format {
			case "text":
				write = func(w io.Writer, t *table.Table) error {
					if err := t.WriteText(w); err != nil {
						return err
					}
					_, err := io.WriteString(w, "\n")
					return err
				}
			case "csv":
				write = func(w io.Writer, t *table.Table) error { return t.WriteCSV(w) }
			case "xlsx":
				write = export.WriteXLSX
			default:
				return fmt.Errorf("%w: %q", errUnknownFormat, format)
			}

			tbl, err := st.buildTable(c)
			if err != nil {
				return err
			}
			return writeOutput(c, tbl, write)
		},
	}
}

func (st *state) chartCommand() *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "PNG chart of score against handicap",
		Flags: tableFlags(),
		Action: func(c *cli.Context) error {
			tbl, err := st.buildTable(c)
			if err != nil {
				return err
			}
			return writeOutput(c, tbl, export.WritePNG)
		},
	}
}

func (st *state) roundsCommand() *cli.Command {
	return &cli.Command{
		Name:  "rounds",
		Usage: "list catalogue rounds",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "location", Usage: "indoor, outdoor or field"},
			&cli.StringFlag{Name: "body", Usage: "governing body, e.g. WA or AGB"},
			&cli.StringFlag{Name: "family", Usage: "round family"},
		},
		Action: func(c *cli.Context) error {
			svc, err := st.service(c)
			if err != nil {
				return err
			}
			defer svc.Stop()

			rounds, err := svc.Rounds(c.Context, repository.Filter{
				Location: c.String("location"),
				Body:     c.String("body"),
				Family:   c.String("family"),
			})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CODENAME\tNAME\tLOCATION\tBODY\tARROWS\tMAX")
			for _, r := range rounds {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", r.Codename, r.Name, r.Location, r.Body, r.Arrows, formatFloat(r.MaxScore))
			}
			return tw.Flush()
		},
	}
}

// writeOutput writes tbl to the --output file, or the app writer for "-".
func writeOutput(c *cli.Context, tbl *table.Table, write func(io.Writer, *table.Table) error) error {
	path := c.String("output")
	if path == "" || path == "-" {
		return write(c.App.Writer, tbl)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := write(f, tbl); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func parseFloats(args []string) ([]float64, error) {
	if len(args) == 0 {
		return nil, errNoValues
	}
	out := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", a, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
