package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/okian/archery-handicaps/internal/adapters/http/api"
	"github.com/okian/archery-handicaps/internal/adapters/http/site"
	"github.com/okian/archery-handicaps/internal/adapters/http/swagger"
	app "github.com/okian/archery-handicaps/internal/app"
	"github.com/okian/archery-handicaps/internal/config"
	"github.com/okian/archery-handicaps/pkg/logger"
	"github.com/okian/archery-handicaps/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newApp(os.Stdout).RunContext(ctx, os.Args)
	stop()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// newApp builds the command line application; command output goes to out.
func newApp(out io.Writer) *cli.App {
	st := &state{}

	return &cli.App{
		Name:      "archery",
		Usage:     "archery handicap scores, lookups and tables",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML config file", EnvVars: []string{config.EnvFile}},
			&cli.StringFlag{Name: "rounds-file", Usage: "extra round definitions loaded over the bundled catalogue"},
			&cli.StringFlag{Name: "scheme", Aliases: []string{"s"}, Usage: "handicap scheme: AGB, AGBold, AA or AA2"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Before: func(c *cli.Context) error {
			loaded, err := config.LoadFrom(c.Context, c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if c.IsSet("rounds-file") {
				loaded.RoundsFile = c.String("rounds-file")
			}
			if c.IsSet("scheme") {
				loaded.Scheme = c.String("scheme")
			}
			if c.IsSet("log-level") {
				loaded.LogLevel = c.String("log-level")
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
			if err := logger.SetLevelString(loaded.LogLevel); err != nil {
				return err
			}
			st.cfg = loaded
			return nil
		},
		Commands: []*cli.Command{
			st.serveCommand(),
			st.scoreCommand(),
			st.handicapCommand(),
			st.tableCommand(),
			st.chartCommand(),
			st.roundsCommand(),
		},
	}
}

// newService starts a service configured from cfg.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	svc := app.New(
		app.WithLogger(log),
		app.WithRoundsFile(cfg.RoundsFile),
		app.WithDefaultScheme(cfg.Scheme),
		app.WithArrowDiameter(cfg.ArrowDiameter),
		app.WithTableWorkers(cfg.TableWorkers),
		app.WithMaxTableRows(cfg.MaxTableRows),
		app.WithTableGrid(cfg.TableMin, cfg.TableMax, cfg.TableStep),
		app.WithTableFlags(cfg.TableRounded, cfg.TableIntPrec, cfg.TableCleanGaps),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start service: %w", err)
	}
	return svc, nil
}

// newMux registers the docs, API and landing page routes.
func newMux(ctx context.Context, svc *app.Service, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, log.Named("api")).Register(ctx, mux)
	site.Register(ctx, mux)
	return mux
}

// serve runs the HTTP server until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, err := newService(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(ctx, "shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "server shutdown failed", logger.Error(err))
			return err
		}
		return nil
	})

	err = g.Wait()
	log.Info(ctx, "server stopped")
	return err
}

// startSystemMetricsUpdater refreshes system gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
