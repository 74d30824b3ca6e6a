package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/phpnomad/documentation/internal/compile"
	"github.com/phpnomad/documentation/internal/config"
	derrors "github.com/phpnomad/documentation/internal/errors"
	"github.com/phpnomad/documentation/internal/logfields"
	"github.com/phpnomad/documentation/internal/metrics"
	"github.com/phpnomad/documentation/internal/server"
	"github.com/phpnomad/documentation/internal/site"
	"github.com/phpnomad/documentation/internal/watch"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Output      string `short:"o" help:"Output directory (overrides the configuration)" type:"path"`
	Watch       bool   `short:"w" help:"Recompile whenever the docs or template roots change"`
	Report      string `help:"Write a JSON compile report to this file" type:"path"`
	MetricsAddr string `help:"Serve Prometheus compile metrics on this address while watching, e.g. :9090"`
}

func (g *GenerateCmd) Run(globals *Global, root *CLI) error {
	if g.MetricsAddr != "" && !g.Watch {
		return derrors.ValidationFailed("metrics-addr", "requires --watch")
	}
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if g.Output != "" {
		cfg.OutputDir = g.Output
	}

	ctx, cancel := context.WithCancel(globals.ctx())
	defer cancel()

	var (
		rec    metrics.Recorder = metrics.NoopRecorder{}
		srvErr chan error
	)
	if g.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
		srv := server.New(g.MetricsAddr, http.NotFoundHandler(), server.Assets{}, server.WithMetrics(reg))
		srvErr = make(chan error, 1)
		go func() {
			err := srv.Run(ctx)
			if err != nil {
				cancel()
			}
			srvErr <- err
		}()
	}

	_, err = g.compile(ctx, globals, cfg, rec)
	if !g.Watch {
		return err
	}
	if err != nil {
		slog.Error("Compile failed; waiting for changes", logfields.Error(err))
	}

	w := watch.New([]string{cfg.DocsRoot, cfg.TemplateRoot}, watch.WithExclude(cfg.OutputDir))
	err = w.Run(ctx, func(ctx context.Context) {
		if _, err := g.compile(ctx, globals, cfg, rec); err != nil {
			slog.Error("Recompile failed", logfields.Error(err))
		}
	})
	if srvErr != nil {
		cancel()
		if serr := <-srvErr; serr != nil {
			return serr
		}
	}
	return err
}

// compile runs one full pass. The site is reassembled every time so template
// edits are picked up.
func (g *GenerateCmd) compile(ctx context.Context, globals *Global, cfg *config.Config, rec metrics.Recorder) (*compile.Report, error) {
	s, err := site.New(cfg, site.WithRecorder(rec))
	if err != nil {
		return nil, err
	}
	orch := compile.New(compile.NewContext(cfg.OutputDir, cfg.TemplateRoot, cfg.AssetDirs), s, compile.WithRecorder(rec))
	report, runErr := orch.Run(ctx)

	if g.Report != "" {
		if err := report.Persist(g.Report); err != nil {
			slog.Warn("Failed to write compile report", logfields.Path(g.Report), logfields.Error(err))
		}
	}
	_, _ = fmt.Fprintln(globals.Stdout, report.Summary())
	return report, runErr
}
