package commands

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/phpnomad/documentation/internal/metrics"
	"github.com/phpnomad/documentation/internal/server"
	"github.com/phpnomad/documentation/internal/site"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr    string `help:"Listen address" default:":8080"`
	Metrics bool   `help:"Expose Prometheus metrics on /metrics"`
}

func (c *ServeCmd) Run(globals *Global, root *CLI) error {
	var (
		siteOpts []site.Option
		srvOpts  []server.Option
	)
	if c.Metrics {
		reg := prometheus.NewRegistry()
		siteOpts = append(siteOpts, site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
		srvOpts = append(srvOpts, server.WithMetrics(reg))
	}

	s, err := root.loadSite(siteOpts...)
	if err != nil {
		return err
	}
	cfg := s.Config()
	srv := server.New(c.Addr, s.Handler(), server.Assets{Root: cfg.TemplateRoot, Dirs: cfg.AssetDirs}, srvOpts...)
	return srv.Run(globals.ctx())
}
