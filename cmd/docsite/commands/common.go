// Package commands implements the docsite command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/phpnomad/documentation/internal/config"
	"github.com/phpnomad/documentation/internal/site"
	"github.com/phpnomad/documentation/internal/version"
)

// LogLevelEnv overrides the log level when --verbose is not given.
const LogLevelEnv = "DOCSITE_LOG_LEVEL"

// Global is shared state passed to every subcommand.
type Global struct {
	Context context.Context
	Stdout  io.Writer
	Stderr  io.Writer
}

func (g *Global) ctx() context.Context {
	if g.Context == nil {
		return context.Background()
	}
	return g.Context
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsite.json" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Compile the documentation tree into static HTML"`
	Render   RenderCmd   `cmd:"" help:"Render a single request path to stdout without writing files"`
	Serve    ServeCmd    `cmd:"" help:"Serve the documentation, rendering every request fresh"`
	Routes   RoutesCmd   `cmd:"" help:"List endpoints in enumeration order"`
	Nav      NavCmd      `cmd:"" help:"Print the navigation tree as JSON"`
	Init     InitCmd     `cmd:"" help:"Write a default configuration file"`
}

// NewParser builds the kong parser for cli. globals is bound for Run methods.
func NewParser(cli *CLI, globals *Global, opts ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("docsite"),
		kong.Description("Compile a Markdown documentation tree into a static HTML site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(globals),
	}
	if globals.Stdout != nil {
		base = append(base, kong.Writers(globals.Stdout, globals.Stderr))
	}
	return kong.New(cli, append(base, opts...)...)
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if v := os.Getenv(LogLevelEnv); v != "" {
		if err := level.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			level = slog.LevelInfo
		}
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the configuration named by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.Config)
}

// loadSite reads the configuration and assembles the site, failing early
// when an input root is missing.
func (c *CLI) loadSite(opts ...site.Option) (*site.Site, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	s, err := site.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}
