package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	derrors "github.com/phpnomad/documentation/internal/errors"
)

// DefaultConfigFile is the configuration path used when --config is not given.
const DefaultConfigFile = "docsite.json"

// Config represents the application configuration.
//
// The file format is JSON; because JSON is a subset of YAML the loader decodes
// with yaml.v3 and YAML files are accepted as well.
type Config struct {
	DocsRoot     string         `yaml:"docsRoot" json:"docsRoot"`
	TemplateRoot string         `yaml:"templateRoot" json:"templateRoot"`
	OutputDir    string         `yaml:"outputDir" json:"outputDir"`
	AssetDirs    []string       `yaml:"assetDirs" json:"assetDirs"`
	SiteTitle    string         `yaml:"siteTitle" json:"siteTitle"`
	StrictRoutes bool           `yaml:"strictRoutes" json:"strictRoutes"`
	Markdown     MarkdownConfig `yaml:"markdown" json:"markdown"`

	// Source is the file the configuration was read from; empty when defaults were used.
	Source string `yaml:"-" json:"-"`
}

// MarkdownConfig controls the goldmark engine used by the renderer.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions,omitempty" json:"extensions,omitempty"`
	Unsafe     *bool    `yaml:"unsafe,omitempty" json:"unsafe,omitempty"`
}

// AllowRawHTML reports whether raw HTML in Markdown is passed through. Defaults to true.
func (m MarkdownConfig) AllowRawHTML() bool {
	return m.Unsafe == nil || *m.Unsafe
}

// Default returns a configuration populated with defaults only.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads configuration from the specified file. A missing file yields the
// defaults; a present but unreadable or malformed file is an error.
func Load(configPath string) (*Config, error) {
	// .env files are optional
	if loaded, err := loadEnvFile(); err == nil {
		slog.Debug("Loaded environment variables", slog.String("file", loaded))
	}

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Expand environment variables in the raw content
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, derrors.ConfigNotReadable(configPath, fmt.Errorf("failed to unmarshal config: %w", err))
		}
		cfg.Source = configPath
	case os.IsNotExist(err):
		slog.Debug("Configuration file not found, using defaults", slog.String("path", configPath))
	default:
		return nil, derrors.ConfigNotReadable(configPath, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init creates a new configuration file with the default values.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return derrors.FileSystem("mkdir", dir, err)
		}
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return derrors.FileSystem("write", configPath, err)
	}
	return nil
}

// TemplatesDir is where page and not-found template overrides are looked up.
func (c *Config) TemplatesDir() string {
	return filepath.Join(c.TemplateRoot, "templates")
}
