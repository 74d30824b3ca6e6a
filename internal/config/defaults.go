package config

// Default values.
const (
	DefaultDocsRoot     = "public/docs"
	DefaultTemplateRoot = "public"
	DefaultOutputDir    = "dist"
	DefaultSiteTitle    = "Documentation"
)

// DefaultAssetDirs are copied from the template root into <output>/public.
var DefaultAssetDirs = []string{"assets"}

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

// PathsDefaultApplier handles the docs, template and output locations.
type PathsDefaultApplier struct{}

func (PathsDefaultApplier) Domain() string { return "paths" }

func (PathsDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.DocsRoot == "" {
		cfg.DocsRoot = DefaultDocsRoot
	}
	if cfg.TemplateRoot == "" {
		cfg.TemplateRoot = DefaultTemplateRoot
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.AssetDirs == nil {
		cfg.AssetDirs = append([]string(nil), DefaultAssetDirs...)
	}
}

// SiteDefaultApplier handles presentation defaults.
type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.SiteTitle == "" {
		cfg.SiteTitle = DefaultSiteTitle
	}
}

var defaultAppliers = []DefaultApplier{
	PathsDefaultApplier{},
	SiteDefaultApplier{},
}

func applyDefaults(cfg *Config) {
	for _, a := range defaultAppliers {
		a.ApplyDefaults(cfg)
	}
}
