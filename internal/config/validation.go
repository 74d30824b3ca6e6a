package config

import (
	"path/filepath"
	"strings"

	derrors "github.com/phpnomad/documentation/internal/errors"
)

// ValidateConfig checks field-level consistency. Directory existence is not
// checked here; the compile reports RootNotFound when it starts.
func ValidateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return derrors.ValidationFailed("outputDir", "must not be empty")
	}
	if filepath.Clean(cfg.OutputDir) == filepath.Clean(cfg.DocsRoot) {
		return derrors.ValidationFailed("outputDir", "must differ from docsRoot")
	}
	if filepath.Clean(cfg.OutputDir) == filepath.Clean(cfg.TemplateRoot) {
		return derrors.ValidationFailed("outputDir", "must differ from templateRoot")
	}
	for _, dir := range cfg.AssetDirs {
		if err := validateAssetDir(dir); err != nil {
			return err
		}
	}
	return nil
}

func validateAssetDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return derrors.ValidationFailed("assetDirs", "entries must not be empty")
	}
	if filepath.IsAbs(dir) {
		return derrors.ValidationFailed("assetDirs", "entries must be relative to templateRoot: "+dir)
	}
	clean := filepath.ToSlash(filepath.Clean(dir))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return derrors.ValidationFailed("assetDirs", "entries must stay inside templateRoot: "+dir)
	}
	return nil
}
