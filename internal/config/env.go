package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvDocsRoot     = "DOCSITE_DOCS_ROOT"
	EnvTemplateRoot = "DOCSITE_TEMPLATE_ROOT"
	EnvOutputDir    = "DOCSITE_OUTPUT_DIR"
	EnvAssetDirs    = "DOCSITE_ASSET_DIRS"
	EnvStrictRoutes = "DOCSITE_STRICT_ROUTES"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFile loads environment variables from the first readable .env/.env.local file.
// Existing process environment variables are not overwritten.
func loadEnvFile() (string, error) {
	for _, envPath := range envFiles {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err == nil {
			return envPath, nil
		}
	}
	return "", errors.New("no .env file found")
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvDocsRoot)); v != "" {
		cfg.DocsRoot = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTemplateRoot)); v != "" {
		cfg.TemplateRoot = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		cfg.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAssetDirs)); v != "" {
		var dirs []string
		for _, d := range strings.Split(v, ",") {
			if d = strings.TrimSpace(d); d != "" {
				dirs = append(dirs, d)
			}
		}
		cfg.AssetDirs = dirs
	}
	if v := strings.TrimSpace(os.Getenv(EnvStrictRoutes)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.StrictRoutes = b
		}
	}
}
