// Package compile runs a compile pass: clean the output directory, render
// every route to disk and copy the asset directories.
package compile

import (
	"path/filepath"

	"github.com/google/uuid"
)

// PublicDir is the output subdirectory that receives copied assets.
const PublicDir = "public"

// Context describes one compile invocation. It is created per Run and never
// persisted.
type Context struct {
	OutputDir    string
	TemplateRoot string
	AssetDirs    []string
	BuildID      string
}

// NewContext returns a Context with a fresh build ID.
func NewContext(outputDir, templateRoot string, assetDirs []string) Context {
	return Context{
		OutputDir:    outputDir,
		TemplateRoot: templateRoot,
		AssetDirs:    append([]string(nil), assetDirs...),
		BuildID:      uuid.NewString(),
	}
}

// AssetSource is where an asset subdirectory is read from.
func (c Context) AssetSource(sub string) string {
	return filepath.Join(c.TemplateRoot, sub)
}

// AssetTarget is where an asset subdirectory is copied to.
func (c Context) AssetTarget(sub string) string {
	return filepath.Join(c.OutputDir, PublicDir, sub)
}
