// Package routing maps documentation files onto URL endpoints and holds the
// literal route table used by the dispatcher.
package routing

import (
	"strings"

	"github.com/phpnomad/documentation/internal/docs"
)

// Endpoint derives the URL endpoint for a document from its relative directory
// segments and base name. It is pure: equal inputs give byte-identical output.
//
//	index under a/b  -> /a/b
//	c     under a/b  -> /a/b/c
//	index at root    -> /
func Endpoint(relativeDir []string, name string) string {
	dir := strings.Join(relativeDir, "/")
	if name == docs.IndexName {
		return Normalize("/" + dir)
	}
	if dir == "" {
		return Normalize("/" + name)
	}
	return Normalize("/" + dir + "/" + name)
}

// EndpointFor derives the endpoint of a DocFile.
func EndpointFor(df docs.DocFile) string {
	return Endpoint(df.RelativeDir(), df.Name())
}

// Normalize strips trailing slashes (except for the bare root), collapses
// repeated leading slashes and guarantees exactly one leading slash.
func Normalize(path string) string {
	path = strings.TrimRight(path, "/")
	path = strings.TrimLeft(path, "/")
	return "/" + path
}
