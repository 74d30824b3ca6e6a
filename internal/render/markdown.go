package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// DefaultExtensions is used when no extension names are configured.
var DefaultExtensions = []string{"gfm"}

// newMarkdown builds a goldmark engine. Unknown extension names are skipped
// with their names returned so callers can warn about them.
func newMarkdown(names []string, unsafe bool) (goldmark.Markdown, []string) {
	if len(names) == 0 {
		names = DefaultExtensions
	}

	var (
		exts    []goldmark.Extender
		unknown []string
	)
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		ext, ok := extensionRegistry[key]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		exts = append(exts, ext)
	}

	var rendererOptions []renderer.Option
	if unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return md, unknown
}

func convert(md goldmark.Markdown, source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}
	return buf.Bytes(), nil
}
