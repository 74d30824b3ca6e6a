// Package frontmatter separates the optional YAML header of a Markdown document
// from its body. Only the renderer looks at front matter; routing and
// navigation never read it.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a front matter block
// with --- but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Meta holds the front matter keys the page template knows about. Anything
// else ends up in Params.
type Meta struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Params      map[string]any `yaml:",inline"`
}

// Split separates `---` delimited front matter from the Markdown body. When the
// document has no front matter, had is false and body is the full input.
// Both LF and CRLF line endings are recognized.
func Split(content []byte) (raw []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	delim := []byte("---" + nl)
	if !bytes.HasPrefix(content, delim) {
		return nil, content, false, nil
	}

	start := len(delim)
	if bytes.HasPrefix(content[start:], delim) {
		return []byte{}, content[start+len(delim):], true, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closing)
	if idx < 0 {
		// A closing fence on the very last line has no trailing newline.
		if bytes.HasSuffix(content, []byte(nl+"---")) && len(content)-len(nl)-3 >= start {
			end := len(content) - 3
			return content[start:end], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closing):], true, nil
}

// ParseYAML decodes raw front matter (without delimiters) into a generic map.
func ParseYAML(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Parse splits content and decodes its front matter into Meta. Documents
// without front matter yield a zero Meta and the unchanged body.
func Parse(content []byte) (Meta, []byte, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return Meta{}, nil, err
	}
	var meta Meta
	if !had || len(bytes.TrimSpace(raw)) == 0 {
		return meta, body, nil
	}
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return Meta{}, nil, fmt.Errorf("decode front matter: %w", err)
	}
	return meta, body, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
