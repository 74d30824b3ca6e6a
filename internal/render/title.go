package render

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractTitle returns the text of the first <h1> in an HTML fragment, or "".
func ExtractTitle(fragment []byte) string {
	doc, err := html.Parse(bytes.NewReader(fragment))
	if err != nil {
		return ""
	}
	h1 := findFirst(doc, atom.H1)
	if h1 == nil {
		return ""
	}
	var sb strings.Builder
	collectText(h1, &sb)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
