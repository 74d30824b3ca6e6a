// Package nav builds the sidebar navigation model from the documentation tree.
//
// A tree is built per render against the endpoint being rendered; nodes on the
// path to that endpoint are marked open. Trees are plain values and are never
// cached or shared between renders.
package nav

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/phpnomad/documentation/internal/docs"
	"github.com/phpnomad/documentation/internal/routing"
)

// DefaultRootTitle is the title given to the root index page.
const DefaultRootTitle = "Home"

// Node is one entry of the navigation sidebar. A node without Path is a pure
// grouping folder. Children is non-nil for every node that stems from a
// directory, even when that directory only holds its own index page.
type Node struct {
	Title    string `json:"title"`
	Path     string `json:"path,omitempty"`
	Children []Node `json:"children,omitempty"`
	IsOpen   bool   `json:"isOpen"`
}

// IsFolder reports whether the node represents a directory.
func (n Node) IsFolder() bool { return n.Children != nil }

// HasPath reports whether the node links to a document.
func (n Node) HasPath() bool { return n.Path != "" }

// Title turns a file or directory slug into a display title: separators become
// spaces and every word is capitalized.
func Title(slug string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	// Casers carry state and must not be shared between goroutines.
	return cases.Title(language.Und, cases.NoLower).String(strings.Join(strings.Fields(s), " "))
}

// Builder assembles navigation trees from a file enumeration.
type Builder struct {
	files     docs.FileSource
	rootTitle string
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithRootTitle sets the title of the root index page entry.
func WithRootTitle(title string) BuilderOption {
	return func(b *Builder) { b.rootTitle = title }
}

// NewBuilder creates a Builder that enumerates files on every Build.
func NewBuilder(files docs.FileSource, opts ...BuilderOption) *Builder {
	b := &Builder{files: files, rootTitle: DefaultRootTitle}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build enumerates the files, sorts every level and marks the nodes leading to
// current as open. An empty current leaves every node closed.
func (b *Builder) Build(current string) ([]Node, error) {
	a := newArena()
	for df, err := range b.files.Files() {
		if err != nil {
			return nil, err
		}
		a.add(df, b.rootTitle)
	}

	nodes := a.materialize(a.root)
	sortNodes(nodes)
	if current != "" {
		markOpen(nodes, routing.Normalize(current))
	}
	return nodes, nil
}

// arena owns every node created during construction. Directory levels address
// their sub-folders by segment for stable identity; leaves are appended
// positionally so they never collide with folder keys.
type arena struct {
	entries []entry
	root    level
}

type entry struct {
	title  string
	path   string
	folder bool
	level  level
}

type level struct {
	folders  map[string]int
	children []int
}

func newArena() *arena {
	return &arena{root: level{folders: map[string]int{}}}
}

func (a *arena) levelOf(idx int) *level {
	if idx < 0 {
		return &a.root
	}
	return &a.entries[idx].level
}

// folder returns the arena index of segment under parent, creating it on first use.
func (a *arena) folder(parent int, segment string) int {
	if idx, ok := a.levelOf(parent).folders[segment]; ok {
		return idx
	}
	a.entries = append(a.entries, entry{
		title:  Title(segment),
		folder: true,
		level:  level{folders: map[string]int{}},
	})
	idx := len(a.entries) - 1
	lvl := a.levelOf(parent)
	lvl.folders[segment] = idx
	lvl.children = append(lvl.children, idx)
	return idx
}

func (a *arena) leaf(parent int, title, path string) {
	a.entries = append(a.entries, entry{title: title, path: path})
	idx := len(a.entries) - 1
	lvl := a.levelOf(parent)
	lvl.children = append(lvl.children, idx)
}

func (a *arena) add(df docs.DocFile, rootTitle string) {
	segments := df.RelativeDir()
	parent := -1
	for _, seg := range segments {
		parent = a.folder(parent, seg)
	}

	endpoint := routing.EndpointFor(df)
	switch {
	case df.IsIndex() && parent < 0:
		a.leaf(parent, rootTitle, endpoint)
	case df.IsIndex():
		a.entries[parent].path = endpoint
	default:
		a.leaf(parent, Title(df.Name()), endpoint)
	}
}

func (a *arena) materialize(lvl level) []Node {
	nodes := make([]Node, 0, len(lvl.children))
	for _, idx := range lvl.children {
		e := a.entries[idx]
		n := Node{Title: e.title, Path: e.path}
		if e.folder {
			n.Children = a.materialize(e.level)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// compareNodes orders files before folders, then by natural title, then by path.
func compareNodes(x, y Node) int {
	if c := cmp.Compare(rank(x), rank(y)); c != 0 {
		return c
	}
	if c := NaturalCompare(x.Title, y.Title); c != 0 {
		return c
	}
	return strings.Compare(x.Path, y.Path)
}

// rank treats every directory node as a folder, including one that only holds
// its own index page.
func rank(n Node) int {
	if n.IsFolder() {
		return 1
	}
	return 0
}

func sortNodes(nodes []Node) {
	slices.SortStableFunc(nodes, compareNodes)
	for i := range nodes {
		if nodes[i].Children != nil {
			sortNodes(nodes[i].Children)
		}
	}
}

// markOpen sets IsOpen bottom-up and reports whether any node in nodes is open.
func markOpen(nodes []Node, current string) bool {
	open := false
	for i := range nodes {
		childOpen := markOpen(nodes[i].Children, current)
		nodes[i].IsOpen = childOpen || (nodes[i].Path != "" && nodes[i].Path == current)
		if nodes[i].IsOpen {
			open = true
		}
	}
	return open
}
