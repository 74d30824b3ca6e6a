package nav

// Walk visits nodes depth-first in order. Returning false from fn skips the
// node's children.
func Walk(nodes []Node, fn func(n Node, depth int) bool) {
	walk(nodes, 0, fn)
}

func walk(nodes []Node, depth int, fn func(Node, int) bool) {
	for _, n := range nodes {
		if fn(n, depth) && len(n.Children) > 0 {
			walk(n.Children, depth+1, fn)
		}
	}
}

// OpenTrail returns the chain of open nodes from the top level down, suitable
// for a breadcrumb. Returned nodes have their Children stripped.
func OpenTrail(nodes []Node) []Node {
	var trail []Node
	for {
		next := -1
		for i := range nodes {
			if nodes[i].IsOpen {
				next = i
				break
			}
		}
		if next < 0 {
			return trail
		}
		n := nodes[next]
		nodes = n.Children
		n.Children = nil
		trail = append(trail, n)
	}
}

// Find returns the first node whose Path equals path.
func Find(nodes []Node, path string) (Node, bool) {
	var found Node
	ok := false
	Walk(nodes, func(n Node, _ int) bool {
		if ok {
			return false
		}
		if n.Path != "" && n.Path == path {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}
