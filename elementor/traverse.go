package elementor

// Walk visits every node of the forest in pre-order, depth first: a node is
// visited before its children, children before the next sibling. Roots are at
// depth 0. When visit returns true the traversal stops immediately and Walk
// returns true; a fully exhausted traversal returns false.
func Walk(roots []*Node, visit func(n *Node, depth int) bool) bool {
	return walk(roots, 0, visit)
}

func walk(nodes []*Node, depth int, visit func(n *Node, depth int) bool) bool {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if visit(n, depth) {
			return true
		}
		if walk(n.Elements, depth+1, visit) {
			return true
		}
	}
	return false
}

// FindByID returns the first node in pre-order whose id matches, or nil.
func FindByID(roots []*Node, id string) *Node {
	var found *Node
	Walk(roots, func(n *Node, _ int) bool {
		if n.ID == id {
			found = n
			return true
		}
		return false
	})
	return found
}

// FindParent locates the node owning id. For a top-level node parent is nil
// and index is the position in roots; otherwise parent is the direct owner
// and index the position within parent.Elements. ok is false when the id does
// not occur anywhere in the forest.
func FindParent(roots []*Node, id string) (parent *Node, index int, ok bool) {
	for i, n := range roots {
		if n.ID == id {
			return nil, i, true
		}
	}
	Walk(roots, func(n *Node, _ int) bool {
		for i, child := range n.Elements {
			if child.ID == id {
				parent, index, ok = n, i, true
				return true
			}
		}
		return false
	})
	return parent, index, ok
}

// Filter collects, in pre-order, every node satisfying pred. Nodes are
// returned by reference.
func Filter(roots []*Node, pred func(n *Node) bool) []*Node {
	var out []*Node
	Walk(roots, func(n *Node, _ int) bool {
		if pred(n) {
			out = append(out, n)
		}
		return false
	})
	return out
}

// FlatNode pairs a node with its depth in the forest.
type FlatNode struct {
	Node  *Node
	Depth int
}

// Flatten returns every node of the forest with its depth, in pre-order.
func Flatten(roots []*Node) []FlatNode {
	var out []FlatNode
	Walk(roots, func(n *Node, depth int) bool {
		out = append(out, FlatNode{Node: n, Depth: depth})
		return false
	})
	return out
}

// CountNodes returns the number of nodes in the forest.
func CountNodes(roots []*Node) int {
	count := 0
	Walk(roots, func(_ *Node, _ int) bool {
		count++
		return false
	})
	return count
}
