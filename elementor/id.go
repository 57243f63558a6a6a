package elementor

import "math/rand/v2"

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
const idLength = 8

// NewID returns a short element identifier in the builder's style: eight
// lowercase alphanumeric characters. Uniqueness is probabilistic, which is
// plenty for the element counts a single page can hold.
func NewID() string {
	b := make([]byte, idLength)
	for i := range b {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return string(b)
}

// RegenerateIDs returns a deep copy of the subtree rooted at n in which every
// node, the root included, carries a freshly generated id. The input is left
// untouched.
func RegenerateIDs(n *Node) *Node {
	c := n.Clone()
	Walk([]*Node{c}, func(node *Node, _ int) bool {
		node.ID = NewID()
		return false
	})
	return c
}
