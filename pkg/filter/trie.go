package filter

type node struct {
	children map[rune]*node
	end      bool
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// insert adds term below n and reports whether it was not already present.
// Empty terms are rejected, otherwise the root itself would become a term end.
func (n *node) insert(term string) bool {
	if term == "" {
		return false
	}

	cur := n
	for _, r := range term {
		next, ok := cur.children[r]
		if !ok {
			next = newNode()
			cur.children[r] = next
		}
		cur = next
	}

	if cur.end {
		return false
	}
	cur.end = true
	return true
}

func (n *node) childAt(r rune) *node {
	return n.children[r]
}

func (n *node) isLeaf() bool {
	return len(n.children) == 0
}
