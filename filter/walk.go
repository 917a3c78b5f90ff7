package filter

// Walk calls fn for n and then for each of its descendants, depth first.
// Returning false from fn skips the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case And:
		for _, child := range n.Filters {
			Walk(child, fn)
		}
	case Or:
		for _, child := range n.Filters {
			Walk(child, fn)
		}
	case Not:
		Walk(n.Filter, fn)
	}
}

// ColumnRefs returns the column reference texts used by the tree in visiting
// order, without duplicates.
func ColumnRefs(n Node) []string {
	var refs []string
	seen := map[string]bool{}
	add := func(operand interface{}) {
		if !IsColumnRef(operand) {
			return
		}
		text := operand.(string)
		if !seen[text] {
			seen[text] = true
			refs = append(refs, text)
		}
	}

	Walk(n, func(node Node) bool {
		switch node := node.(type) {
		case NumericalComparison:
			add(node.Lhs)
			add(node.Rhs)
		case IsNA:
			add(node.Column)
		case Pattern:
			add(node.Column)
		}
		return true
	})
	return refs
}
