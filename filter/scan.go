package filter

// HasTwoAxisColumn reports whether any column reference reachable from n
// declares exactly two axes. The walk ignores the logical meaning of the
// nodes: negations and and/or groups are searched alike. Malformed operands
// count as non-matches, so the function never fails.
func HasTwoAxisColumn(n Node) bool {
	switch n := n.(type) {
	case nil:
		return false
	case And:
		return anyTwoAxisColumn(n.Filters)
	case Or:
		return anyTwoAxisColumn(n.Filters)
	case Not:
		return HasTwoAxisColumn(n.Filter)
	case NumericalComparison:
		if isTwoAxisColumn(n.Lhs) {
			return true
		}
		return isTwoAxisColumn(n.Rhs)
	case IsNA:
		return isTwoAxisColumn(n.Column)
	case Pattern:
		return isTwoAxisColumn(n.Column)
	default:
		return false
	}
}

func anyTwoAxisColumn(nodes []Node) bool {
	for _, child := range nodes {
		if HasTwoAxisColumn(child) {
			return true
		}
	}
	return false
}
