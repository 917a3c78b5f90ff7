// Package filter models the row-selection filter trees produced by the host
// platform's filter builder and inspects them for column references.
package filter

// Op names the kind of a filter node. The values match the "type" tag of the
// JSON form of the tree.
type Op string

const (
	OpAnd                 Op = "and"
	OpOr                  Op = "or"
	OpNot                 Op = "not"
	OpNumericalComparison Op = "numericalComparison"
	OpIsNA                Op = "isNA"
	OpPattern             Op = "pattern"
)

// Node is a node of a filter tree. The set of implementations is closed: a
// type switch over the concrete types of this package reduces a Node to the
// variant it carries. A nil Node is the absent filter.
type Node interface {
	Op() Op
	node()
}

// And holds child filters that must all match.
type And struct {
	Filters []Node
}

// Or holds child filters of which at least one must match.
type Or struct {
	Filters []Node
}

// Not negates its single child.
type Not struct {
	Filter Node
}

// NumericalComparison compares two operands. Each operand is either a literal
// (number, bool, nil) or a column reference text.
type NumericalComparison struct {
	Lhs     interface{}
	Rhs     interface{}
	MinDiff *float64
}

// IsNA matches rows where Column has no value.
type IsNA struct {
	Column interface{}
}

// Pattern matches the text value of Column against Predicate.
type Pattern struct {
	Column    interface{}
	Predicate PatternPredicate
}

type PatternPredicate struct {
	Type  string `mapstructure:"type" json:"type"`
	Value string `mapstructure:"value" json:"value"`
}

// Unknown carries a node whose tag is not supported by this package. It is
// kept rather than rejected so that newer filter builders do not break
// older readers.
type Unknown struct {
	Type string
}

func (And) Op() Op                 { return OpAnd }
func (Or) Op() Op                  { return OpOr }
func (Not) Op() Op                 { return OpNot }
func (NumericalComparison) Op() Op { return OpNumericalComparison }
func (IsNA) Op() Op                { return OpIsNA }
func (Pattern) Op() Op             { return OpPattern }
func (u Unknown) Op() Op           { return Op(u.Type) }

func (And) node()                 {}
func (Or) node()                  {}
func (Not) node()                 {}
func (NumericalComparison) node() {}
func (IsNA) node()                {}
func (Pattern) node()             {}
func (Unknown) node()             {}
