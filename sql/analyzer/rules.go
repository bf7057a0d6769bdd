package analyzer

import (
	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/expression"
	"github.com/coldb/flowengine/sql/plan"
)

// EliminateTrivialFilter drops a Filter whose predicate is the constant
// literal `true`, since it passes every row through unchanged. Grounded
// in the teacher's analyzer "eliminate_filters" style constant-folding
// rule class.
func EliminateTrivialFilter(n sql.Node) (sql.Node, bool) {
	f, ok := n.(*plan.Filter)
	if !ok {
		return n, false
	}
	lit, ok := f.Predicate().(*expression.Literal)
	if !ok {
		return n, false
	}
	if b, ok := lit.Value.(bool); ok && b {
		return f.Children()[0], true
	}
	return n, false
}

// CombineConsecutiveLimits collapses a Limit directly feeding another
// Limit into a single Limit with the smaller of the two counts, the
// standard "limit of a limit" simplification.
func CombineConsecutiveLimits(n sql.Node) (sql.Node, bool) {
	outer, ok := n.(*plan.Limit)
	if !ok {
		return n, false
	}
	inner, ok := outer.Children()[0].(*plan.Limit)
	if !ok {
		return n, false
	}
	count := outer.Count
	if inner.Count < count {
		count = inner.Count
	}
	return plan.NewLimit(count, inner.Children()[0]), true
}

// FoldConstantComparison evaluates a BinaryPredicate whose operands are
// both Literal values at optimization time and replaces it with the
// resulting boolean Literal, so a downstream EliminateTrivialFilter pass
// (or the scheduler never needing to evaluate it per row) can act on it.
func FoldConstantComparison(n sql.Node) (sql.Node, bool) {
	f, ok := n.(*plan.Filter)
	if !ok {
		return n, false
	}
	bp, ok := f.Predicate().(*expression.BinaryPredicate)
	if !ok {
		return n, false
	}
	if _, ok := bp.Left.(*expression.Literal); !ok {
		return n, false
	}
	if _, ok := bp.Right.(*expression.Literal); !ok {
		return n, false
	}
	result, err := bp.Eval(nil)
	if err != nil {
		return n, false
	}
	return plan.NewFilter(expression.NewLiteral(result, sql.Boolean), f.Children()[0]), true
}

// DefaultRules is the rule batch the main optimizer runs by default,
// grounded in the teacher's standard analyzer batch ordering (resolve,
// then simplify, then prune).
func DefaultRules() []Rule {
	return []Rule{
		FoldConstantComparison,
		EliminateTrivialFilter,
		CombineConsecutiveLimits,
	}
}
