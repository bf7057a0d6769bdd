package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/expression"
	"github.com/coldb/flowengine/sql/plan"
)

func baseScan() sql.Node {
	return plan.NewStoredTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})
}

func TestEliminateTrivialFilterDropsTrueLiteral(t *testing.T) {
	scan := baseScan()
	f := plan.NewFilter(expression.NewLiteral(true, sql.Boolean), scan)
	opt := New(EliminateTrivialFilter)
	out := opt.Optimize(f)
	require.Equal(t, scan, out)
}

func TestEliminateTrivialFilterKeepsFalseLiteral(t *testing.T) {
	scan := baseScan()
	f := plan.NewFilter(expression.NewLiteral(false, sql.Boolean), scan)
	opt := New(EliminateTrivialFilter)
	out := opt.Optimize(f)
	_, isFilter := out.(*plan.Filter)
	require.True(t, isFilter)
}

func TestCombineConsecutiveLimits(t *testing.T) {
	scan := baseScan()
	inner := plan.NewLimit(5, scan)
	outer := plan.NewLimit(10, inner)
	opt := New(CombineConsecutiveLimits)
	out := opt.Optimize(outer)
	combined, ok := out.(*plan.Limit)
	require.True(t, ok)
	require.Equal(t, int64(5), combined.Count)
	_, innerIsLimit := combined.Children()[0].(*plan.Limit)
	require.False(t, innerIsLimit)
}

func TestFoldConstantComparisonThenEliminate(t *testing.T) {
	scan := baseScan()
	pred := expression.NewBinaryPredicate(expression.Eq, expression.NewLiteral(int64(1), sql.Int64), expression.NewLiteral(int64(1), sql.Int64))
	f := plan.NewFilter(pred, scan)
	opt := New(DefaultRules()...)
	out := opt.Optimize(f)
	require.Equal(t, scan, out)
}

func TestPruningOptimizerIsSafeAfterBinding(t *testing.T) {
	scan := baseScan()
	cr := expression.NewColumnReference("t", "a", sql.Int64, 0)
	pred := expression.NewBinaryPredicate(expression.Eq, cr, expression.NewLiteral(int64(6), sql.Int64))
	f := plan.NewFilter(pred, scan)
	out := NewPruningOptimizer().Optimize(f)
	_, ok := out.(*plan.Filter)
	require.True(t, ok, "predicate over a column reference cannot be constant-folded")
}
