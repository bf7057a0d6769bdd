package paramextract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/expression"
	"github.com/coldb/flowengine/sql/plan"
)

func buildFilterPlan() sql.Node {
	table := plan.NewStoredTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})
	col := expression.NewColumnReference("t", "a", sql.Int64, 0)
	lit := expression.NewLiteral(int64(6), sql.Int64)
	pred := expression.NewBinaryPredicate(expression.Eq, col, lit)
	return plan.NewFilter(pred, table)
}

func TestExtractReplacesLiteral(t *testing.T) {
	root := buildFilterPlan()
	res := Extract(root)

	require.Len(t, res.Values, 1)
	v, err := res.Values[0].Eval(nil)
	require.NoError(t, err)
	require.Equal(t, int64(6), v)

	filt := res.Node.(*plan.Filter)
	bp := filt.Predicate().(*expression.BinaryPredicate)
	ph, ok := bp.Right.(*expression.Placeholder)
	require.True(t, ok)
	require.Equal(t, 0, ph.ParameterID)
}

func TestExtractLeavesNullInPlace(t *testing.T) {
	table := plan.NewStoredTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})
	col := expression.NewColumnReference("t", "a", sql.Int64, 0)
	lit := expression.NewLiteral(nil, sql.Null)
	pred := expression.NewBinaryPredicate(expression.Eq, col, lit)
	root := plan.NewFilter(pred, table)

	res := Extract(root)
	require.Empty(t, res.Values)

	filt := res.Node.(*plan.Filter)
	bp := filt.Predicate().(*expression.BinaryPredicate)
	_, isLit := bp.Right.(*expression.Literal)
	require.True(t, isLit, "NULL literal should not be parameterized")
}

func TestExtractIdempotent(t *testing.T) {
	root := buildFilterPlan()
	first := Extract(root)
	require.Len(t, first.Values, 1)

	second := Extract(first.Node)
	require.Empty(t, second.Values, "re-extracting an already-parameterized plan finds no new literals")
	require.Len(t, first.Values, 1, "the first call's value vector must not be touched by a later call")
}

func TestExtractSharedLiteralMapsToSamePlaceholder(t *testing.T) {
	table := plan.NewStoredTable("t", sql.Schema{
		{Name: "a", Table: "t", Type: sql.Int64},
		{Name: "b", Table: "t", Type: sql.Int64},
	})
	shared := expression.NewLiteral(int64(5), sql.Int64)
	colA := expression.NewColumnReference("t", "a", sql.Int64, 0)
	colB := expression.NewColumnReference("t", "b", sql.Int64, 1)
	predA := expression.NewBinaryPredicate(expression.Eq, colA, shared)
	predB := expression.NewBinaryPredicate(expression.Eq, colB, shared)
	both := expression.NewBinaryPredicate(expression.And, predA, predB)
	root := plan.NewFilter(both, table)

	res := Extract(root)
	require.Len(t, res.Values, 1, "the same literal object referenced twice should yield one parameter")

	filt := res.Node.(*plan.Filter)
	top := filt.Predicate().(*expression.BinaryPredicate)
	left := top.Left.(*expression.BinaryPredicate)
	right := top.Right.(*expression.BinaryPredicate)
	ph1 := left.Right.(*expression.Placeholder)
	ph2 := right.Right.(*expression.Placeholder)
	require.Equal(t, ph1.ParameterID, ph2.ParameterID)
}
