package prepared

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coldb/flowengine/paramextract"
	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/expression"
	"github.com/coldb/flowengine/sql/plan"
)

func buildPlanAndExtract() (paramextract.Result, sql.Node) {
	table := plan.NewStoredTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})
	col := expression.NewColumnReference("t", "a", sql.Int64, 0)
	lit := expression.NewLiteral(int64(6), sql.Int64)
	pred := expression.NewBinaryPredicate(expression.Eq, col, lit)
	original := plan.NewFilter(pred, table)
	res := paramextract.Extract(original)
	return res, original
}

func TestRoundTrip(t *testing.T) {
	res, original := buildPlanAndExtract()

	pp := New(res.Node, []int{0}, []sql.DataType{sql.Int64}, true)
	instantiated, err := pp.Instantiate(res.Values)
	require.NoError(t, err)

	require.Equal(t, plan.Canonical(original), plan.Canonical(instantiated))
}

func TestInstantiateArityMismatch(t *testing.T) {
	res, _ := buildPlanAndExtract()
	pp := New(res.Node, []int{0}, []sql.DataType{sql.Int64}, true)

	_, err := pp.Instantiate(nil)
	require.Error(t, err)
	require.True(t, sql.ErrArityMismatch.Is(err))
}

func TestInstantiateTypeMismatch(t *testing.T) {
	res, _ := buildPlanAndExtract()
	pp := New(res.Node, []int{0}, []sql.DataType{sql.Int64}, true)

	_, err := pp.Instantiate([]sql.Expression{expression.NewLiteral("not an int", sql.Text)})
	require.Error(t, err)
	require.True(t, sql.ErrTypeMismatch.Is(err))
}

func TestInstantiateDifferentValuesEachTime(t *testing.T) {
	res, _ := buildPlanAndExtract()
	pp := New(res.Node, []int{0}, []sql.DataType{sql.Int64}, true)

	n1, err := pp.Instantiate([]sql.Expression{expression.NewLiteral(int64(42), sql.Int64)})
	require.NoError(t, err)
	n2, err := pp.Instantiate(res.Values) // back to 6
	require.NoError(t, err)

	require.NotEqual(t, plan.Canonical(n1), plan.Canonical(n2))
}
