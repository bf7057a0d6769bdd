package stats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/expression"
	"github.com/coldb/flowengine/sql/plan"
)

type mapProvider map[string]TableStatistics

func (m mapProvider) GetTableStatistics(name string) (TableStatistics, bool) {
	t, ok := m[name]
	return t, ok
}

func buildScan(table, col string) sql.Node {
	st := plan.NewStoredTable(table, sql.Schema{{Name: col, Table: table, Type: sql.Int64}})
	cr := expression.NewColumnReference(table, col, sql.Int64, 0)
	lit := expression.NewLiteral(int64(1), sql.Int64)
	pred := expression.NewBinaryPredicate(expression.Eq, cr, lit)
	return plan.NewFilter(pred, st)
}

func TestGateUniformTable(t *testing.T) {
	provider := mapProvider{
		"t": {TableName: "t", Columns: map[string]ColumnStatistics{
			"a": {ColumnName: "a", Histogram: UniformHistogram{Deviation: 0}},
		}},
	}
	gate := NewGate(provider)
	require.True(t, gate.IsUniformlyDistributed(buildScan("t", "a"), DefaultThreshold))
}

func TestGateNonUniformTable(t *testing.T) {
	provider := mapProvider{
		"t": {TableName: "t", Columns: map[string]ColumnStatistics{
			"a": {ColumnName: "a", Histogram: UniformHistogram{Deviation: 500}},
		}},
	}
	gate := NewGate(provider)
	require.False(t, gate.IsUniformlyDistributed(buildScan("t", "a"), 1.0))
}

func TestGateNoStatisticsTreatedAsUniform(t *testing.T) {
	gate := NewGate(mapProvider{})
	require.True(t, gate.IsUniformlyDistributed(buildScan("t", "a"), 1.0))
}
