package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/stats"
)

func TestManagerCreateAndGetTable(t *testing.T) {
	m := NewManager()
	require.False(t, m.HasTable("orders"))

	schema := sql.Schema{{Name: "id", Table: "orders", Type: sql.Int64}}
	m.CreateTable("orders", schema)

	require.True(t, m.HasTable("orders"))
	tbl, ok := m.GetTable("orders")
	require.True(t, ok)
	require.Equal(t, "orders", tbl.Name())
	require.Equal(t, schema, tbl.Schema())
}

func TestManagerDropTable(t *testing.T) {
	m := NewManager()
	m.CreateTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})
	m.DropTable("t")
	require.False(t, m.HasTable("t"))
	_, ok := m.GetTable("t")
	require.False(t, ok)
}

func TestManagerViewsAndPreparedPlans(t *testing.T) {
	m := NewManager()
	require.False(t, m.HasView("v"))
	m.CreateView("v", nil)
	require.True(t, m.HasView("v"))
	m.DropView("v")
	require.False(t, m.HasView("v"))

	require.False(t, m.HasPreparedPlan("p"))
	m.RegisterPreparedPlan("p")
	require.True(t, m.HasPreparedPlan("p"))
}

func TestManagerTableInsertAndRows(t *testing.T) {
	m := NewManager()
	m.CreateTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})
	tbl, _ := m.GetTable("t")
	concrete := tbl.(*Table)
	concrete.Insert(sql.Row{int64(1)})
	concrete.Insert(sql.Row{int64(2)})
	require.Len(t, concrete.Rows(), 2)
}

func TestManagerTableStatistics(t *testing.T) {
	m := NewManager()
	m.CreateTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})
	_, ok := m.GetTableStatistics("t")
	require.False(t, ok)

	m.SetTableStatistics("t", stats.TableStatistics{TableName: "t"})
	s, ok := m.GetTableStatistics("t")
	require.True(t, ok)
	require.Equal(t, "t", s.TableName)

	m.DropTable("t")
	_, ok = m.GetTableStatistics("t")
	require.False(t, ok)
}
