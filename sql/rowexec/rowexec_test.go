package rowexec

import (
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/expression"
	"github.com/coldb/flowengine/sql/plan"
	"github.com/coldb/flowengine/storage"
)

func seedTable(sm *storage.Manager) {
	sm.CreateTable("t", sql.Schema{
		{Name: "a", Table: "t", Type: sql.Int64},
		{Name: "b", Table: "t", Type: sql.Text},
	})
	tbl, _ := sm.GetTable("t")
	concrete := tbl.(*storage.Table)
	concrete.Insert(sql.Row{int64(1), "x"})
	concrete.Insert(sql.Row{int64(6), "y"})
	concrete.Insert(sql.Row{int64(6), "z"})
}

func TestTranslateAndExecuteScanFilter(t *testing.T) {
	sm := storage.NewManager()
	seedTable(sm)

	st := plan.NewStoredTable("t", sql.Schema{
		{Name: "a", Table: "t", Type: sql.Int64},
		{Name: "b", Table: "t", Type: sql.Text},
	})
	cr := expression.NewColumnReference("t", "a", sql.Int64, 0)
	pred := expression.NewBinaryPredicate(expression.Eq, cr, expression.NewLiteral(int64(6), sql.Int64))
	f := plan.NewFilter(pred, st)

	op, err := Translate(sm, f)
	require.NoError(t, err)
	require.NoError(t, op.Execute())
	rows, _ := op.GetOutput()
	require.Len(t, rows, 2)
}

func TestTranslateUnknownTable(t *testing.T) {
	sm := storage.NewManager()
	st := plan.NewStoredTable("missing", nil)
	_, err := Translate(sm, st)
	require.True(t, sql.ErrNotFound.Is(err))
}

func TestExecuteIsIdempotent(t *testing.T) {
	sm := storage.NewManager()
	seedTable(sm)
	st := plan.NewStoredTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})
	op, err := Translate(sm, st)
	require.NoError(t, err)
	require.NoError(t, op.Execute())
	rows1, _ := op.GetOutput()
	require.NoError(t, op.Execute())
	rows2, _ := op.GetOutput()
	require.Equal(t, rows1, rows2)
}

func TestCreateTableOperator(t *testing.T) {
	sm := storage.NewManager()
	op := NewCreateTable(sm, "new", sql.Schema{{Name: "a", Table: "new", Type: sql.Int64}})
	require.NoError(t, op.Execute())
	require.True(t, sm.HasTable("new"))
}

func TestDropTableOperator(t *testing.T) {
	sm := storage.NewManager()
	sm.CreateTable("t", nil)
	op := NewDropTable(sm, "t")
	require.NoError(t, op.Execute())
	require.False(t, sm.HasTable("t"))
}

func TestImportOperatorMissingFile(t *testing.T) {
	sm := storage.NewManager()
	sm.CreateTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})
	op := NewImport(sm, "/no/such/file.csv", "t")
	err := op.Execute()
	require.True(t, sql.ErrFileNotFound.Is(err))
}

func TestImportOperatorLoadsRows(t *testing.T) {
	sm := storage.NewManager()
	sm.CreateTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})

	f, err := os.CreateTemp("", "rowexec-import-*.csv")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	_, _ = f.WriteString("1\n2\n3\n")
	f.Close()

	op := NewImport(sm, f.Name(), "t")
	require.NoError(t, op.Execute())
	tbl, _ := sm.GetTable("t")
	require.Len(t, tbl.Rows(), 3)
}

func TestImportOperatorCoercesDecimalColumn(t *testing.T) {
	sm := storage.NewManager()
	sm.CreateTable("prices", sql.Schema{{Name: "p", Table: "prices", Type: sql.Decimal}})

	f, err := os.CreateTemp("", "rowexec-import-decimal-*.csv")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	_, _ = f.WriteString("19.99\n5\n")
	f.Close()

	op := NewImport(sm, f.Name(), "prices")
	require.NoError(t, op.Execute())
	tbl, _ := sm.GetTable("prices")
	rows := tbl.Rows()
	require.Len(t, rows, 2)
	dec, ok := rows[0][0].(decimal.Decimal)
	require.True(t, ok)
	require.True(t, dec.Equal(decimal.RequireFromString("19.99")))
}

func TestLimitOperator(t *testing.T) {
	sm := storage.NewManager()
	seedTable(sm)
	st := plan.NewStoredTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})
	scanOp, err := Translate(sm, st)
	require.NoError(t, err)
	limited := NewLimit(1, scanOp)
	require.NoError(t, limited.Execute())
	rows, _ := limited.GetOutput()
	require.Len(t, rows, 1)
}

func TestDeepCopyProducesIndependentOperator(t *testing.T) {
	sm := storage.NewManager()
	seedTable(sm)
	st := plan.NewStoredTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})
	op, err := Translate(sm, st)
	require.NoError(t, err)
	require.NoError(t, op.Execute())

	clone := op.DeepCopy()
	require.False(t, clone.(*ScanOperator).executed)
	require.NoError(t, clone.Execute())
	rows, _ := clone.GetOutput()
	require.NotEmpty(t, rows)
}
