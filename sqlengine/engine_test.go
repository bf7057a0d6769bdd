package sqlengine

import (
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/coldb/flowengine/config"
	"github.com/coldb/flowengine/pipeline"
	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/storage"
	"github.com/coldb/flowengine/txn"
)

func newTestEngine() *Engine {
	return New(config.Default(), prometheus.NewRegistry(), nil)
}

func seed(e *Engine) {
	sm := e.StorageManager()
	sm.CreateTable("t", sql.Schema{
		{Name: "a", Table: "t", Type: sql.Int64},
		{Name: "b", Table: "t", Type: sql.Text},
	})
	tbl, _ := sm.GetTable("t")
	concrete := tbl.(*storage.Table)
	concrete.Insert(sql.Row{int64(1), "x"})
	concrete.Insert(sql.Row{int64(6), "y"})
}

func TestQueryCacheMissThenHit(t *testing.T) {
	e := newTestEngine()
	seed(e)

	ctx1 := sql.NewContext(nil, "SELECT a FROM t WHERE a = 1", nil)
	status, rows, _, err := e.Query(ctx1, "SELECT a FROM t WHERE a = 1", false)
	require.NoError(t, err)
	require.Equal(t, pipeline.Success, status)
	require.Len(t, rows, 1)

	ctx2 := sql.NewContext(nil, "SELECT a FROM t WHERE a = 6", nil)
	status2, rows2, _, err2 := e.Query(ctx2, "SELECT a FROM t WHERE a = 6", false)
	require.NoError(t, err2)
	require.Equal(t, pipeline.Success, status2)
	require.Len(t, rows2, 1)
}

func TestQueryCreateTableNameConflict(t *testing.T) {
	e := newTestEngine()
	seed(e)
	ctx := sql.NewContext(nil, "CREATE TABLE t (a INT)", nil)
	_, _, _, err := e.Query(ctx, "CREATE TABLE t (a INT)", false)
	require.True(t, sql.ErrNameConflict.Is(err))
}

func TestQueryDropTableNotFound(t *testing.T) {
	e := newTestEngine()
	ctx := sql.NewContext(nil, "DROP TABLE missing", nil)
	_, _, _, err := e.Query(ctx, "DROP TABLE missing", false)
	require.True(t, sql.ErrNotFound.Is(err))
}

func TestQueryImportMissingFile(t *testing.T) {
	e := newTestEngine()
	seed(e)
	ctx := sql.NewContext(nil, "IMPORT FROM 'nope.csv' INTO t", nil)
	_, _, _, err := e.Query(ctx, "IMPORT FROM 'nope.csv' INTO t", false)
	require.True(t, sql.ErrFileNotFound.Is(err))
}

func TestPrepareThenExecutePrepared(t *testing.T) {
	e := newTestEngine()
	seed(e)

	ctx := sql.NewContext(nil, "SELECT a FROM t WHERE a = 1", nil)
	require.NoError(t, e.PrepareQuery(ctx, "q1", "SELECT a FROM t WHERE a = 1"))

	status, rows, _, err := e.ExecutePrepared(ctx, "q1", false)
	require.NoError(t, err)
	require.Equal(t, pipeline.Success, status)
	require.Len(t, rows, 1)
}

func TestExecutePreparedUnknownName(t *testing.T) {
	e := newTestEngine()
	ctx := sql.NewContext(nil, "", nil)
	_, _, _, err := e.ExecutePrepared(ctx, "nope", false)
	require.True(t, sql.ErrNotFound.Is(err))
}

func TestRunScriptAbortsAfterFailedStatement(t *testing.T) {
	e := newTestEngine()
	seed(e)
	ctx := sql.NewContext(nil, "", nil)

	results := e.RunScript(ctx, "DROP TABLE missing; SELECT a FROM t;", nil, false)
	require.Len(t, results, 2)
	require.Error(t, results[0].Err)
	require.Equal(t, pipeline.RolledBack, results[1].Status)
}

func TestImportThenSelectThroughEngine(t *testing.T) {
	e := newTestEngine()
	sm := e.StorageManager()
	sm.CreateTable("io", sql.Schema{{Name: "x", Table: "io", Type: sql.Int64}})

	f, err := os.CreateTemp("", "engine-import-*.csv")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	_, _ = f.WriteString("10\n20\n")
	f.Close()

	ctx := sql.NewContext(nil, "", nil)
	importSQL := "IMPORT FROM '" + f.Name() + "' INTO io"
	status, _, _, err := e.Query(ctx, importSQL, false)
	require.NoError(t, err)
	require.Equal(t, pipeline.Success, status)

	selectSQL := "SELECT x FROM io"
	status2, rows, _, err2 := e.Query(ctx, selectSQL, false)
	require.NoError(t, err2)
	require.Equal(t, pipeline.Success, status2)
	require.Len(t, rows, 2)
}

func TestQueryInTransactionLeavesCallerContextActive(t *testing.T) {
	e := newTestEngine()
	seed(e)

	// A transaction started by the caller is not committed or rolled back
	// by a successful statement; only the caller decides its fate.
	txCtx := txn.New(false)
	ctx := sql.NewContext(nil, "SELECT a FROM t", nil)
	status, rows, _, err := e.QueryInTransaction(ctx, "SELECT a FROM t", txCtx)
	require.NoError(t, err)
	require.Equal(t, pipeline.Success, status)
	require.Len(t, rows, 2)
	require.True(t, txCtx.IsActive())
}
