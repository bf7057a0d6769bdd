package ddlcheck

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/plan"
	"github.com/coldb/flowengine/storage"
)

func TestCreateTableConflict(t *testing.T) {
	sm := storage.NewManager()
	sm.CreateTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})

	err := Check(plan.NewCreateTable("t", nil, false), sm)
	require.True(t, sql.ErrNameConflict.Is(err))
}

func TestCreateTableIfNotExistsSuppresses(t *testing.T) {
	sm := storage.NewManager()
	sm.CreateTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})

	err := Check(plan.NewCreateTable("t", nil, true), sm)
	require.NoError(t, err)
}

func TestCreateTableAbsentSucceeds(t *testing.T) {
	sm := storage.NewManager()
	err := Check(plan.NewCreateTable("t", nil, false), sm)
	require.NoError(t, err)
}

func TestDropTableNotFound(t *testing.T) {
	sm := storage.NewManager()
	err := Check(plan.NewDropTable("missing", false), sm)
	require.True(t, sql.ErrNotFound.Is(err))
}

func TestDropTableIfExistsSuppresses(t *testing.T) {
	sm := storage.NewManager()
	err := Check(plan.NewDropTable("missing", true), sm)
	require.NoError(t, err)
}

func TestImportMissingFile(t *testing.T) {
	sm := storage.NewManager()
	err := Check(plan.NewImport("/no/such/file.csv", "t"), sm)
	require.True(t, sql.ErrFileNotFound.Is(err))
}

func TestImportExistingFile(t *testing.T) {
	f, err := os.CreateTemp("", "ddlcheck-import-*.csv")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	f.Close()

	sm := storage.NewManager()
	require.NoError(t, Check(plan.NewImport(f.Name(), "t"), sm))
}

func TestNonDDLNodePassesThrough(t *testing.T) {
	sm := storage.NewManager()
	sm.CreateTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})
	st := plan.NewStoredTable("t", sql.Schema{{Name: "a", Table: "t", Type: sql.Int64}})
	require.NoError(t, Check(st, sm))
}
