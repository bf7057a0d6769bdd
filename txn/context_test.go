package txn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewContextIsActive(t *testing.T) {
	c := New(true)
	require.Equal(t, Active, c.Phase())
	require.True(t, c.AutoCommit())
}

func TestCommitThenRollbackIsRejected(t *testing.T) {
	c := New(false)
	require.True(t, c.Commit())
	require.False(t, c.Rollback())
	require.Equal(t, Committed, c.Phase())
}

func TestRollbackIsSticky(t *testing.T) {
	c := New(false)
	require.True(t, c.Rollback())
	require.False(t, c.Commit())
	require.Equal(t, RolledBack, c.Phase())
}

func TestDoubleRollbackIsHarmless(t *testing.T) {
	c := New(false)
	require.True(t, c.Rollback())
	require.True(t, c.Rollback())
	require.Equal(t, RolledBack, c.Phase())
}
