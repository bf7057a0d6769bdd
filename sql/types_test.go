package sql

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTypeOf(t *testing.T) {
	require.Equal(t, Null, TypeOf(nil))
	require.Equal(t, Int64, TypeOf(int64(3)))
	require.Equal(t, Float64, TypeOf(3.14))
	require.Equal(t, Decimal, TypeOf(decimal.RequireFromString("19.99")))
	require.Equal(t, Text, TypeOf("hi"))
	require.Equal(t, Boolean, TypeOf(true))
}

func TestNodeKindIsDDL(t *testing.T) {
	require.True(t, KindCreateTable.IsDDL())
	require.True(t, KindImport.IsDDL())
	require.False(t, KindFilter.IsDDL())
}
