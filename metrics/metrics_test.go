package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegistryCountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry(reg)

	r.IncLogicalHit()
	r.IncLogicalHit()
	r.IncLogicalMiss()
	r.IncPhysicalHit()

	require.Equal(t, float64(2), testutil.ToFloat64(r.LogicalCacheHits))
	require.Equal(t, float64(1), testutil.ToFloat64(r.LogicalCacheMisses))
	require.Equal(t, float64(1), testutil.ToFloat64(r.PhysicalCacheHits))
}

func TestNilRegistryIsNoOp(t *testing.T) {
	var r *Registry
	require.NotPanics(t, func() {
		r.IncLogicalHit()
		r.IncLogicalMiss()
		r.IncPhysicalHit()
		r.IncPhysicalMiss()
		r.ObserveStage("parse", 0.001)
	})
}

func TestObserveStageRecordsSample(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry(reg)
	r.ObserveStage("parse", 0.01)
	count := testutil.CollectAndCount(r.StageDuration)
	require.Equal(t, 1, count)
}
