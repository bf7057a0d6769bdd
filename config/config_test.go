package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	require.Equal(t, 256, cfg.LogicalCacheCapacity)
	require.Equal(t, "lru", cfg.LogicalCachePolicy)
	require.Equal(t, 100.0, cfg.UniformityThreshold)
}

func TestLoadWithNoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadAppliesEnvOverride(t *testing.T) {
	os.Setenv("FLOWENGINE_SCHEDULER_WORKERS", "8")
	defer os.Unsetenv("FLOWENGINE_SCHEDULER_WORKERS")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 8, cfg.SchedulerWorkers)
}

func TestLoadAppliesDurationEnvOverride(t *testing.T) {
	os.Setenv("FLOWENGINE_STATEMENT_TIMEOUT", "5s")
	defer os.Unsetenv("FLOWENGINE_STATEMENT_TIMEOUT")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, cfg.StatementTimeout)
}
