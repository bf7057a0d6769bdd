// Package config loads engine-wide tunables with spf13/viper, grounded in
// the teacher's engine.go Config struct (MaxMemory, DisableMultiStatements,
// query timeouts) generalized to the cache/scheduler/statistics knobs
// SPEC_FULL §4 introduces.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable the pipeline and its collaborators read at
// construction time. Zero-value Config is not valid; use Load or
// Default.
type Config struct {
	LogicalCacheCapacity  int
	PhysicalCacheCapacity int
	LogicalCachePolicy    string // "lru" or "gdfs"
	PhysicalCachePolicy   string
	UniformityThreshold   float64
	SchedulerWorkers      int
	StatementTimeout      time.Duration
}

// Default returns the engine's built-in defaults, used when no
// configuration source overrides them.
func Default() Config {
	return Config{
		LogicalCacheCapacity:  256,
		PhysicalCacheCapacity: 256,
		LogicalCachePolicy:    "lru",
		PhysicalCachePolicy:   "lru",
		UniformityThreshold:   100.0,
		SchedulerWorkers:      4,
		StatementTimeout:      30 * time.Second,
	}
}

// Load reads configuration from the named file (if non-empty and
// present), then layers environment variables prefixed FLOWENGINE_ on
// top, following the teacher's viper.AutomaticEnv + SetEnvPrefix idiom.
// Values not set by either source keep Default()'s values.
func Load(path string) (Config, error) {
	v := viper.New()
	cfg := Default()
	v.SetDefault("logical_cache_capacity", cfg.LogicalCacheCapacity)
	v.SetDefault("physical_cache_capacity", cfg.PhysicalCacheCapacity)
	v.SetDefault("logical_cache_policy", cfg.LogicalCachePolicy)
	v.SetDefault("physical_cache_policy", cfg.PhysicalCachePolicy)
	v.SetDefault("uniformity_threshold", cfg.UniformityThreshold)
	v.SetDefault("scheduler_workers", cfg.SchedulerWorkers)
	v.SetDefault("statement_timeout", cfg.StatementTimeout)

	v.SetEnvPrefix("flowengine")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !os.IsNotExist(err) {
				return cfg, err
			}
		}
	}

	cfg.LogicalCacheCapacity = v.GetInt("logical_cache_capacity")
	cfg.PhysicalCacheCapacity = v.GetInt("physical_cache_capacity")
	cfg.LogicalCachePolicy = v.GetString("logical_cache_policy")
	cfg.PhysicalCachePolicy = v.GetString("physical_cache_policy")
	cfg.UniformityThreshold = v.GetFloat64("uniformity_threshold")
	cfg.SchedulerWorkers = v.GetInt("scheduler_workers")
	cfg.StatementTimeout = v.GetDuration("statement_timeout")
	return cfg, nil
}
