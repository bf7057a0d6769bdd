// Package sqlengine exposes the top-level façade that wires C1-C9 into a
// single runnable engine, analogous to the teacher's Engine in engine.go:
// Engine.Query / Engine.PrepareQuery / Engine.ExecutePrepared wiring
// together the analyzer, the prepared-data cache, and transactions. Here
// the same role is played by one StatementPipeline (or
// MultiStatementPipeline) per call, built from shared, process-scoped
// Deps.
package sqlengine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/coldb/flowengine/cache"
	"github.com/coldb/flowengine/config"
	"github.com/coldb/flowengine/metrics"
	"github.com/coldb/flowengine/pipeline"
	"github.com/coldb/flowengine/prepared"
	"github.com/coldb/flowengine/scheduler"
	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/analyzer"
	"github.com/coldb/flowengine/stats"
	"github.com/coldb/flowengine/storage"
	"github.com/coldb/flowengine/txn"
)

// Engine is the process-wide façade. One Engine owns both plan caches, the
// storage manager, the scheduler pool, and the metrics registry; every
// Query/PrepareQuery call spins up a fresh pipeline.StatementPipeline (or
// MultiStatementPipeline) sharing that state, the way engine.go's Engine
// shares one Analyzer and PreparedDataCache across every Query call.
type Engine struct {
	cfg     config.Config
	storage *storage.Manager
	deps    pipeline.Deps
	log     *logrus.Entry

	preparedNames *prepared.NameRegistry
}

// New builds an Engine from cfg, registering its prometheus counters and
// histograms against reg (pass prometheus.NewRegistry() for an isolated
// registry, or prometheus.DefaultRegisterer in a real process).
func New(cfg config.Config, reg prometheus.Registerer, log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	sm := storage.NewManager()

	return &Engine{
		cfg:     cfg,
		storage: sm,
		log:     log,
		deps: pipeline.Deps{
			Storage:             sm,
			LogicalCache:        cache.New[string, *prepared.PreparedPlan](cfg.LogicalCacheCapacity, cachePolicy(cfg.LogicalCachePolicy), cache.Metrics{}),
			PhysicalCache:       cache.New[string, pipeline.PhysicalEntry](cfg.PhysicalCacheCapacity, cachePolicy(cfg.PhysicalCachePolicy), cache.Metrics{}),
			Gate:                stats.NewGate(sm),
			UniformityThreshold: cfg.UniformityThreshold,
			MainOptimizer:       analyzer.New(analyzer.DefaultRules()...),
			PruningOptimizer:    analyzer.NewPruningOptimizer(),
			SchedulerPool:       scheduler.New(cfg.SchedulerWorkers, log),
			Metrics:             metrics.NewRegistry(reg),
		},
		preparedNames: prepared.NewNameRegistry(),
	}
}

// cachePolicy resolves a config-named eviction policy to an EvictionPolicy
// instance. An unrecognized name falls back to LRU, matching the teacher's
// own tolerant handling of unset/invalid Config fields in engine.go's
// NewDefault.
func cachePolicy(name string) cache.EvictionPolicy[string] {
	switch name {
	case "gdfs":
		return cache.NewGDFSPolicy[string](
			func(string) float64 { return 1 },
			func(string) float64 { return 1 },
		)
	default:
		return cache.NewLRUPolicy[string]()
	}
}

// StorageManager exposes the engine's storage collaborator so callers can
// seed tables/views before issuing queries.
func (e *Engine) StorageManager() *storage.Manager { return e.storage }

// Query runs a single statement in auto-commit mode (mvcc controls whether
// the pipeline requests MVCC for this one statement) and returns its
// result table, grounded in engine.go's Engine.Query.
func (e *Engine) Query(sqlCtx *sql.Context, query string, mvcc bool) (pipeline.Status, []sql.Row, sql.Schema, error) {
	p := pipeline.New(e.deps, sqlCtx, query, nil, mvcc)
	return p.GetResultTable()
}

// QueryInTransaction runs a single statement under the caller-owned txnCtx
// (user-bound mode, spec §4.6): the engine never commits txnCtx; it rolls
// txnCtx back only when the statement's execution fails, mirroring
// engine.go's distinction between
// beginTransaction-owned and externally-supplied transactions.
func (e *Engine) QueryInTransaction(sqlCtx *sql.Context, query string, txnCtx *txn.Context) (pipeline.Status, []sql.Row, sql.Schema, error) {
	p := pipeline.New(e.deps, sqlCtx, query, txnCtx, true)
	return p.GetResultTable()
}

// RunScript splits script into statements and runs them in order, all under
// txnCtx when it is non-nil and each in its own auto-commit context
// otherwise, aborting subsequent statements after the first statement that
// rolls back or returns an error (C6, spec §4.6).
func (e *Engine) RunScript(sqlCtx *sql.Context, script string, txnCtx *txn.Context, mvcc bool) []pipeline.StatementResult {
	mp := pipeline.NewMulti(e.deps, sqlCtx, txnCtx, mvcc)
	return mp.Run(script)
}

// PrepareQuery registers name for a later ExecutePrepared call and primes
// the logical cache by running the statement's pipeline through
// GetOptimizedLQP once, the way engine.go's PrepareQuery pre-parses a
// statement and stashes it in the PreparedDataCache keyed by session and
// query text.
func (e *Engine) PrepareQuery(sqlCtx *sql.Context, name, query string) error {
	p := pipeline.New(e.deps, sqlCtx, query, nil, false)
	if _, err := p.GetOptimizedLQP(); err != nil {
		return err
	}
	e.preparedNames.Register(name, query)
	return nil
}

// ExecutePrepared runs the statement text name was last registered for via
// PrepareQuery. Re-running the pipeline is safe and cheap: the logical
// cache already holds name's PreparedPlan from the priming call, so this
// call is expected to be a cache hit (spec §8 property 3, "idempotent
// instantiation").
func (e *Engine) ExecutePrepared(sqlCtx *sql.Context, name string, mvcc bool) (pipeline.Status, []sql.Row, sql.Schema, error) {
	query, ok := e.preparedNames.Lookup(name)
	if !ok {
		return pipeline.Success, nil, nil, sql.ErrNotFound.New(name)
	}
	return e.Query(sqlCtx, query, mvcc)
}

// Close releases the engine's background resources. There is currently
// nothing to release beyond the scheduler's goroutines, which are
// per-call rather than long-lived, so Close is a no-op kept for symmetry
// with engine.go's Engine.Close and for forward compatibility.
func (e *Engine) Close() error {
	return nil
}
