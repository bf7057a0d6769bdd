// Package pipeline implements the Statement Pipeline (C5) and
// Multi-Statement Pipeline (C6): a per-statement object memoizing each
// stage from parse through result, and the script-level orchestrator
// that runs several statements under a shared transaction. Grounded in
// the teacher's Engine.QueryWithBindings orchestration in engine.go,
// restructured from one monolithic function into the explicit staged,
// memoized object spec §4.5 requires.
package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/coldb/flowengine/astshim"
	"github.com/coldb/flowengine/cache"
	"github.com/coldb/flowengine/ddlcheck"
	"github.com/coldb/flowengine/metrics"
	"github.com/coldb/flowengine/paramextract"
	"github.com/coldb/flowengine/prepared"
	"github.com/coldb/flowengine/scheduler"
	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/analyzer"
	"github.com/coldb/flowengine/sql/plan"
	"github.com/coldb/flowengine/sql/rowexec"
	"github.com/coldb/flowengine/stats"
	"github.com/coldb/flowengine/storage"
	"github.com/coldb/flowengine/txn"
)

// Status is the execution outcome of get_result_table (spec §4.5 stage 6).
type Status int

const (
	Success Status = iota
	RolledBack
)

// StatementMetrics is the per-statement timing record spec §3 names:
// seven monotonic durations plus a cache-hit flag. Every duration is
// recorded with time.Since, which Go guarantees is monotonic.
type StatementMetrics struct {
	ParseDuration          time.Duration
	TranslationDuration    time.Duration
	UniformCheckDuration   time.Duration
	CacheLookupDuration    time.Duration
	OptimizationDuration   time.Duration
	LQPTranslationDuration time.Duration
	PlanExecutionDuration  time.Duration
	CacheHit               bool
}

// LogicalCache and PhysicalCache are the two plan caches C1 provides,
// process-scoped per spec §9 ("the two plan caches have process
// lifetime"). PhysicalEntry additionally records whether the cached PQP
// was built under MVCC, to enforce spec §4.5 stage 4's segregation rule.
type LogicalCache = cache.Cache[string, *prepared.PreparedPlan]

type PhysicalEntry struct {
	Root rowexec.Operator
	MVCC bool
}

type PhysicalCache = cache.Cache[string, PhysicalEntry]

// Deps bundles the process-wide collaborators a StatementPipeline needs:
// the storage manager, both plan caches, the statistics gate, the two
// optimizers, and the metrics registry. One Deps is shared by every
// pipeline in a process (spec §9 "cache as process-wide state").
type Deps struct {
	Storage             *storage.Manager
	LogicalCache        *LogicalCache
	PhysicalCache       *PhysicalCache
	Gate                *stats.Gate
	UniformityThreshold float64
	MainOptimizer       *analyzer.Optimizer
	PruningOptimizer    *analyzer.Optimizer
	SchedulerPool       *scheduler.Scheduler
	Metrics             *metrics.Registry
}

// StatementPipeline drives one SQL statement through parse → translate →
// optimize → translate → schedule → result, memoizing every stage.
type StatementPipeline struct {
	deps    Deps
	sqlCtx  *sql.Context
	sqlStr  string
	mvcc    bool
	txnCtx  *txn.Context
	ownsTxn bool

	Metrics StatementMetrics

	astDone bool
	ast     *astshim.Statement
	astErr  error

	lqpDone   bool
	lqp       sql.Node
	transInfo *plan.TranslationInfo
	lqpErr    error

	optDone bool
	optLQP  sql.Node
	optErr  error

	pqpDone bool
	pqp     rowexec.Operator
	pqpErr  error

	tasksDone bool
	tasks     []*scheduler.Task
	sink      *scheduler.Task
	tasksErr  error

	resultDone   bool
	resultStatus Status
	resultRows   []sql.Row
	resultSchema sql.Schema
	resultErr    error
}

// New builds a StatementPipeline for sqlStr. If txnCtx is non-nil, the
// statement runs MVCC under that externally-owned context (user-bound
// mode, spec §4.6); the pipeline never commits it, and rolls it back only
// when execution fails. If txnCtx is nil and mvcc is true, the pipeline creates its own
// auto-commit context lazily in GetResultTable and commits it on success
// (spec §4.9).
func New(deps Deps, sqlCtx *sql.Context, sqlStr string, txnCtx *txn.Context, mvcc bool) *StatementPipeline {
	return &StatementPipeline{
		deps:   deps,
		sqlCtx: sqlCtx,
		sqlStr: sqlStr,
		mvcc:   mvcc || txnCtx != nil,
		txnCtx: txnCtx,
	}
}

// GetParsedAST implements spec §4.5 stage 1.
func (p *StatementPipeline) GetParsedAST() (*astshim.Statement, error) {
	if p.astDone {
		return p.ast, p.astErr
	}
	start := time.Now()
	ast, err := astshim.Parse(p.sqlStr)
	p.Metrics.ParseDuration = time.Since(start)
	if err != nil {
		p.astErr = sql.ErrParse.New(err.Error())
	} else {
		p.ast = ast
	}
	p.astDone = true
	return p.ast, p.astErr
}

// GetUnoptimizedLQP implements spec §4.5 stage 2.
func (p *StatementPipeline) GetUnoptimizedLQP() (sql.Node, error) {
	if p.lqpDone {
		return p.lqp, p.lqpErr
	}
	ast, err := p.GetParsedAST()
	if err != nil {
		p.lqpDone = true
		p.lqpErr = err
		return nil, err
	}
	start := time.Now()
	root, info, err := plan.Translate(p.deps.Storage, ast)
	p.Metrics.TranslationDuration = time.Since(start)
	p.lqpDone = true
	if err != nil {
		p.lqpErr = err
		return nil, err
	}
	p.lqp, p.transInfo = root, info
	return p.lqp, nil
}

func (p *StatementPipeline) threshold() float64 {
	if p.deps.UniformityThreshold > 0 {
		return p.deps.UniformityThreshold
	}
	return stats.DefaultThreshold
}

// GetOptimizedLQP implements the central algorithm of spec §4.5.
func (p *StatementPipeline) GetOptimizedLQP() (sql.Node, error) {
	if p.optDone {
		return p.optLQP, p.optErr
	}
	lqp, err := p.GetUnoptimizedLQP()
	if err != nil {
		p.optDone = true
		p.optErr = err
		return nil, err
	}

	uniformStart := time.Now()
	uniform := p.deps.Gate.IsUniformlyDistributed(lqp, p.threshold())
	p.Metrics.UniformCheckDuration = time.Since(uniformStart)

	if !p.transInfo.Cacheable || !uniform {
		start := time.Now()
		optimized := p.deps.MainOptimizer.Optimize(lqp)
		p.Metrics.OptimizationDuration = time.Since(start)
		p.Metrics.CacheHit = false
		p.optDone, p.optLQP = true, optimized
		return p.optLQP, nil
	}

	extracted := paramextract.Extract(lqp)
	key := plan.Canonical(extracted.Node)

	lookupStart := time.Now()
	cached, hit := p.deps.LogicalCache.TryGet(key)
	p.Metrics.CacheLookupDuration = time.Since(lookupStart)

	if hit && cached.MVCCValidated() == p.mvcc {
		p.deps.Metrics.IncLogicalHit()
		p.Metrics.CacheHit = true
		p.Metrics.OptimizationDuration = 0
		instantiated, err := cached.Instantiate(extracted.Values)
		if err != nil {
			p.optDone, p.optErr = true, err
			return nil, err
		}
		pruned := p.deps.PruningOptimizer.Optimize(instantiated)
		p.optDone, p.optLQP = true, pruned
		return p.optLQP, nil
	}

	p.deps.Metrics.IncLogicalMiss()
	p.Metrics.CacheHit = false
	templateRoot := extracted.Node.DeepCopy()
	start := time.Now()
	optimizedTemplate := p.deps.MainOptimizer.Optimize(templateRoot)
	p.Metrics.OptimizationDuration = time.Since(start)

	parameterIDs := make([]int, len(extracted.Values))
	declaredTypes := make([]sql.DataType, len(extracted.Values))
	for i, v := range extracted.Values {
		parameterIDs[i] = i
		declaredTypes[i] = v.Type()
	}
	preparedPlan := prepared.New(optimizedTemplate, parameterIDs, declaredTypes, p.mvcc)
	p.deps.LogicalCache.Set(key, preparedPlan)

	instantiated, err := preparedPlan.Instantiate(extracted.Values)
	if err != nil {
		p.optDone, p.optErr = true, err
		return nil, err
	}
	pruned := p.deps.PruningOptimizer.Optimize(instantiated)
	p.optDone, p.optLQP = true, pruned
	return p.optLQP, nil
}

// GetPhysicalPlan implements spec §4.5 stage 4.
func (p *StatementPipeline) GetPhysicalPlan() (rowexec.Operator, error) {
	if p.pqpDone {
		return p.pqp, p.pqpErr
	}
	lqp, err := p.GetOptimizedLQP()
	if err != nil {
		p.pqpDone, p.pqpErr = true, err
		return nil, err
	}

	if entry, hit := p.deps.PhysicalCache.TryGet(p.sqlStr); hit && entry.MVCC == p.mvcc {
		p.deps.Metrics.IncPhysicalHit()
		p.pqpDone, p.pqp = true, entry.Root.DeepCopy()
		return p.pqp, nil
	}
	p.deps.Metrics.IncPhysicalMiss()

	start := time.Now()
	root, err := rowexec.Translate(p.deps.Storage, lqp)
	p.Metrics.LQPTranslationDuration = time.Since(start)
	if err != nil {
		p.pqpDone, p.pqpErr = true, err
		return nil, err
	}

	if p.transInfo.Cacheable {
		p.deps.PhysicalCache.Set(p.sqlStr, PhysicalEntry{Root: root.DeepCopy(), MVCC: p.mvcc})
	}
	p.pqpDone, p.pqp = true, root
	return p.pqp, nil
}

// GetTasks implements spec §4.5 stage 5 / §6.4's task factory contract:
// one task per operator, edges reflecting input dependencies, the root
// operator is the sink.
func (p *StatementPipeline) GetTasks() ([]*scheduler.Task, error) {
	if p.tasksDone {
		return p.tasks, p.tasksErr
	}
	root, err := p.GetPhysicalPlan()
	if err != nil {
		p.tasksDone, p.tasksErr = true, err
		return nil, err
	}
	if p.txnCtx != nil {
		root.SetTransactionContextRecursively(p.txnCtx)
	}

	seen := make(map[rowexec.Operator]*scheduler.Task)
	var tasks []*scheduler.Task
	var build func(op rowexec.Operator) *scheduler.Task
	build = func(op rowexec.Operator) *scheduler.Task {
		if t, ok := seen[op]; ok {
			return t
		}
		var deps []*scheduler.Task
		if op.Left() != nil {
			deps = append(deps, build(op.Left()))
		}
		if op.Right() != nil {
			deps = append(deps, build(op.Right()))
		}
		operator := op
		task := scheduler.NewTask(operator.Type(), func(ctx context.Context) error {
			return operator.Execute()
		}, deps...)
		seen[op] = task
		tasks = append(tasks, task)
		return task
	}
	sink := build(root)
	p.tasksDone, p.tasks, p.sink = true, tasks, sink
	return p.tasks, nil
}

// TransactionContext returns the transaction context this statement ran
// under, creating the auto-commit context on first call if none was
// supplied and MVCC was requested. Returns nil when MVCC is not in use.
func (p *StatementPipeline) TransactionContext() *txn.Context {
	if p.txnCtx == nil && p.mvcc {
		p.txnCtx = txn.New(true)
		p.ownsTxn = true
	}
	return p.txnCtx
}

// GetResultTable implements spec §4.5 stage 6: DDL precheck, schedule and
// wait, auto-commit, sink extraction.
func (p *StatementPipeline) GetResultTable() (Status, []sql.Row, sql.Schema, error) {
	if p.resultDone {
		return p.resultStatus, p.resultRows, p.resultSchema, p.resultErr
	}

	lqp, err := p.GetOptimizedLQP()
	if err != nil {
		p.resultDone, p.resultErr = true, err
		return Success, nil, nil, err
	}
	if err := ddlcheck.Check(lqp, p.deps.Storage); err != nil {
		p.resultDone, p.resultErr = true, err
		return Success, nil, nil, err
	}

	tasks, err := p.GetTasks()
	if err != nil {
		p.resultDone, p.resultErr = true, err
		return Success, nil, nil, err
	}

	txCtx := p.TransactionContext()

	start := time.Now()
	runErr := p.deps.SchedulerPool.ScheduleAndWait(p.sqlCtx, tasks)
	p.Metrics.PlanExecutionDuration = time.Since(start)

	if runErr != nil && txCtx != nil {
		if !txCtx.Rollback() {
			// The context was already committed, so it cannot be rolled
			// back;
			// note that on the wrapped error the way engine.go's
			// clearAutocommitTransaction wraps a cleanup failure rather
			// than discarding it.
			runErr = errors.Wrap(runErr, "transaction context already terminal during rollback")
		}
	}

	status := Success
	if txCtx != nil && txCtx.IsRolledBack() {
		status = RolledBack
	} else if txCtx != nil && p.ownsTxn {
		txCtx.Commit()
	}

	var rows []sql.Row
	var schema sql.Schema
	if p.sink != nil && status == Success && runErr == nil {
		rows, schema = p.pqp.GetOutput()
	}

	p.resultDone = true
	p.resultStatus, p.resultRows, p.resultSchema, p.resultErr = status, rows, schema, runErr
	return p.resultStatus, p.resultRows, p.resultSchema, p.resultErr
}
