// Package scheduler implements the operator task scheduler (C8): a
// bounded worker pool executing an operator task DAG in dependency order,
// with cooperative cancellation on rollback. Grounded in the teacher's
// BackgroundThreads/ProcessList worker-lifecycle idiom in engine.go,
// generalized from session-bound background goroutines to a per-statement
// task graph.
package scheduler

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Task wraps one operator execution. Run is invoked once every entry in
// DependsOn has itself run successfully; if any dependency failed or was
// cancelled, Run is never called and the task is reported as skipped.
type Task struct {
	Name       string
	DependsOn  []*Task
	Run        func(ctx context.Context) error

	mu     sync.Mutex
	done   bool
	err    error
	waiter chan struct{}
}

// NewTask builds a Task with the given dependencies.
func NewTask(name string, run func(ctx context.Context) error, dependsOn ...*Task) *Task {
	return &Task{Name: name, Run: run, DependsOn: dependsOn, waiter: make(chan struct{})}
}

func (t *Task) markDone(err error) {
	t.mu.Lock()
	t.err = err
	t.done = true
	t.mu.Unlock()
	close(t.waiter)
}

func (t *Task) wait() error {
	<-t.waiter
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Scheduler runs task DAGs over a bounded worker pool.
type Scheduler struct {
	workers int
	log     *logrus.Entry
}

// New builds a Scheduler with the given worker pool size. workers <= 0 is
// treated as 1 (at least forward progress).
func New(workers int, log *logrus.Entry) *Scheduler {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Scheduler{workers: workers, log: log}
}

// skippedError is recorded as a task's error when the task is skipped
// because one of its dependencies failed.
type skippedError struct{ cause error }

func (e *skippedError) Error() string { return "scheduler: skipped, dependency failed: " + e.cause.Error() }
func (e *skippedError) Unwrap() error { return e.cause }

// ScheduleAndWait runs every task in tasks, respecting DependsOn edges,
// across a pool of s.workers goroutines, and blocks until all tasks have
// either run or been skipped. It returns one of the errors returned by a
// failing task's Run (the first to be recorded; with concurrent tasks
// this is not necessarily the first in tasks order), or nil if every task
// succeeded. On the first error,
// remaining tasks whose dependencies are satisfied are still started —
// cooperative cancellation is achieved by cancelling ctx's derived
// context, which Run implementations are expected to observe, not by
// skipping independent work (spec §4.7: the transaction, not unrelated
// operators, is what rolls back).
func (s *Scheduler) ScheduleAndWait(ctx context.Context, tasks []*Task) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, t := range tasks {
		wg.Add(1)
		go func(task *Task) {
			defer wg.Done()
			for _, dep := range task.DependsOn {
				if err := dep.wait(); err != nil {
					task.markDone(&skippedError{cause: err})
					return
				}
			}
			sem <- struct{}{}
			defer func() { <-sem }()

			s.log.WithFields(logrus.Fields{"task": task.Name}).Debug("executing task")
			err := task.Run(runCtx)
			if err != nil {
				s.log.WithFields(logrus.Fields{"task": task.Name, "error": err}).Warn("task failed")
				mu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				mu.Unlock()
			}
			task.markDone(err)
		}(t)
	}

	wg.Wait()
	return firstErr
}
