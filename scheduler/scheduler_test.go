package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScheduleAndWaitRunsInDependencyOrder(t *testing.T) {
	s := New(2, nil)
	var mu sync.Mutex
	var order []string

	record := func(name string) func(context.Context) error {
		return func(ctx context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}

	a := NewTask("scan", record("scan"))
	b := NewTask("filter", record("filter"), a)
	c := NewTask("project", record("project"), b)

	err := s.ScheduleAndWait(context.Background(), []*Task{a, b, c})
	require.NoError(t, err)
	require.Equal(t, []string{"scan", "filter", "project"}, order)
}

func TestScheduleAndWaitPropagatesFailure(t *testing.T) {
	s := New(2, nil)
	boom := errors.New("boom")

	a := NewTask("scan", func(ctx context.Context) error { return boom })
	b := NewTask("filter", func(ctx context.Context) error { return nil }, a)

	err := s.ScheduleAndWait(context.Background(), []*Task{a, b})
	require.ErrorIs(t, err, boom)
}

func TestDependentTaskSkippedWhenDependencyFails(t *testing.T) {
	s := New(2, nil)
	boom := errors.New("boom")
	ran := false

	a := NewTask("scan", func(ctx context.Context) error { return boom })
	b := NewTask("filter", func(ctx context.Context) error { ran = true; return nil }, a)

	_ = s.ScheduleAndWait(context.Background(), []*Task{a, b})
	require.False(t, ran)
	require.Error(t, b.wait())
}

func TestIndependentTasksRunConcurrently(t *testing.T) {
	s := New(4, nil)
	var mu sync.Mutex
	count := 0
	task := func(name string) *Task {
		return NewTask(name, func(ctx context.Context) error {
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		})
	}
	tasks := []*Task{task("a"), task("b"), task("c"), task("d")}
	err := s.ScheduleAndWait(context.Background(), tasks)
	require.NoError(t, err)
	require.Equal(t, 4, count)
}
