package sched

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runnerWithTask(t *testing.T, task Task) (*Runner, *taskState) {
	t.Helper()
	r := NewRunner(time.Minute)
	require.NoError(t, r.Add(task))
	return r, r.tasks[0]
}

func TestRunnerSafeExecuteRecordsSuccess(t *testing.T) {
	calls := 0
	r, st := runnerWithTask(t, Task{
		Name:     "ok",
		Schedule: Schedule{Type: AllHours},
		Run:      func(context.Context) error { calls++; return nil },
	})

	now := time.Now()
	r.safeExecute(context.Background(), st, now)

	assert.Equal(t, 1, calls)
	stats := r.TaskStats()["ok"]
	assert.Equal(t, 1, stats.Runs)
	assert.Equal(t, 0, stats.Errors)
	assert.Equal(t, now, stats.LastSuccess)
}

func TestRunnerSafeExecuteRecordsErrors(t *testing.T) {
	r, st := runnerWithTask(t, Task{
		Name:     "rota",
		Schedule: Schedule{Type: AllHours},
		Run:      func(context.Context) error { return errors.New("se rompió") },
	})

	now := time.Now()
	r.safeExecute(context.Background(), st, now)

	stats := r.TaskStats()["rota"]
	assert.Equal(t, 1, stats.Runs)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, "se rompió", stats.LastError.Msg)
	assert.True(t, stats.LastSuccess.IsZero())
}

func TestRunnerSafeExecuteSwallowsPanics(t *testing.T) {
	r, st := runnerWithTask(t, Task{
		Name:     "panica",
		Schedule: Schedule{Type: AllHours},
		Run:      func(context.Context) error { panic("boom") },
	})

	assert.NotPanics(t, func() {
		r.safeExecute(context.Background(), st, time.Now())
	})
	stats := r.TaskStats()["panica"]
	assert.Equal(t, 1, stats.Errors)
	assert.Contains(t, stats.LastError.Msg, "boom")
}

func TestRunnerMaybeRunRespectsSchedule(t *testing.T) {
	calls := 0
	r, st := runnerWithTask(t, Task{
		Name:     "intervalada",
		Schedule: Schedule{Type: AllHours, Interval: time.Hour},
		Run:      func(context.Context) error { calls++; return nil },
	})

	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	r.maybeRun(context.Background(), st, base)
	r.maybeRun(context.Background(), st, base.Add(10*time.Minute)) // intervalo no cumplido
	r.maybeRun(context.Background(), st, base.Add(2*time.Hour))

	assert.Equal(t, 2, calls)
}

func TestRunnerAddValidates(t *testing.T) {
	r := NewRunner(time.Minute)
	assert.Error(t, r.Add(Task{Name: "", Run: func(context.Context) error { return nil }}))
	assert.Error(t, r.Add(Task{Name: "sin-func", Schedule: Schedule{Type: AllHours}}))
	assert.Error(t, r.Add(Task{
		Name:     "mal-schedule",
		Schedule: Schedule{Type: SpecificHours},
		Run:      func(context.Context) error { return nil },
	}))
}

func TestRunnerTaskNamesSorted(t *testing.T) {
	r := NewRunner(time.Minute)
	for _, n := range []string{"zeta", "alfa", "medio"} {
		require.NoError(t, r.Add(Task{Name: n, Schedule: Schedule{Type: AllHours}, Run: func(context.Context) error { return nil }}))
	}
	assert.Equal(t, []string{"alfa", "medio", "zeta"}, r.TaskNames())
}
