package sched

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
)

// Task es una unidad de trabajo recurrente.
type Task struct {
	Name     string
	Schedule Schedule
	Run      func(ctx context.Context) error
}

// Stats acumula el resultado de las corridas de una tarea.
type Stats struct {
	Runs        int
	Errors      int
	LastSuccess time.Time
	LastError   struct {
		At  time.Time
		Msg string
	}
}

type taskState struct {
	task    Task
	mu      sync.Mutex
	lastRun time.Time
	stats   Stats
}

// Runner chequea cada tarea a intervalo fijo y la dispara cuando su
// schedule lo habilita. Cada tarea corre en su propia goroutine de chequeo;
// un pánico o error queda registrado en las stats y no frena el loop.
type Runner struct {
	interval time.Duration
	tasks    []*taskState

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewRunner(checkInterval time.Duration) *Runner {
	if checkInterval <= 0 {
		checkInterval = time.Minute
	}
	return &Runner{
		interval: checkInterval,
		stop:     make(chan struct{}),
	}
}

// Add registra una tarea. Solo antes de Start.
func (r *Runner) Add(t Task) error {
	if t.Name == "" || t.Run == nil {
		return fmt.Errorf("tarea inválida: falta nombre o función")
	}
	if err := t.Schedule.Validate(); err != nil {
		return fmt.Errorf("tarea %s: %w", t.Name, err)
	}
	r.tasks = append(r.tasks, &taskState{task: t})
	return nil
}

// Start lanza los loops de chequeo. Devuelve de inmediato.
func (r *Runner) Start(ctx context.Context) {
	for _, st := range r.tasks {
		r.wg.Add(1)
		go r.loop(ctx, st)
	}
	log.Printf("[sched] runner arrancado con %d tareas (chequeo cada %s)", len(r.tasks), r.interval)
}

// Stop frena los loops y espera a que terminen. Idempotente.
func (r *Runner) Stop() {
	r.once.Do(func() { close(r.stop) })
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context, st *taskState) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case now := <-ticker.C:
			r.maybeRun(ctx, st, now)
		}
	}
}

func (r *Runner) maybeRun(ctx context.Context, st *taskState, now time.Time) {
	st.mu.Lock()
	due := st.task.Schedule.ShouldRun(now, st.lastRun)
	if due {
		st.lastRun = now
	}
	st.mu.Unlock()
	if !due {
		return
	}
	r.safeExecute(ctx, st, now)
}

// safeExecute corre la tarea tragándose pánicos: el error queda en stats y
// en el log, nunca sube.
func (r *Runner) safeExecute(ctx context.Context, st *taskState, now time.Time) {
	var err error
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("pánico: %v", rec)
			}
		}()
		err = st.task.Run(ctx)
	}()

	st.mu.Lock()
	defer st.mu.Unlock()
	st.stats.Runs++
	if err != nil {
		st.stats.Errors++
		st.stats.LastError.At = now
		st.stats.LastError.Msg = err.Error()
		log.Printf("[sched] tarea %s falló: %v", st.task.Name, err)
		return
	}
	st.stats.LastSuccess = now
}

// TaskStats devuelve un snapshot de stats por nombre de tarea, para el
// comando de diagnóstico.
func (r *Runner) TaskStats() map[string]Stats {
	out := make(map[string]Stats, len(r.tasks))
	for _, st := range r.tasks {
		st.mu.Lock()
		out[st.task.Name] = st.stats
		st.mu.Unlock()
	}
	return out
}

// TaskNames lista las tareas registradas, ordenadas.
func (r *Runner) TaskNames() []string {
	names := make([]string, 0, len(r.tasks))
	for _, st := range r.tasks {
		names = append(names, st.task.Name)
	}
	sort.Strings(names)
	return names
}
