// Package scheduler owns the dashboard's periodic tasks. Tasks are keyed by
// name so a loop can be replaced, triggered on demand or removed without
// holding on to timer handles.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is the body of a periodic task. The context is cancelled when the
// scheduler stops.
type Task func(ctx context.Context)

// Scheduler runs named tasks at fixed intervals on top of cron.
type Scheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	tasks  map[string]cron.EntryID
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

// Options configures a Scheduler.
type Options struct {
	// SkipIfRunning drops a tick while the previous run of the same task
	// is still in flight.
	SkipIfRunning bool
}

// New creates a stopped scheduler.
func New(logger *zap.Logger, opts Options) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{sugar: logger.Named("cron").Sugar()}
	wrappers := []cron.JobWrapper{cron.Recover(cl)}
	if opts.SkipIfRunning {
		wrappers = append(wrappers, cron.SkipIfStillRunning(cl))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(wrappers...)),
		tasks:  make(map[string]cron.EntryID),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// MinInterval is the finest interval Every accepts. Cron ticks on whole
// seconds and would otherwise round a shorter or fractional interval.
const MinInterval = time.Second

// ValidInterval reports whether Every accepts interval: at least MinInterval
// and a whole number of seconds.
func ValidInterval(interval time.Duration) bool {
	return interval >= MinInterval && interval%time.Second == 0
}

// Every registers task under name to run once per interval, replacing any
// task already registered under that name.
func (s *Scheduler) Every(name string, interval time.Duration, task Task) error {
	if !ValidInterval(interval) {
		return fmt.Errorf("scheduler: invalid interval %s for %q, want whole seconds of at least %s", interval, name, MinInterval)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, exists := s.tasks[name]; exists {
		s.cron.Remove(id)
	}
	ctx := s.ctx
	id := s.cron.Schedule(cron.Every(interval), cron.FuncJob(func() {
		task(ctx)
	}))
	s.tasks[name] = id
	s.logger.Info("task registered", zap.String("task", name), zap.Duration("interval", interval))
	return nil
}

// RunNow runs the named task synchronously through the same wrappers as a
// scheduled tick. It reports false when no such task exists.
func (s *Scheduler) RunNow(name string) bool {
	s.mu.Lock()
	id, exists := s.tasks[name]
	s.mu.Unlock()
	if !exists {
		return false
	}
	entry := s.cron.Entry(id)
	if !entry.Valid() || entry.WrappedJob == nil {
		return false
	}
	entry.WrappedJob.Run()
	return true
}

// NextRun returns when the named task would next fire after from. Tests use
// it to step through the schedule on a virtual clock.
func (s *Scheduler) NextRun(name string, from time.Time) (time.Time, bool) {
	s.mu.Lock()
	id, exists := s.tasks[name]
	s.mu.Unlock()
	if !exists {
		return time.Time{}, false
	}
	entry := s.cron.Entry(id)
	if !entry.Valid() {
		return time.Time{}, false
	}
	return entry.Schedule.Next(from), true
}

// Remove cancels the named task's future ticks.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, exists := s.tasks[name]; exists {
		s.cron.Remove(id)
		delete(s.tasks, name)
	}
}

// Names lists registered task names in sorted order.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start begins firing ticks.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Strings("tasks", s.Names()))
}

// Stop cancels every task, cancels the task context and waits for running
// tasks to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for name, id := range s.tasks {
		s.cron.Remove(id)
		delete(s.tasks, name)
	}
	s.mu.Unlock()

	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// cronLogger adapts zap to cron.Logger. Cron's routine chatter goes to debug.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
