// Package jobs runs the directory background jobs on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler manages background jobs using cron scheduling.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	mu     sync.Mutex
	jobs   map[string]cron.EntryID
}

// NewScheduler creates a new job scheduler with the given logger.
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger{logger}),
			cron.WithChain(
				cron.SkipIfStillRunning(cronLogger{logger}),
				cron.Recover(cronLogger{logger}),
			),
		),
		logger: logger,
		jobs:   make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler. Jobs added before this call will begin running.
func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler")
	s.cron.Start()
}

// Stop gracefully stops the scheduler. Running jobs will complete.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}

// AddJob adds a job with the given name and cron expression.
// Expressions carry a leading seconds field, e.g. "0 0 2 * * *" runs at 02:00
// every day. Descriptors such as "@daily" and "@every 1h" also work.
func (s *Scheduler) AddJob(name string, cronExpr string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		s.logger.Info("running scheduled job",
			zap.String("job_name", name))
		job()
		s.logger.Info("completed scheduled job",
			zap.String("job_name", name))
	})
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info("added scheduled job",
		zap.String("job_name", name),
		zap.String("cron_expr", cronExpr))

	return nil
}

// RemoveJob removes a job by name.
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	s.cron.Remove(entryID)
	delete(s.jobs, name)

	s.logger.Info("removed scheduled job",
		zap.String("job_name", name))

	return nil
}

// GetJobNames returns the names of all registered jobs, sorted.
func (s *Scheduler) GetJobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NextRun returns the next scheduled run of a job
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, exists := s.jobs[name]
	if !exists {
		return time.Time{}, false
	}
	return s.cron.Entry(entryID).Next, true
}

// cronLogger routes cron's own logging through zap
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, zap.Any("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, zap.Error(err), zap.Any("details", keysAndValues))
}
