package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// JobFunc is the body of a scheduled job. The context is cancelled when
// the scheduler stops.
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	interval time.Duration
	fn       JobFunc

	mu       sync.Mutex
	lastRun  time.Time
	runCount int64
}

// Scheduler runs registered timekeeping jobs on fixed intervals. Each
// job gets its own ticker goroutine and runs once immediately on Start,
// so hour-gated jobs see the current hour without waiting a full
// interval. A panicking job is logged and skipped until its next tick;
// it never takes the scheduler down.
type Scheduler struct {
	mu     sync.Mutex
	jobs   []*job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers a job. Registration after Start has no effect until
// the next Start.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, &job{name: name, interval: interval, fn: fn})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// Start launches one goroutine per registered job.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		s.wg.Add(1)
		go func(j *job) {
			defer s.wg.Done()
			s.loop(j)
		}(j)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels the job context and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) loop(j *job) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	s.run(s.ctx, j)

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Cron job stopping", "name", j.name)
			return
		case <-ticker.C:
			s.run(s.ctx, j)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, j *job) {
	start := time.Now()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return j.fn(ctx)
	}()

	j.mu.Lock()
	j.lastRun = start
	j.runCount++
	count := j.runCount
	j.mu.Unlock()

	if err != nil {
		slog.Error("Cron job failed",
			"name", j.name, "error", err, "run", count, "duration", time.Since(start))
		return
	}
	slog.Debug("Cron job completed",
		"name", j.name, "run", count, "duration", time.Since(start))
}

// RunOnce executes every registered job a single time with the given
// context, bypassing tickers. Test hook.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := make([]*job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.Unlock()

	for _, j := range jobs {
		s.run(ctx, j)
	}
}
