package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	pkgLog "mail-calendar-automation/pkg/log"
)

const DefaultIntervalMinutes = 5

// Job is one polling run.
type Job func(ctx context.Context) error

// Config configures the polling schedule.
type Config struct {
	IntervalMinutes int
	// RunOnStart runs the job once right after Start instead of waiting a full interval.
	RunOnStart bool
}

// Scheduler runs a Job every N minutes. A run that is still in progress when
// the next tick fires makes that tick a no-op.
type Scheduler struct {
	cron   *cron.Cron
	job    Job
	cfg    Config
	l      pkgLog.Logger
	entry  cron.EntryID
	runs   sync.WaitGroup
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func New(job Job, cfg Config, l pkgLog.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("scheduler: job is required")
	}
	if cfg.IntervalMinutes <= 0 {
		cfg.IntervalMinutes = DefaultIntervalMinutes
	}
	if l == nil {
		l = pkgLog.NewNop()
	}

	logger := cronLogger{l: l}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		job: job,
		cfg: cfg,
		l:   l,
	}
	return s, nil
}

// Spec returns the cron spec the job is scheduled with.
func (s *Scheduler) Spec() string {
	return fmt.Sprintf("@every %dm", s.cfg.IntervalMinutes)
}

// Start schedules the job. Runs receive a child of ctx that Stop cancels.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return errors.New("scheduler: already started")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	id, err := s.cron.AddFunc(s.Spec(), s.run)
	if err != nil {
		s.cancel()
		s.cancel = nil
		return fmt.Errorf("failed to schedule job: %w", err)
	}
	s.entry = id
	s.cron.Start()
	s.l.Infof(ctx, "Scheduler started: %s", s.Spec())

	if s.cfg.RunOnStart {
		// The wrapped job carries SkipIfStillRunning, so this never overlaps a tick.
		// The run is counted before the goroutine starts so Stop waits for it.
		job := s.cron.Entry(id).WrappedJob
		s.runs.Add(1)
		go func() {
			defer s.runs.Done()
			job.Run()
		}()
	}
	return nil
}

// RunNow runs the job synchronously, outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context) error {
	return s.job(pkgLog.NewTraceContext(ctx))
}

// Stop cancels running jobs and waits for them until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	stopped := s.cron.Stop()
	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		<-stopped.Done()
		s.runs.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.l.Infof(ctx, "Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

func (s *Scheduler) run() {
	s.runs.Add(1)
	defer s.runs.Done()

	s.mu.Lock()
	base := s.ctx
	s.mu.Unlock()

	ctx := pkgLog.NewTraceContext(base)
	s.l.Infof(ctx, "Scheduled run starting")
	if err := s.job(ctx); err != nil {
		s.l.Errorf(ctx, "Scheduled run failed: %v", err)
		return
	}
	s.l.Infof(ctx, "Scheduled run finished")
}
