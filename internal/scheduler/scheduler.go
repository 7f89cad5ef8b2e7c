// Package scheduler runs named tasks on fixed intervals.
//
// Each job has its own goroutine, so a run never overlaps the previous run of
// the same job. Ticks that fire while a run is in progress are dropped, and the
// next run starts a full interval after the previous one returned.
package scheduler

import (
	"context"
	"fmt"
	"roombook/config"
	"roombook/shared/logger"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	lockPrefix        = "scheduler:lock:"
	defaultRunTimeout = 50 * time.Second
	unlockTimeout     = 5 * time.Second
)

// Task is the body of a job. A returned error is logged and the job waits for its next tick.
type Task func(ctx context.Context) error

// Locker lets replicas agree on which of them runs a tick.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

type Scheduler interface {
	Register(name string, every time.Duration, task Task)
	Start(ctx context.Context)
	// Stop cancels running tasks and waits for every job goroutine to return.
	Stop()
}

type job struct {
	name  string
	every time.Duration
	task  Task
}

type scheduler struct {
	runTimeout time.Duration
	runOnStart bool
	locker     Locker

	mu      sync.Mutex
	jobs    []job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// New builds a scheduler from cfg.Scheduler. locker is only consulted when
// DistributedLock is enabled and may be nil otherwise.
func New(cfg *config.Config, locker Locker) Scheduler {
	runTimeout := time.Duration(cfg.Scheduler.RunTimeoutSeconds) * time.Second
	if runTimeout <= 0 {
		runTimeout = defaultRunTimeout
	}

	if !cfg.Scheduler.DistributedLock {
		locker = nil
	}

	return &scheduler{
		runTimeout: runTimeout,
		runOnStart: cfg.Scheduler.RunOnStart,
		locker:     locker,
	}
}

// Register adds a job. Jobs registered after Start begin immediately.
func (s *scheduler) Register(name string, every time.Duration, task Task) {
	if every <= 0 {
		panic(fmt.Sprintf("scheduler: job %q needs a positive interval", name))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	j := job{name: name, every: every, task: task}
	s.jobs = append(s.jobs, j)

	if s.started {
		s.spawn(j)
	}
}

func (s *scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	for _, j := range s.jobs {
		s.spawn(j)
	}
}

func (s *scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// spawn must be called with mu held.
func (s *scheduler) spawn(j job) {
	s.wg.Add(1)

	go func(ctx context.Context) {
		defer s.wg.Done()

		s.loop(ctx, j)
	}(s.ctx)
}

func (s *scheduler) loop(ctx context.Context, j job) {
	log := logger.Job(j.name)
	log.Info().Dur("every", j.every).Msg("job scheduled")

	if s.runOnStart {
		s.run(ctx, j)
	}

	ticker := time.NewTicker(j.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("job stopped")

			return
		case <-ticker.C:
			s.run(ctx, j)

			// A tick may have queued during a long run.
			select {
			case <-ticker.C:
			default:
			}

			ticker.Reset(j.every)
		}
	}
}

func (s *scheduler) run(ctx context.Context, j job) {
	if ctx.Err() != nil {
		return
	}

	log := logger.Job(j.name)

	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	if s.locker != nil {
		key, ttl := lockPrefix+j.name, s.lockTTL(j)

		acquired, err := s.locker.Lock(runCtx, key, ttl)
		if err != nil {
			log.Error().Err(err).Msg("failed to acquire job lock, skipping run")

			return
		}

		if !acquired {
			log.Debug().Msg("another replica holds this tick")

			return
		}

		// A lock that outlasts the interval would also hold back our own next tick.
		if ttl >= j.every {
			defer s.unlock(key, log)
		}
	}

	started := time.Now()

	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Msg("job panicked")
		}
	}()

	if err := j.task(runCtx); err != nil {
		log.Error().Err(err).Dur("took", time.Since(started)).Msg("job failed, retrying on next tick")

		return
	}

	log.Debug().Dur("took", time.Since(started)).Msg("job finished")
}

func (s *scheduler) unlock(key string, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
	defer cancel()

	if err := s.locker.Unlock(ctx, key); err != nil {
		log.Warn().Err(err).Msg("failed to release job lock")
	}
}

// lockTTL outlives the longest possible run, so no other replica can start the
// job while this one is still inside it.
func (s *scheduler) lockTTL(j job) time.Duration {
	return max(j.every/2, s.runTimeout)
}
