// Package scheduler runs the console's periodic housekeeping on gocron.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

var (
	ErrStopped     = errors.New("scheduler stopped")
	ErrUnnamedJob  = errors.New("job name is required")
	ErrBadInterval = errors.New("job interval must be positive")
	ErrUnknownJob  = errors.New("unknown job")
)

// Job is a periodic task. Run returns how many items it cleaned up, which is
// logged when non-zero.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) (int, error)
}

// Service owns the gocron scheduler. Jobs receive a context that is
// cancelled by Stop.
type Service struct {
	sched  gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	jobs map[string]gocron.Job

	stopOnce sync.Once
	stopErr  error
}

// New creates a scheduler. A nil clock uses the system time.
func New(clock clockwork.Clock) (*Service, error) {
	opts := []gocron.SchedulerOption{
		gocron.WithGlobalJobOptions(
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(_ uuid.UUID, name string, recovered any) {
					log.Error().Str("job", name).Interface("panic", recovered).Msg("Housekeeping job panicked")
				}),
			),
		),
	}
	if clock != nil {
		opts = append(opts, gocron.WithClock(clock))
	}
	sched, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{sched: sched, ctx: ctx, cancel: cancel, jobs: make(map[string]gocron.Job)}, nil
}

// Add registers job. Names must be unique.
func (s *Service) Add(job Job) error {
	name := strings.TrimSpace(job.Name)
	switch {
	case name == "":
		return ErrUnnamedJob
	case job.Interval <= 0:
		return fmt.Errorf("%s: %w", name, ErrBadInterval)
	case s.ctx.Err() != nil:
		return ErrStopped
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.jobs[name]; dup {
		return fmt.Errorf("job %s already registered", name)
	}

	logger := log.With().Str("job", name).Logger()
	run := func() {
		removed, err := job.Run(s.ctx)
		switch {
		case err != nil:
			logger.Error().Err(err).Msg("Housekeeping job failed")
		case removed > 0:
			logger.Info().Int("removed", removed).Msg("Housekeeping job cleaned up")
		default:
			logger.Debug().Msg("Housekeeping job ran")
		}
	}

	handle, err := s.sched.NewJob(gocron.DurationJob(job.Interval), gocron.NewTask(run), gocron.WithName(name))
	if err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	s.jobs[name] = handle
	logger.Info().Dur("interval", job.Interval).Msg("Housekeeping job registered")
	return nil
}

// RunNow triggers the named job outside its schedule.
func (s *Service) RunNow(name string) error {
	s.mu.Lock()
	handle, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownJob)
	}
	return handle.RunNow()
}

// Start begins running registered jobs.
func (s *Service) Start() {
	s.mu.Lock()
	count := len(s.jobs)
	s.mu.Unlock()
	log.Info().Int("jobs", count).Msg("Scheduler starting")
	s.sched.Start()
}

// Stop cancels running jobs and shuts the scheduler down. It is safe to call
// more than once.
func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		s.cancel()
		s.stopErr = s.sched.Shutdown()
	})
	return s.stopErr
}
