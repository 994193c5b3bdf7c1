package generator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/verdant/landplan/internal/catalog"
	"github.com/verdant/landplan/internal/events"
	"github.com/verdant/landplan/internal/persistence"
	"github.com/verdant/landplan/internal/schedule"
)

// Request describes one schedule to generate.
type Request struct {
	ProjectID   string
	ProjectName string
	TemplateID  string
	Anchor      time.Time     // Work start date
	Mode        schedule.Mode // Zero value is ModeDependencies
}

// Result pairs a batch request with its outcome.
type Result struct {
	Request  Request
	Schedule *schedule.Schedule
	Err      error
}

// Config configures the generation service.
type Config struct {
	ConcurrencyLimit int         // Max concurrent generations in a batch (default 4)
	Retry            RetryConfig // Store write retry policy
	BreakerName      string      // Circuit breaker name (default "store")
}

// Service turns templates into persisted schedules, publishing progress on
// the event bus as it goes.
type Service struct {
	config  Config
	catalog *catalog.Catalog
	store   persistence.Store
	bus     *events.EventBus
	breaker *gobreaker.CircuitBreaker
}

// NewService creates a generation service.
func NewService(cfg Config, cat *catalog.Catalog, store persistence.Store, bus *events.EventBus) *Service {
	if cfg.ConcurrencyLimit <= 0 {
		cfg.ConcurrencyLimit = 4
	}
	if cfg.Retry == (RetryConfig{}) {
		cfg.Retry = DefaultRetryConfig()
	}
	if cfg.BreakerName == "" {
		cfg.BreakerName = "store"
	}

	return &Service{
		config:  cfg,
		catalog: cat,
		store:   store,
		bus:     bus,
		breaker: newStoreBreaker(cfg.BreakerName),
	}
}

// Generate assembles a schedule from the requested template and persists it.
// Template warnings are published individually; they never fail the request.
func (s *Service) Generate(ctx context.Context, req Request) (*schedule.Schedule, error) {
	tpl, err := s.catalog.Get(req.TemplateID)
	if err != nil {
		return nil, s.fail(req, err)
	}

	sched, warnings, err := schedule.Assemble(tpl, req.Anchor, req.ProjectName, req.Mode)
	if err != nil {
		return nil, s.fail(req, fmt.Errorf("assemble %q: %w", req.TemplateID, err))
	}
	sched.ProjectID = req.ProjectID

	for _, w := range warnings {
		s.bus.Publish(events.TopicSchedule, events.TemplateWarningEvent{
			ID:         sched.ID,
			TemplateID: tpl.ID,
			Warning:    w,
			Timestamp:  time.Now(),
		})
	}

	id, err := saveWithRetry(ctx, s.store, sched, s.breaker, s.config.Retry)
	if err != nil {
		return nil, s.fail(req, fmt.Errorf("persist schedule: %w", err))
	}
	sched.ID = id

	s.bus.Publish(events.TopicSchedule, events.ScheduleGeneratedEvent{
		ID:         id,
		ProjectID:  req.ProjectID,
		Name:       sched.Name,
		TemplateID: tpl.ID,
		TaskCount:  len(sched.Tasks),
		Warnings:   len(warnings),
		Timestamp:  time.Now(),
	})
	s.bus.Publish(events.TopicSchedule, events.Progress(sched))

	return sched, nil
}

// GenerateBatch generates schedules for all requests with bounded concurrency.
// Individual failures are recorded per result; only context cancellation
// aborts the batch.
func (s *Service) GenerateBatch(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.ConcurrencyLimit)

	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			sched, err := s.Generate(gctx, req)

			mu.Lock()
			results[i] = Result{Request: req, Schedule: sched, Err: err}
			mu.Unlock()

			// Request errors stay in the result, not the group
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// UpdateTask applies a progress change through the store and announces it.
func (s *Service) UpdateTask(ctx context.Context, scheduleID string, taskID int, progress int, status schedule.TaskStatus, assignedTo string) error {
	if err := s.store.UpdateTask(ctx, scheduleID, taskID, progress, status, assignedTo); err != nil {
		return err
	}

	s.bus.Publish(events.TopicTask, events.TaskUpdatedEvent{
		ID:         scheduleID,
		TaskID:     taskID,
		Progress:   progress,
		Status:     status,
		AssignedTo: assignedTo,
		Timestamp:  time.Now(),
	})

	if sched, err := s.store.GetSchedule(ctx, scheduleID); err == nil {
		s.bus.Publish(events.TopicSchedule, events.Progress(sched))
	}

	return nil
}

// fail publishes a generation failure and returns the error unchanged.
func (s *Service) fail(req Request, err error) error {
	s.bus.Publish(events.TopicSchedule, events.GenerationFailedEvent{
		ProjectID:  req.ProjectID,
		TemplateID: req.TemplateID,
		Err:        err,
		Timestamp:  time.Now(),
	})
	return err
}
