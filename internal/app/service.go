// Package app wires the mission core together and exposes the
// submission pipeline plus the read surface the HTTP adapter needs.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/veganaut/veganaut-backend/internal/adapters/mq/queue"
	"github.com/veganaut/veganaut-backend/internal/adapters/mq/worker"
	"github.com/veganaut/veganaut-backend/internal/adapters/repository"
	"github.com/veganaut/veganaut-backend/internal/domain/catalog"
	"github.com/veganaut/veganaut-backend/internal/domain/dedupe"
	"github.com/veganaut/veganaut-backend/internal/domain/model"
	"github.com/veganaut/veganaut-backend/internal/domain/outcome"
	"github.com/veganaut/veganaut-backend/internal/domain/scoring"
	"github.com/veganaut/veganaut-backend/internal/domain/trigger"
	"github.com/veganaut/veganaut-backend/pkg/logger"
	"github.com/veganaut/veganaut-backend/pkg/metrics"

	"github.com/google/uuid"
)

// Service implements the mission core: catalog lookups, validation,
// scoring, trigger cascades, and the reconciler for deferred score
// updates.
type Service struct {
	mu sync.RWMutex

	store     repository.Store
	catalog   *catalog.Catalog
	validator *outcome.Validator
	scorer    *scoring.Engine
	triggers  *trigger.Engine
	deduper   dedupe.Deduper

	retryQueue queue.Queue
	pool       *worker.Pool

	// Configuration
	dailyDecay      float64
	maxTriggerDepth int
	retryQueueSize  int
	reconcilers     int
	dedupeSize      int

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the storage collaborator.
func WithStore(s repository.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.store = s
		}
	}
}

// WithCatalog sets the task type catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(svc *Service) {
		if c != nil {
			svc.catalog = c
		}
	}
}

// WithDailyDecay sets the fraction of points lost per 24h.
func WithDailyDecay(fraction float64) Option {
	return func(svc *Service) {
		if fraction > 0 && fraction < 1 {
			svc.dailyDecay = fraction
		}
	}
}

// WithMaxTriggerDepth bounds how many levels of derived tasks a single
// submission may cascade through.
func WithMaxTriggerDepth(depth int) Option {
	return func(svc *Service) {
		if depth >= 0 {
			svc.maxTriggerDepth = depth
		}
	}
}

// WithRetryQueueSize bounds the deferred score-update queue.
func WithRetryQueueSize(size int) Option {
	return func(svc *Service) {
		if size > 0 {
			svc.retryQueueSize = size
		}
	}
}

// WithReconcilerCount sets the number of reconciler workers.
func WithReconcilerCount(count int) Option {
	return func(svc *Service) {
		if count > 0 {
			svc.reconcilers = count
		}
	}
}

// WithDedupeSize bounds the request-id idempotency cache.
func WithDedupeSize(size int) Option {
	return func(svc *Service) {
		if size > 0 {
			svc.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dailyDecay:      0.10,
		maxTriggerDepth: 1,
		retryQueueSize:  10_000,
		reconcilers:     2,
		dedupeSize:      50_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the remaining components and launches the
// reconciler pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}
	if s.catalog == nil {
		s.catalog = catalog.MustDefault()
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	s.validator = outcome.NewValidator(s.catalog)
	s.scorer = scoring.NewEngine(scoring.WithDailyDecay(s.dailyDecay))
	s.triggers = trigger.New(s.catalog)
	s.deduper = dedupe.New(dedupe.WithMaxSize(s.dedupeSize))
	s.retryQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.retryQueueSize))
	s.pool = worker.NewPool(s.reconcilers, s.retryQueue, s)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "mission service started",
		logger.Int("taskTypes", s.catalog.Len()),
		logger.Float64("dailyDecay", s.dailyDecay),
		logger.Int("reconcilers", s.reconcilers),
	)
	return nil
}

// Stop shuts the reconciler pool and retry queue down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.retryQueue != nil {
		_ = s.retryQueue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	s.started = false
	s.logger.Info(context.Background(), "mission service stopped")
}

// SeenAndRecord atomically checks and records a submission request id.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes a request id so the submission can be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the number of tracked request ids.
func (s *Service) Size() int {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// CreateLocation registers a new location and returns it.
func (s *Service) CreateLocation(ctx context.Context, name string) (*model.Location, error) {
	loc := &model.Location{ID: uuid.NewString(), Name: name, Existence: model.ExistenceExisting}
	if err := s.store.AddLocation(ctx, loc); err != nil {
		return nil, storageErr("create location", err)
	}
	return loc, nil
}

// CreatePerson registers a new person on a team and returns it.
func (s *Service) CreatePerson(ctx context.Context, team string) (*model.Person, error) {
	p := &model.Person{ID: uuid.NewString(), Team: team}
	if err := s.store.AddPerson(ctx, p); err != nil {
		return nil, storageErr("create person", err)
	}
	return p, nil
}

// LocationView returns the location with its points decayed to now and
// the owner recomputed for the elapsed time.
func (s *Service) LocationView(ctx context.Context, id string, now time.Time) (*model.LocationView, error) {
	loc, err := s.store.FindLocation(ctx, id)
	if err != nil {
		return nil, subjectErr("location", id, err)
	}
	current := s.scorer.CurrentPoints(loc.Score.PointsByTeam, loc.Score.UpdatedAt, now)
	return &model.LocationView{
		ID:          loc.ID,
		Name:        loc.Name,
		Description: loc.Description,
		Tags:        loc.Tags,
		Existence:   loc.Existence,
		Quality: model.RatingView{
			Average:    loc.Quality.Average(),
			NumRatings: loc.Quality.NumRatings(),
		},
		PointsByTeam: current,
		Owner:        s.scorer.DetermineOwner(current, loc.Score.Owner),
	}, nil
}

// ProductView is LocationView for products.
func (s *Service) ProductView(ctx context.Context, id string, now time.Time) (*model.ProductView, error) {
	p, err := s.store.FindProduct(ctx, id)
	if err != nil {
		return nil, subjectErr("product", id, err)
	}
	current := s.scorer.CurrentPoints(p.Score.PointsByTeam, p.Score.UpdatedAt, now)
	return &model.ProductView{
		ID:         p.ID,
		LocationID: p.LocationID,
		Name:       p.Name,
		Availability: func() model.Availability {
			if p.Availability == "" {
				return model.AvailabilityUnknown
			}
			return p.Availability
		}(),
		Rating: model.RatingView{
			Average:    p.Rating.Average(),
			NumRatings: p.Rating.NumRatings(),
		},
		PointsByTeam: current,
		Owner:        s.scorer.DetermineOwner(current, p.Score.Owner),
	}, nil
}

// Stats returns service counters for the stats endpoint.
func (s *Service) Stats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":         s.started,
		"taskTypes":       s.catalog.Len(),
		"maxTriggerDepth": s.maxTriggerDepth,
		"dedupeTracked":   s.Size(),
	}
	if s.started {
		stats["retryQueueLength"] = s.retryQueue.Len(ctx)
		metrics.UpdateRetryQueueSize(s.retryQueue.Len(ctx))
	}
	if ms, ok := s.store.(*repository.MemStore); ok {
		stats["tasksPersisted"] = ms.TaskCount()
	}
	return stats
}
