package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veganaut/veganaut-backend/internal/domain/model"
	"github.com/veganaut/veganaut-backend/pkg/metrics"
)

// Default store configuration constants.
const defaultShardCount = 8

// MemStore is the in-memory Store implementation.
//
// Locations and products are sharded by id hash; each shard has its own
// mutex, so UpdateLocation/UpdateProduct serialize all writers of one
// entity while leaving unrelated entities concurrent. The task ledger
// is a separate append-only structure with a (person, subject) index
// backing the familiarity and staleness queries.
type MemStore struct {
	shardCount int
	shards     []*shard

	tasksMu sync.RWMutex
	tasks   []*model.Task
	// byActor indexes task positions by "personID/subjectID".
	byActor map[string][]int
}

type shard struct {
	mu        sync.Mutex
	locations map[string]*model.Location
	products  map[string]*model.Product
	persons   map[string]*model.Person
}

// NewMemStore creates an empty store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{shardCount: defaultShardCount, byActor: make(map[string][]int)}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{
			locations: make(map[string]*model.Location),
			products:  make(map[string]*model.Product),
			persons:   make(map[string]*model.Person),
		}
	}
	metrics.UpdateStoreShardCount(s.shardCount)
	return s
}

func (s *MemStore) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[int(h.Sum32())%s.shardCount]
}

func actorKey(personID, subjectID string) string {
	return personID + "/" + subjectID
}

// FindLocation returns a snapshot copy so callers never alias stored state.
func (s *MemStore) FindLocation(ctx context.Context, id string) (*model.Location, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	loc, ok := sh.locations[id]
	if !ok {
		return nil, fmt.Errorf("location %s: %w", id, ErrNotFound)
	}
	return cloneLocation(loc), nil
}

func (s *MemStore) FindProduct(ctx context.Context, id string) (*model.Product, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	p, ok := sh.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return cloneProduct(p), nil
}

func (s *MemStore) FindPerson(ctx context.Context, id string) (*model.Person, error) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	p, ok := sh.persons[id]
	if !ok {
		return nil, fmt.Errorf("person %s: %w", id, ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *MemStore) AddLocation(ctx context.Context, loc *model.Location) error {
	if loc.ID == "" {
		loc.ID = uuid.NewString()
	}
	if loc.Existence == "" {
		loc.Existence = model.ExistenceExisting
	}
	sh := s.shardFor(loc.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, dup := sh.locations[loc.ID]; dup {
		return fmt.Errorf("location %s: %w", loc.ID, ErrConflict)
	}
	sh.locations[loc.ID] = cloneLocation(loc)
	metrics.RecordStoreRecordAdded("location")
	return nil
}

func (s *MemStore) AddPerson(ctx context.Context, p *model.Person) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	sh := s.shardFor(p.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, dup := sh.persons[p.ID]; dup {
		return fmt.Errorf("person %s: %w", p.ID, ErrConflict)
	}
	cp := *p
	sh.persons[p.ID] = &cp
	metrics.RecordStoreRecordAdded("person")
	return nil
}

func (s *MemStore) CreateProduct(ctx context.Context, name, locationID string) (*model.Product, error) {
	p := &model.Product{
		ID:           uuid.NewString(),
		LocationID:   locationID,
		Name:         name,
		Availability: model.AvailabilityUnknown,
	}
	sh := s.shardFor(p.ID)
	sh.mu.Lock()
	sh.products[p.ID] = cloneProduct(p)
	sh.mu.Unlock()
	metrics.RecordStoreRecordAdded("product")
	return p, nil
}

func (s *MemStore) CountPriorTasks(ctx context.Context, personID, subjectID string) (int, error) {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()
	return len(s.byActor[actorKey(personID, subjectID)]), nil
}

func (s *MemStore) LatestTaskAt(ctx context.Context, personID, subjectID, typeID string) (time.Time, error) {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()

	var latest time.Time
	found := false
	for _, idx := range s.byActor[actorKey(personID, subjectID)] {
		t := s.tasks[idx]
		if t.Type != typeID {
			continue
		}
		if !found || t.CreatedAt.After(latest) {
			latest = t.CreatedAt
			found = true
		}
	}
	if !found {
		return time.Time{}, fmt.Errorf("no %s task by %s on %s: %w", typeID, personID, subjectID, ErrNotFound)
	}
	return latest, nil
}

func (s *MemStore) PersistTask(ctx context.Context, task *model.Task) error {
	start := time.Now()
	defer func() { metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds())) }()

	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	cp := *task
	cp.Outcome = maps.Clone(task.Outcome)
	idx := len(s.tasks)
	s.tasks = append(s.tasks, &cp)
	if task.LocationID != "" {
		key := actorKey(task.PersonID, task.LocationID)
		s.byActor[key] = append(s.byActor[key], idx)
	}
	if task.ProductID != "" {
		key := actorKey(task.PersonID, task.ProductID)
		s.byActor[key] = append(s.byActor[key], idx)
	}
	metrics.RecordStoreRecordAdded("task")
	return nil
}

func (s *MemStore) UpdateLocation(ctx context.Context, id string, mutate func(*model.Location) error) error {
	start := time.Now()
	defer func() { metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds())) }()

	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	loc, ok := sh.locations[id]
	if !ok {
		return fmt.Errorf("location %s: %w", id, ErrNotFound)
	}
	if err := mutate(loc); err != nil {
		return fmt.Errorf("mutate location %s: %w", id, err)
	}
	return nil
}

func (s *MemStore) UpdateProduct(ctx context.Context, id string, mutate func(*model.Product) error) error {
	start := time.Now()
	defer func() { metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds())) }()

	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	p, ok := sh.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err := mutate(p); err != nil {
		return fmt.Errorf("mutate product %s: %w", id, err)
	}
	return nil
}

// TaskCount returns the size of the task ledger.
func (s *MemStore) TaskCount() int {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()
	return len(s.tasks)
}

// TasksFor returns snapshot copies of every task the person completed
// against the subject, oldest first.
func (s *MemStore) TasksFor(ctx context.Context, personID, subjectID string) ([]*model.Task, error) {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()

	idxs := s.byActor[actorKey(personID, subjectID)]
	out := make([]*model.Task, 0, len(idxs))
	for _, idx := range idxs {
		cp := *s.tasks[idx]
		cp.Outcome = maps.Clone(cp.Outcome)
		out = append(out, &cp)
	}
	return out, nil
}

func cloneLocation(loc *model.Location) *model.Location {
	cp := *loc
	cp.Tags = slices.Clone(loc.Tags)
	cp.Quality.ByPerson = maps.Clone(loc.Quality.ByPerson)
	cp.Score.PointsByTeam = maps.Clone(loc.Score.PointsByTeam)
	return &cp
}

func cloneProduct(p *model.Product) *model.Product {
	cp := *p
	cp.Rating.ByPerson = maps.Clone(p.Rating.ByPerson)
	cp.Score.PointsByTeam = maps.Clone(p.Score.PointsByTeam)
	return &cp
}
