package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veganaut/veganaut-backend/internal/adapters/repository"
	"github.com/veganaut/veganaut-backend/internal/domain/catalog"
	"github.com/veganaut/veganaut-backend/internal/domain/model"
	"github.com/veganaut/veganaut-backend/pkg/logger"
	"github.com/veganaut/veganaut-backend/pkg/metrics"

	"github.com/google/uuid"
)

const hoursPerDay = 24

// Submit runs one submission through the pipeline: catalog lookup,
// subject resolution, familiarity gate, outcome validation, staleness
// check, persistence, score update, and trigger cascade. Every step
// before persistence is side-effect free; a failure there leaves all
// state untouched.
func (s *Service) Submit(ctx context.Context, sub model.Submission, now time.Time) (*model.SubmissionResult, error) {
	res, err := s.submit(ctx, sub, now, 0)
	if err != nil {
		metrics.RecordTaskRejected(rejectReason(err))
		return nil, err
	}
	metrics.RecordTaskSubmitted(sub.Type)
	return res, nil
}

func (s *Service) submit(ctx context.Context, sub model.Submission, now time.Time, depth int) (*model.SubmissionResult, error) {
	if depth > s.maxTriggerDepth {
		return nil, fmt.Errorf("depth %d: %w", depth, ErrTriggerDepthExceeded)
	}

	def, err := s.catalog.Lookup(sub.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sub.Type, ErrUnknownTaskType)
	}

	person, err := s.store.FindPerson(ctx, sub.PersonID)
	if err != nil {
		return nil, subjectErr("person", sub.PersonID, err)
	}

	var loc *model.Location
	if def.NeedsLocation() || sub.LocationID != "" {
		loc, err = s.store.FindLocation(ctx, sub.LocationID)
		if err != nil {
			return nil, subjectErr("location", sub.LocationID, err)
		}
		if loc.SoftDeleted() && !def.AllowsSoftDeleted {
			return nil, fmt.Errorf("location %s is gone: %w", sub.LocationID, ErrSubjectNotFound)
		}
	}

	var product *model.Product
	if def.NeedsProduct() {
		product, err = s.store.FindProduct(ctx, sub.ProductID)
		if err != nil {
			return nil, subjectErr("product", sub.ProductID, err)
		}
		if loc != nil && product.LocationID != loc.ID {
			return nil, fmt.Errorf("product %s does not belong to location %s: %w",
				sub.ProductID, sub.LocationID, ErrSubjectNotFound)
		}
	}

	// The familiarity gate and staleness window both key on the task's
	// main subject.
	subjectID := sub.LocationID
	if def.MainSubject == model.SubjectProduct && sub.ProductID != "" {
		subjectID = sub.ProductID
	}

	if def.RequiredFamiliarity > 0 && !sub.ByNPC {
		prior, err := s.store.CountPriorTasks(ctx, sub.PersonID, subjectID)
		if err != nil {
			return nil, storageErr("count prior tasks", err)
		}
		if prior < def.RequiredFamiliarity {
			return nil, fmt.Errorf("%d of %d prior tasks: %w",
				prior, def.RequiredFamiliarity, ErrInsufficientFamiliarity)
		}
	}

	if err := s.validator.Validate(sub.Type, sub.Outcome); err != nil {
		return nil, err
	}

	points, err := s.awardablePoints(ctx, def, sub, subjectID, now)
	if err != nil {
		return nil, err
	}

	// A "create product" task must produce the product before the task
	// row can reference its id.
	if def.CreatesProduct {
		name, _ := sub.Outcome[def.NameField].(string)
		product, err = s.store.CreateProduct(ctx, name, sub.LocationID)
		if err != nil {
			return nil, storageErr("create product", err)
		}
		sub.ProductID = product.ID
	}

	team := person.Team
	if sub.ByNPC {
		team = model.TeamNPC
	}

	task := &model.Task{
		ID:            uuid.NewString(),
		Type:          sub.Type,
		PersonID:      sub.PersonID,
		LocationID:    sub.LocationID,
		ProductID:     sub.ProductID,
		Outcome:       sub.Outcome,
		Points:        points,
		Team:          team,
		CreatedAt:     now,
		ByNPC:         sub.ByNPC,
		TriggeredByID: sub.TriggeredByID,
		RequestID:     sub.RequestID,
	}
	if err := s.store.PersistTask(ctx, task); err != nil {
		return nil, storageErr("persist task", err)
	}

	res := &model.SubmissionResult{Task: task}

	// The task row stands from here on. A failing entity update is
	// deferred to the reconciler instead of failing the submission.
	ownerChanged, applyErr := s.applyToSubject(ctx, def, task, now)
	if applyErr != nil {
		s.deferScoreUpdate(ctx, def, task, now, applyErr)
	}
	res.CausedOwnerChange = ownerChanged
	if ownerChanged {
		metrics.RecordOwnerChange()
	}
	if task.Points > 0 {
		metrics.RecordPointsAwarded(float64(task.Points))
	}

	s.cascade(ctx, task, now, depth)
	return res, nil
}

// awardablePoints applies the staleness rule: a repeat of the same type
// by the same person on the same subject inside the staleness window is
// recorded but worth nothing.
func (s *Service) awardablePoints(ctx context.Context, def catalog.Definition, sub model.Submission, subjectID string, now time.Time) (int, error) {
	if def.StaleDays <= 0 || def.CreatesProduct {
		return def.PointValue, nil
	}
	last, err := s.store.LatestTaskAt(ctx, sub.PersonID, subjectID, sub.Type)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return def.PointValue, nil
		}
		return 0, storageErr("look up latest task", err)
	}
	window := time.Duration(def.StaleDays) * hoursPerDay * time.Hour
	if now.Sub(last) < window {
		metrics.RecordStaleSubmission()
		return 0, nil
	}
	return def.PointValue, nil
}

// applyToSubject folds the award and the outcome effects into the
// task's main subject under the entity's lock.
func (s *Service) applyToSubject(ctx context.Context, def catalog.Definition, task *model.Task, now time.Time) (bool, error) {
	ownerChanged := false
	switch def.MainSubject {
	case model.SubjectLocation:
		err := s.store.UpdateLocation(ctx, task.LocationID, func(loc *model.Location) error {
			ownerChanged = s.applyScore(&loc.Score, task, now)
			applyLocationEffects(def, task, loc)
			return nil
		})
		return ownerChanged, err
	case model.SubjectProduct:
		err := s.store.UpdateProduct(ctx, task.ProductID, func(p *model.Product) error {
			ownerChanged = s.applyScore(&p.Score, task, now)
			applyProductEffects(def, task, p)
			return nil
		})
		return ownerChanged, err
	default:
		// Global tasks score no entity.
		return false, nil
	}
}

// applyScore decays, credits, and recomputes the owner. Must run under
// the entity's lock.
func (s *Service) applyScore(sc *model.Score, task *model.Task, now time.Time) bool {
	if task.Points <= 0 {
		return false
	}
	newPoints, newAt := s.scorer.ApplyNewPoints(sc.PointsByTeam, sc.UpdatedAt, now, task.Team, float64(task.Points))
	previous := sc.Owner
	sc.PointsByTeam = newPoints
	sc.UpdatedAt = newAt
	sc.Owner = s.scorer.DetermineOwner(newPoints, previous)
	return sc.Owner != previous
}

func applyLocationEffects(def catalog.Definition, task *model.Task, loc *model.Location) {
	if def.RatingField != "" {
		if v, ok := intField(task.Outcome, def.RatingField); ok {
			loc.Quality.Rate(task.PersonID, v)
		}
	}
	if def.ExistenceField != "" {
		if v, ok := task.Outcome[def.ExistenceField].(string); ok {
			loc.Existence = model.Existence(v)
		}
	}
	if def.NameField != "" {
		if v, ok := task.Outcome[def.NameField].(string); ok {
			loc.Name = v
		}
	}
	if def.DescriptionField != "" {
		if v, ok := task.Outcome[def.DescriptionField].(string); ok {
			loc.Description = v
		}
	}
	if def.TagsField != "" {
		if v, ok := stringSliceField(task.Outcome, def.TagsField); ok {
			loc.Tags = v
		}
	}
}

func applyProductEffects(def catalog.Definition, task *model.Task, p *model.Product) {
	if def.RatingField != "" {
		if v, ok := intField(task.Outcome, def.RatingField); ok {
			p.Rating.Rate(task.PersonID, v)
		}
	}
	if def.AvailabilityField != "" {
		if v, ok := task.Outcome[def.AvailabilityField].(string); ok {
			p.Availability = model.Availability(v)
		}
	}
	if def.NameField != "" && !def.CreatesProduct {
		if v, ok := task.Outcome[def.NameField].(string); ok {
			p.Name = v
		}
	}
}

// deferScoreUpdate hands a failed entity update to the reconciler. The
// replay carries the outcome alongside the points so the data effects
// land too, even for a stale repeat worth zero points.
func (s *Service) deferScoreUpdate(ctx context.Context, def catalog.Definition, task *model.Task, now time.Time, cause error) {
	s.logger.Warn(ctx, "entity update failed, deferring to reconciler",
		logger.String("taskID", task.ID),
		logger.Error(cause),
	)
	subjectID := task.LocationID
	if def.MainSubject == model.SubjectProduct {
		subjectID = task.ProductID
	}
	ok := s.retryQueue.Enqueue(ctx, model.ScoreUpdate{
		Subject:   def.MainSubject,
		SubjectID: subjectID,
		Team:      task.Team,
		Points:    task.Points,
		TaskID:    task.ID,
		Type:      task.Type,
		PersonID:  task.PersonID,
		Outcome:   task.Outcome,
		At:        now,
	})
	if !ok {
		s.logger.Error(ctx, "retry queue full, award lost until reconciliation",
			logger.String("taskID", task.ID),
		)
	}
}

// cascade runs the derived-task trigger. Spawn failures are reported
// but never invalidate the parent task.
func (s *Service) cascade(ctx context.Context, task *model.Task, now time.Time, depth int) {
	spawn, ok := s.triggers.Check(task)
	if !ok {
		return
	}
	if _, err := s.submit(ctx, spawn, now, depth+1); err != nil {
		metrics.RecordTriggerFailed()
		s.logger.Warn(ctx, "trigger failed",
			logger.String("parentTaskID", task.ID),
			logger.String("spawnType", spawn.Type),
			logger.Error(err),
		)
		return
	}
	metrics.RecordTriggerSpawned()
}

// ApplyScoreUpdate re-applies a deferred entity update. Implements the
// reconciler's Applier. The award keeps its original instant so the
// decay math matches what the in-line update would have produced; when
// the entity has moved on since, the scorer decays the award for the
// skew instead of moving the entity's base backwards. Outcome effects
// are replayed when the update carries a known task type.
func (s *Service) ApplyScoreUpdate(ctx context.Context, u model.ScoreUpdate) error {
	task := &model.Task{
		ID:       u.TaskID,
		Type:     u.Type,
		PersonID: u.PersonID,
		Team:     u.Team,
		Points:   u.Points,
		Outcome:  u.Outcome,
	}
	def, defErr := s.catalog.Lookup(u.Type)
	switch u.Subject {
	case model.SubjectLocation:
		return s.store.UpdateLocation(ctx, u.SubjectID, func(loc *model.Location) error {
			s.applyScore(&loc.Score, task, u.At)
			if defErr == nil {
				applyLocationEffects(def, task, loc)
			}
			return nil
		})
	case model.SubjectProduct:
		return s.store.UpdateProduct(ctx, u.SubjectID, func(p *model.Product) error {
			s.applyScore(&p.Score, task, u.At)
			if defErr == nil {
				applyProductEffects(def, task, p)
			}
			return nil
		})
	default:
		return nil
	}
}

func intField(o model.Outcome, key string) (int, bool) {
	switch v := o[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func stringSliceField(o model.Outcome, key string) ([]string, bool) {
	switch v := o[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, it := range v {
			s, ok := it.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// subjectErr maps a storage lookup failure to the pipeline taxonomy:
// missing subjects are client errors, everything else is infrastructure.
func subjectErr(kind, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrSubjectNotFound)
	}
	return storageErr("resolve "+kind, err)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrStorage)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownTaskType):
		return "unknown_type"
	case errors.Is(err, ErrSubjectNotFound):
		return "subject_not_found"
	case errors.Is(err, ErrInsufficientFamiliarity):
		return "familiarity"
	case errors.Is(err, ErrTriggerDepthExceeded):
		return "trigger_depth"
	case errors.Is(err, ErrStorage):
		return "storage"
	default:
		return "invalid_outcome"
	}
}
