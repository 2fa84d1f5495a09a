// Package trigger inspects completed tasks against catalog trigger
// rules and synthesizes follow-up submissions.
package trigger

import (
	"maps"

	"github.com/veganaut/veganaut-backend/internal/domain/catalog"
	"github.com/veganaut/veganaut-backend/internal/domain/model"
)

// Engine evaluates trigger rules.
type Engine struct {
	catalog *catalog.Catalog
}

// New creates a trigger engine backed by the given catalog.
func New(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Check returns the follow-up submission a completed task spawns, if
// its type has a trigger rule and the outcome value matches. The spawn
// keeps the parent's person and subjects, inherits byNpc, and carries a
// back-reference to the parent task.
func (e *Engine) Check(task *model.Task) (model.Submission, bool) {
	def, err := e.catalog.Lookup(task.Type)
	if err != nil || def.Trigger == nil {
		return model.Submission{}, false
	}

	rule := def.Trigger
	value, ok := task.Outcome[rule.CheckField].(string)
	if !ok {
		return model.Submission{}, false
	}
	matched := false
	for _, tv := range rule.TriggerValues {
		if value == tv {
			matched = true
			break
		}
	}
	if !matched {
		return model.Submission{}, false
	}

	spawnOutcome := make(model.Outcome, len(rule.SpawnOutcome))
	maps.Copy(spawnOutcome, rule.SpawnOutcome)

	return model.Submission{
		Type:          rule.SpawnType,
		PersonID:      task.PersonID,
		LocationID:    task.LocationID,
		ProductID:     task.ProductID,
		Outcome:       spawnOutcome,
		ByNPC:         task.ByNPC,
		TriggeredByID: task.ID,
	}, true
}
