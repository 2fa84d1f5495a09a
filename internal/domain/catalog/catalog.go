// Package catalog holds the static registry of task type definitions.
//
// The catalog is pure data: validation shapes, point values, staleness
// windows, familiarity gates, and trigger rules all live here so that
// no other package needs per-type behavior baked into code. It is
// read-only after construction.
package catalog

import (
	"fmt"
	"sort"

	"github.com/veganaut/veganaut-backend/internal/domain/model"
)

// FieldType enumerates the primitive shapes an outcome field may have.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "int"
	FieldBool   FieldType = "bool"
	FieldEnum   FieldType = "enum"
	FieldTags   FieldType = "tags" // array of strings drawn from Enum
)

// FieldSpec describes one field of an outcome schema.
type FieldSpec struct {
	Type     FieldType
	Required bool
	Enum     []string // allowed values for FieldEnum / FieldTags elements
	Min, Max int      // inclusive bounds for FieldInt
}

// OutcomeSchema is the closed set of fields an outcome may carry.
type OutcomeSchema map[string]FieldSpec

// TriggerRule spawns a follow-up task when the completed outcome's
// CheckField value is one of TriggerValues.
type TriggerRule struct {
	CheckField    string
	TriggerValues []string
	SpawnType     string
	SpawnOutcome  model.Outcome
}

// Definition is the immutable rule entry for one task type.
type Definition struct {
	Type                string
	MainSubject         model.SubjectKind
	OtherSubjects       []model.SubjectKind
	Outcome             OutcomeSchema
	PointValue          int
	StaleDays           int
	RequiredFamiliarity int

	// AllowsSoftDeleted marks types that legitimately operate on
	// soft-deleted subjects, e.g. re-marking a location's existence.
	AllowsSoftDeleted bool

	// CreatesProduct marks types whose submission creates the product
	// it references, using NameField as the product name.
	CreatesProduct bool

	// Data-only effect hooks: when set, the pipeline folds the named
	// outcome field into the subject after a successful submission.
	RatingField       string
	ExistenceField    string
	AvailabilityField string
	NameField         string
	DescriptionField  string
	TagsField         string

	Trigger *TriggerRule
}

// NeedsProduct reports whether a submission of this type must reference
// an existing product.
func (d Definition) NeedsProduct() bool {
	if d.CreatesProduct {
		return false
	}
	if d.MainSubject == model.SubjectProduct {
		return true
	}
	for _, s := range d.OtherSubjects {
		if s == model.SubjectProduct {
			return true
		}
	}
	return false
}

// NeedsLocation reports whether a submission of this type must
// reference a location.
func (d Definition) NeedsLocation() bool {
	if d.MainSubject == model.SubjectLocation {
		return true
	}
	for _, s := range d.OtherSubjects {
		if s == model.SubjectLocation {
			return true
		}
	}
	return false
}

// Catalog is the compiled, validated registry.
type Catalog struct {
	defs map[string]Definition
}

// New compiles definitions into a Catalog. It rejects duplicate type
// ids, trigger rules that spawn unknown types, and trigger chains that
// form a cycle.
func New(defs []Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if d.Type == "" {
			return nil, fmt.Errorf("definition without type id: %w", ErrInvalidDefinition)
		}
		if _, dup := c.defs[d.Type]; dup {
			return nil, fmt.Errorf("%s: %w", d.Type, ErrDuplicateType)
		}
		if d.PointValue < 0 || d.StaleDays < 0 || d.RequiredFamiliarity < 0 {
			return nil, fmt.Errorf("%s: negative rule value: %w", d.Type, ErrInvalidDefinition)
		}
		c.defs[d.Type] = d
	}
	for _, d := range c.defs {
		if d.Trigger == nil {
			continue
		}
		if _, ok := c.defs[d.Trigger.SpawnType]; !ok {
			return nil, fmt.Errorf("%s spawns unknown type %s: %w", d.Type, d.Trigger.SpawnType, ErrDanglingTrigger)
		}
		if err := c.checkCycle(d.Type); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// checkCycle follows trigger edges from start and fails on a revisit.
func (c *Catalog) checkCycle(start string) error {
	seen := map[string]bool{start: true}
	cur := start
	for {
		def := c.defs[cur]
		if def.Trigger == nil {
			return nil
		}
		next := def.Trigger.SpawnType
		if seen[next] {
			return fmt.Errorf("trigger chain from %s revisits %s: %w", start, next, ErrTriggerCycle)
		}
		seen[next] = true
		cur = next
	}
}

// Lookup returns the definition for a type id.
func (c *Catalog) Lookup(typeID string) (Definition, error) {
	d, ok := c.defs[typeID]
	if !ok {
		return Definition{}, fmt.Errorf("%s: %w", typeID, ErrUnknownType)
	}
	return d, nil
}

// Types returns all registered type ids in sorted order.
func (c *Catalog) Types() []string {
	out := make([]string, 0, len(c.defs))
	for t := range c.defs {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}
