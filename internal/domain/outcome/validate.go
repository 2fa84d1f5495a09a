// Package outcome validates submitted outcome payloads against the
// catalog schema for their task type.
//
// Schemas are closed: any key the schema does not declare rejects the
// whole payload. Validation is side-effect free and must run before any
// persistence or score mutation.
package outcome

import (
	"fmt"
	"math"
	"slices"

	"github.com/veganaut/veganaut-backend/internal/domain/catalog"
	"github.com/veganaut/veganaut-backend/internal/domain/model"
)

// Validator checks payloads against catalog outcome schemas.
type Validator struct {
	catalog *catalog.Catalog
}

// NewValidator creates a validator backed by the given catalog.
func NewValidator(c *catalog.Catalog) *Validator {
	return &Validator{catalog: c}
}

// Validate checks payload against the schema for typeID. A nil return
// means the payload is acceptable as-is. Schema violations come back as
// a *ValidationError carrying one entry per offending field.
func (v *Validator) Validate(typeID string, payload model.Outcome) error {
	def, err := v.catalog.Lookup(typeID)
	if err != nil {
		return fmt.Errorf("validate outcome: %w", err)
	}

	ve := &ValidationError{Type: typeID}
	for key := range payload {
		if _, declared := def.Outcome[key]; !declared {
			ve.add(key, "field is not part of the schema")
		}
	}
	for key, spec := range def.Outcome {
		raw, present := payload[key]
		if !present {
			if spec.Required {
				ve.add(key, "required field is missing")
			}
			continue
		}
		checkField(ve, key, spec, raw)
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

func checkField(ve *ValidationError, key string, spec catalog.FieldSpec, raw any) {
	switch spec.Type {
	case catalog.FieldString:
		if _, ok := raw.(string); !ok {
			ve.add(key, "must be a string")
		}
	case catalog.FieldBool:
		if _, ok := raw.(bool); !ok {
			ve.add(key, "must be a boolean")
		}
	case catalog.FieldEnum:
		s, ok := raw.(string)
		if !ok {
			ve.add(key, "must be a string")
			return
		}
		if !slices.Contains(spec.Enum, s) {
			ve.add(key, fmt.Sprintf("must be one of %v", spec.Enum))
		}
	case catalog.FieldInt:
		n, ok := asInt(raw)
		if !ok {
			ve.add(key, "must be an integer")
			return
		}
		if n < spec.Min || n > spec.Max {
			ve.add(key, fmt.Sprintf("must be between %d and %d", spec.Min, spec.Max))
		}
	case catalog.FieldTags:
		items, ok := asStringSlice(raw)
		if !ok {
			ve.add(key, "must be an array of strings")
			return
		}
		for _, item := range items {
			if !slices.Contains(spec.Enum, item) {
				ve.add(key, fmt.Sprintf("unknown tag %q", item))
			}
		}
	default:
		ve.add(key, "unsupported field type in schema")
	}
}

// asInt accepts int and the float64 that JSON decoding produces,
// as long as the value is integral.
func asInt(raw any) (int, bool) {
	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func asStringSlice(raw any) ([]string, bool) {
	switch items := raw.(type) {
	case []string:
		return items, true
	case []any:
		out := make([]string, 0, len(items))
		for _, it := range items {
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
