package outcome

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOutcome is the sentinel all validation failures unwrap to.
var ErrInvalidOutcome = errors.New("invalid outcome")

// FieldError describes one schema violation.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError aggregates every field-level problem found in one
// payload so the caller can surface them all at once.
type ValidationError struct {
	Type   string       `json:"type"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return fmt.Sprintf("invalid outcome for %s (%s)", e.Type, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is(err, ErrInvalidOutcome) match.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidOutcome
}
