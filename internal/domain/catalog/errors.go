package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrUnknownType       = errors.New("unknown task type")
	ErrDuplicateType     = errors.New("duplicate task type")
	ErrDanglingTrigger   = errors.New("trigger spawns unregistered type")
	ErrTriggerCycle      = errors.New("trigger rules form a cycle")
	ErrInvalidDefinition = errors.New("invalid task definition")
)
