package app

import "errors"

// Client error kinds. Surfaced verbatim to the caller; retrying an
// identical submission will fail the same way.
var (
	ErrUnknownTaskType         = errors.New("unknown task type")
	ErrSubjectNotFound         = errors.New("subject not found")
	ErrInsufficientFamiliarity = errors.New("insufficient familiarity with subject")
	ErrTriggerDepthExceeded    = errors.New("trigger chain too deep")
)

// ErrStorage wraps infrastructure failures from the storage
// collaborator. Safe to retry as long as the task row was not yet
// persisted; after that a retry may create a duplicate task.
var ErrStorage = errors.New("storage failure")
