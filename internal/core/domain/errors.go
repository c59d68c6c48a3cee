package domain

import "errors"

var (
	// ErrTaskNotFound means the id is well-formed but no task has it.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidTaskID means the id does not parse as a UUID. It is
	// reported before any existence check.
	ErrInvalidTaskID = errors.New("invalid task id")

	// ErrInvalidStatus means a status value outside the pending/completed domain.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrValidation means a required field is missing from the request.
	ErrValidation = errors.New("validation failed")
)
