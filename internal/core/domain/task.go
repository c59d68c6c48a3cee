package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

func (s TaskStatus) String() string {
	return string(s)
}

func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

func ParseTaskStatus(value string) (TaskStatus, error) {
	status := TaskStatus(value)

	if !status.Valid() {
		return "", fmt.Errorf("%w: invalid status %q", ErrInvalidStatus, value)
	}

	return status, nil
}

type Task struct {
	ID          uuid.UUID
	Title       string
	Description string
	Status      TaskStatus `validate:"oneof=pending completed"`
	CreatedAt   time.Time
}

func (t *Task) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"status":      t.Status.String(),
		"created_at":  t.CreatedAt,
	}
}

func (t *Task) Completed() bool {
	return t.Status == TaskStatusCompleted
}
