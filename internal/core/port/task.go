package port

import (
	"context"

	"github.com/google/uuid"

	"taskmanager/internal/core/domain"
)

// CreateTaskInput carries the fields a client may supply when creating a
// task. Pointer fields distinguish "absent" from "empty string".
type CreateTaskInput struct {
	Title       *string
	Description *string
}

// TaskPatch carries a partial update. A nil field is left untouched; a
// non-nil field overwrites the stored value, whatever it is.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
}

type TaskRepository interface {
	List(ctx context.Context) ([]domain.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	Update(ctx context.Context, task domain.Task) (domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaskService interface {
	List(ctx context.Context) ([]domain.Task, error)
	GetByID(ctx context.Context, id string) (domain.Task, error)
	Create(ctx context.Context, input CreateTaskInput) (domain.Task, error)
	Update(ctx context.Context, id string, patch TaskPatch) (domain.Task, error)
	Delete(ctx context.Context, id string) (string, error)
}
