package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/port"
	tel "taskmanager/internal/core/telemetry"
)

type TaskService struct {
	repo      port.TaskRepository
	telemetry port.Telemetry
}

func NewTaskService(repo port.TaskRepository, telemetry port.Telemetry) *TaskService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskService{repo: repo, telemetry: telemetry}
}

func (ts *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := ts.repo.List(ctx)

	if err != nil {
		slog.Error("Error listing tasks", "error", err)
		return nil, err
	}

	return tasks, nil
}

func (ts *TaskService) GetByID(ctx context.Context, id string) (domain.Task, error) {
	taskID, err := parseTaskID(id)

	if err != nil {
		return domain.Task{}, err
	}

	return ts.repo.GetByID(ctx, taskID)
}

func (ts *TaskService) Create(ctx context.Context, input port.CreateTaskInput) (domain.Task, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "task", "Create", nil)
	defer span.End()

	startTime := time.Now()

	if input.Title == nil {
		err := fmt.Errorf("%w: title is required", domain.ErrValidation)
		ts.telemetry.RecordServiceOperation(ctx, "task", "Create", time.Since(startTime), err)
		return domain.Task{}, err
	}

	if input.Description == nil {
		err := fmt.Errorf("%w: description is required", domain.ErrValidation)
		ts.telemetry.RecordServiceOperation(ctx, "task", "Create", time.Since(startTime), err)
		return domain.Task{}, err
	}

	newTask := domain.Task{
		ID:          uuid.New(),
		Title:       *input.Title,
		Description: *input.Description,
		Status:      domain.TaskStatusPending,
		CreatedAt:   time.Now(),
	}

	task, err := ts.repo.Create(ctx, newTask)

	if err != nil {
		slog.Error("Repository create failed", "error", err, "title", newTask.Title)
		ts.telemetry.RecordServiceOperation(ctx, "task", "Create", time.Since(startTime), err)
		return domain.Task{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "created", "task", task.ID.String(), task.ToMap())
	ts.telemetry.RecordServiceOperation(ctx, "task", "Create", time.Since(startTime), nil)

	return task, nil
}

// Update merges only the fields the patch names. Which fields change is
// governed by presence, not by value: an explicit empty string overwrites,
// a nil field keeps the stored value.
func (ts *TaskService) Update(ctx context.Context, id string, patch port.TaskPatch) (domain.Task, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "task", "Update", map[string]interface{}{
		"task.id": id,
	})
	defer span.End()

	startTime := time.Now()

	taskID, err := parseTaskID(id)

	if err != nil {
		ts.telemetry.RecordServiceOperation(ctx, "task", "Update", time.Since(startTime), err)
		return domain.Task{}, err
	}

	task, err := ts.repo.GetByID(ctx, taskID)

	if err != nil {
		ts.telemetry.RecordServiceOperation(ctx, "task", "Update", time.Since(startTime), err)
		return domain.Task{}, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}

	if patch.Description != nil {
		task.Description = *patch.Description
	}

	if patch.Status != nil {
		status, err := domain.ParseTaskStatus(*patch.Status)

		if err != nil {
			ts.telemetry.RecordServiceOperation(ctx, "task", "Update", time.Since(startTime), err)
			return domain.Task{}, err
		}

		task.Status = status
	}

	task, err = ts.repo.Update(ctx, task)

	if err != nil {
		ts.telemetry.RecordServiceOperation(ctx, "task", "Update", time.Since(startTime), err)
		return domain.Task{}, err
	}

	ts.telemetry.RecordServiceOperation(ctx, "task", "Update", time.Since(startTime), nil)

	return task, nil
}

// Delete validates the id format before the store is touched, so a
// malformed id never reads as "not found". Returns the deleted id as
// confirmation.
func (ts *TaskService) Delete(ctx context.Context, id string) (string, error) {
	startTime := time.Now()

	taskID, err := parseTaskID(id)

	if err != nil {
		return "", err
	}

	if err := ts.repo.Delete(ctx, taskID); err != nil {
		ts.telemetry.RecordServiceOperation(ctx, "task", "Delete", time.Since(startTime), err)
		return "", err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "deleted", "task", id, nil)
	ts.telemetry.RecordServiceOperation(ctx, "task", "Delete", time.Since(startTime), nil)

	return taskID.String(), nil
}

func parseTaskID(id string) (uuid.UUID, error) {
	taskID, err := uuid.Parse(id)

	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", domain.ErrInvalidTaskID, id)
	}

	return taskID, nil
}
