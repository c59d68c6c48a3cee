package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"taskmanager/internal/adapter/database/postgres"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/port"
	tel "taskmanager/internal/core/telemetry"
)

type TaskRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewTaskRepository(db *postgres.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{db: db, telemetry: telemetry}
}

func (tr *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "List", "task", map[string]interface{}{
		"db.system": "postgresql",
		"db.table":  "tasks",
	})
	defer span.End()

	startTime := time.Now()

	stmt, args, err := tr.db.QueryBuilder.
		Select("id", "title", "description", "status", "created_at").
		From("tasks").
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "List", "task", time.Since(startTime), err)
		return nil, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "List", "task", stmt, args)

	rows, err := tr.db.Query(ctx, stmt, args...)

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "List", "task", time.Since(startTime), err)
		slog.Error("Error fetching tasks", "error", err)
		return nil, err
	}

	defer rows.Close()

	tasks := []domain.Task{}

	for rows.Next() {
		var task domain.Task

		err = rows.Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.CreatedAt)

		if err != nil {
			return nil, err
		}

		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(map[string]interface{}{
		"db.rows_returned": len(tasks),
	})
	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "List", "task", time.Since(startTime), nil)

	return tasks, nil
}

func (tr *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	stmt, args, err := tr.db.QueryBuilder.
		Select("id", "title", "description", "status", "created_at").
		From("tasks").
		Where(sq.Eq{"id": id.String()}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	var task domain.Task

	err = tr.db.QueryRow(ctx, stmt, args...).
		Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	if err != nil {
		slog.Error("Error getting task by id", "error", err, "id", id)
		return domain.Task{}, err
	}

	return task, nil
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Create", "task", map[string]interface{}{
		"db.system":    "postgresql",
		"db.table":     "tasks",
		"db.operation": "INSERT",
		"task.id":      task.ID.String(),
	})
	defer span.End()

	startTime := time.Now()

	stmt, args, err := tr.db.QueryBuilder.Insert("tasks").
		Columns("id", "title", "description", "status", "created_at").
		Values(task.ID.String(), task.Title, task.Description, task.Status.String(), task.CreatedAt).
		Suffix("RETURNING id, title, description, status, created_at").
		ToSql()

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), err)
		return domain.Task{}, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Create", "task", stmt, args)

	var saved domain.Task

	err = tr.db.QueryRow(ctx, stmt, args...).
		Scan(&saved.ID, &saved.Title, &saved.Description, &saved.Status, &saved.CreatedAt)

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), err)
		slog.Error("Error creating task", "error", err)
		return domain.Task{}, err
	}

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), nil)

	return saved, nil
}

func (tr *TaskRepository) Update(ctx context.Context, task domain.Task) (domain.Task, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Update", "task", map[string]interface{}{
		"db.system":    "postgresql",
		"db.table":     "tasks",
		"db.operation": "UPDATE",
		"task.id":      task.ID.String(),
	})
	defer span.End()

	startTime := time.Now()

	stmt, args, err := tr.db.QueryBuilder.Update("tasks").
		SetMap(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status.String(),
		}).
		Where(sq.Eq{"id": task.ID.String()}).
		Suffix("RETURNING id, title, description, status, created_at").
		ToSql()

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "Update", "task", time.Since(startTime), err)
		return domain.Task{}, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Update", "task", stmt, args)

	var updated domain.Task

	err = tr.db.QueryRow(ctx, stmt, args...).
		Scan(&updated.ID, &updated.Title, &updated.Description, &updated.Status, &updated.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		tr.telemetry.RecordRepositoryOperation(ctx, "Update", "task", time.Since(startTime), domain.ErrTaskNotFound)
		return domain.Task{}, domain.ErrTaskNotFound
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "Update", "task", time.Since(startTime), err)
		slog.Error("Error updating task", "error", err)
		return domain.Task{}, err
	}

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "Update", "task", time.Since(startTime), nil)

	return updated, nil
}

func (tr *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	stmt, args, err := tr.db.QueryBuilder.Delete("tasks").
		Where(sq.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := tr.db.Exec(ctx, stmt, args...)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}
