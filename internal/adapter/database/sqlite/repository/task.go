package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"taskmanager/internal/adapter/database/sqlite"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/port"
	tel "taskmanager/internal/core/telemetry"
)

type TaskRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewTaskRepository(db *sqlite.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (tr *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "List", "task", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "tasks",
	})
	defer span.End()

	startTime := time.Now()

	query := tr.db.QueryBuilder.
		Select("id", "title", "description", "status", "created_at").
		From("tasks").
		OrderBy("created_at DESC")

	stmt, args, err := query.ToSql()

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "List", "task", time.Since(startTime), err)
		return nil, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "List", "task", stmt, args)

	rows, err := tr.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "List", "task", time.Since(startTime), err)
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
	query := tr.db.QueryBuilder.
		Select("id", "title", "description", "status", "created_at").
		From("tasks").
		Where(sq.Eq{"id": id.String()}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	var task domain.Task

	err = tr.db.QueryRowContext(ctx, stmt, args...).
		Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
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
		"db.system":    "sqlite",
		"db.table":     "tasks",
		"db.operation": "INSERT",
		"task.id":      task.ID.String(),
	})
	defer span.End()

	startTime := time.Now()

	stmt, args, err := tr.db.QueryBuilder.Insert("tasks").
		Columns("id", "title", "description", "status", "created_at").
		Values(task.ID.String(), task.Title, task.Description, task.Status.String(), task.CreatedAt).
		ToSql()

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), err)
		return domain.Task{}, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Create", "task", stmt, args)

	_, err = tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), err)
		slog.Error("Insert failed", "error", err, "id", task.ID)
		return domain.Task{}, err
	}

	saved, err := tr.GetByID(ctx, task.ID)

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), err)
		return domain.Task{}, err
	}

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "Create", "task", time.Since(startTime), nil)

	return saved, nil
}

func (tr *TaskRepository) Update(ctx context.Context, task domain.Task) (domain.Task, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Update", "task", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     "tasks",
		"db.operation": "UPDATE",
		"task.id":      task.ID.String(),
	})
	defer span.End()

	startTime := time.Now()

	// id and created_at are immutable; only the mutable columns are written.
	stmt, args, err := tr.db.QueryBuilder.Update("tasks").
		SetMap(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status.String(),
		}).
		Where(sq.Eq{"id": task.ID.String()}).
		ToSql()

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "Update", "task", time.Since(startTime), err)
		return domain.Task{}, err
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Update", "task", stmt, args)

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "Update", "task", time.Since(startTime), err)
		return domain.Task{}, err
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		tr.telemetry.RecordRepositoryOperation(ctx, "Update", "task", time.Since(startTime), domain.ErrTaskNotFound)
		return domain.Task{}, domain.ErrTaskNotFound
	}

	updated, err := tr.GetByID(ctx, task.ID)

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		tr.telemetry.RecordRepositoryOperation(ctx, "Update", "task", time.Since(startTime), err)
		return domain.Task{}, err
	}

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "Update", "task", time.Since(startTime), nil)

	return updated, nil
}

func (tr *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	stmt, err := tr.db.PrepareContext(ctx, "DELETE FROM tasks WHERE id = ?")

	if err != nil {
		return err
	}

	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id.String())

	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}
