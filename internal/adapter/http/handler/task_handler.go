package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/internal/adapter/http/helper"
	"taskmanager/internal/adapter/http/validation"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/model/request"
	"taskmanager/internal/core/model/response"
	"taskmanager/internal/core/port"
	"taskmanager/pkg/config"
)

type TaskHandler struct {
	svc    port.TaskService
	logger *config.AppLogger
}

func NewTaskHandler(svc port.TaskService, logger *config.AppLogger) *TaskHandler {
	if logger == nil {
		logger = config.NewTestLogger()
	}

	return &TaskHandler{
		svc:    svc,
		logger: logger,
	}
}

// ListTasks returns every task, newest first. The body is the bare array;
// an empty store yields [].
func (t *TaskHandler) ListTasks(c *gin.Context) {
	ctx := c.Request.Context()

	tasks, err := t.svc.List(ctx)

	if err != nil {
		t.logger.Logger.Ctx(ctx).Error("Failed to list tasks", zap.Error(err))
		helper.SendInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, response.NewTaskListResponse(tasks))
}

func (t *TaskHandler) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()

	var params request.CreateTaskRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	task, err := t.svc.Create(ctx, port.CreateTaskInput{
		Title:       params.Title,
		Description: params.Description,
	})

	if err != nil {
		t.logger.Logger.Ctx(ctx).Error("Failed to create task", zap.Error(err))
		helper.SendBadRequestError(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, response.NewTaskResponse(task))
}

func (t *TaskHandler) UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()

	var params request.UpdateTaskRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	task, err := t.svc.Update(ctx, c.Param("id"), port.TaskPatch{
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
	})

	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			helper.SendNotFoundError(c, "Task not found")
			return
		}

		t.logger.Logger.Ctx(ctx).Error("Failed to update task",
			zap.Error(err), zap.String("task_id", c.Param("id")))
		helper.SendBadRequestError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, response.NewTaskResponse(task))
}

// DeleteTask checks the id format before the store is consulted, so a
// malformed id is a 400, never a 404.
func (t *TaskHandler) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()

	taskID, err := t.svc.Delete(ctx, c.Param("id"))

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTaskID):
			helper.SendBadRequestError(c, "Invalid task ID")
		case errors.Is(err, domain.ErrTaskNotFound):
			helper.SendNotFoundError(c, "Task not found")
		default:
			t.logger.Logger.Ctx(ctx).Error("Failed to delete task",
				zap.Error(err), zap.String("task_id", c.Param("id")))
			helper.SendInternalError(c, "Error deleting task")
		}
		return
	}

	c.JSON(http.StatusOK, response.DeleteTaskResponse{
		Message: "Task deleted successfully",
		TaskID:  taskID,
	})
}
