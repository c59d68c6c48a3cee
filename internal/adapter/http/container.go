package http

import (
	"taskmanager/internal/adapter/http/handler"
	"taskmanager/internal/core/port"
	"taskmanager/internal/core/service"
	"taskmanager/pkg/config"
)

type Container struct {
	TaskRepo    port.TaskRepository
	TaskService port.TaskService
	TaskHandler *handler.TaskHandler
}

func NewContainer(repo port.TaskRepository, probe port.Telemetry, logger *config.AppLogger) *Container {
	taskSvc := service.NewTaskService(repo, probe)
	taskHandler := handler.NewTaskHandler(taskSvc, logger)

	return &Container{
		TaskRepo:    repo,
		TaskService: taskSvc,
		TaskHandler: taskHandler,
	}
}
