package response

import (
	"time"

	"github.com/google/uuid"

	"taskmanager/internal/core/domain"
)

type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewTaskResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status.String(),
		CreatedAt:   task.CreatedAt,
	}
}

func NewTaskListResponse(tasks []domain.Task) []TaskResponse {
	data := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		data = append(data, NewTaskResponse(task))
	}

	return data
}

type DeleteTaskResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"taskId"`
}

type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
