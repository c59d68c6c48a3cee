package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	. "taskmanager/pkg/test"

	"taskmanager/internal/adapter/database/sqlite/repository"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/model/response"
	"taskmanager/internal/core/port"
	"taskmanager/internal/core/service"
	"taskmanager/internal/core/telemetry"

	factory "taskmanager/pkg/test/factory"
)

type TaskHandlerSuite struct {
	suite.Suite
	TaskRepo port.TaskRepository
	Router   *gin.Engine
}

var ctx = context.Background()

func (s *TaskHandlerSuite) SetupTest() {
	db := InitTestDB()
	probe := telemetry.NewNoOpProbe()

	s.TaskRepo = repository.NewTaskRepository(db, probe)

	taskService := service.NewTaskService(s.TaskRepo, probe)
	taskHandler := NewTaskHandler(taskService, nil)

	// Setup router directly to avoid import cycle
	s.Router = setupTaskTestRouter(taskHandler)
}

func TestTaskHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskHandlerSuite))
}

func setupTaskTestRouter(taskHandler *TaskHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/tasks", taskHandler.ListTasks)
		api.POST("/tasks", taskHandler.CreateTask)
		api.PUT("/tasks/:id", taskHandler.UpdateTask)
		api.DELETE("/tasks/:id", taskHandler.DeleteTask)
	}

	return router
}

func CreateTask(s *TaskHandlerSuite, customData ...map[string]any) domain.Task {
	task, _ := s.TaskRepo.Create(ctx, factory.NewTask[domain.Task](customData...))

	return task
}

func (s *TaskHandlerSuite) TestListTasksEmpty() {
	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/tasks", nil)

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
	Expect(strings.TrimSpace(rr.Body.String())).To(Equal("[]"))
}

func (s *TaskHandlerSuite) TestListTasksWithData() {
	CreateTask(s, map[string]any{"Title": "Listed task"})

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/tasks", nil)

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	var tasks []response.TaskResponse
	json.Unmarshal(body, &tasks)

	Expect(len(tasks)).To(Equal(1))
	Expect(tasks[0].Title).To(Equal("Listed task"))
	Expect(tasks[0].Status).To(Equal("pending"))
}

func (s *TaskHandlerSuite) TestCreateTask() {
	reqBody := strings.NewReader(`{"title": "New task", "description": "Something to do"}`)

	req, _ := http.NewRequest("POST", "/api/tasks", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(rr.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

	body, _ := io.ReadAll(rr.Body)

	var task response.TaskResponse
	json.Unmarshal(body, &task)

	Expect(task.Title).To(Equal("New task"))
	Expect(task.Description).To(Equal("Something to do"))
	Expect(task.Status).To(Equal("pending"))
	Expect(task.ID).ToNot(Equal(uuid.Nil))
	Expect(task.CreatedAt.IsZero()).To(BeFalse())
}

func (s *TaskHandlerSuite) TestCreateTaskValidationError() {
	reqBody := strings.NewReader(`{"title": "Only a title"}`)

	req, _ := http.NewRequest("POST", "/api/tasks", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Message).ToNot(BeEmpty())
	Expect(len(errorResponse.Errors)).To(BeNumerically(">", 0))
}

func (s *TaskHandlerSuite) TestCreateTaskMalformedBody() {
	reqBody := strings.NewReader(`{"title": `)

	req, _ := http.NewRequest("POST", "/api/tasks", reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Message).To(Equal("Invalid request body"))
}

func (s *TaskHandlerSuite) TestUpdateTaskToCompleted() {
	task := CreateTask(s, map[string]any{"Title": "Task Created"})

	reqBody := strings.NewReader(`{"status": "completed"}`)

	path := fmt.Sprintf("/api/tasks/%s", task.ID.String())
	req, _ := http.NewRequest("PUT", path, reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	var updated response.TaskResponse
	json.Unmarshal(body, &updated)

	Expect(updated.ID).To(Equal(task.ID))
	Expect(updated.Title).To(Equal("Task Created"))
	Expect(updated.Status).To(Equal("completed"))
}

func (s *TaskHandlerSuite) TestUpdateTaskPartialFields() {
	task := CreateTask(s, map[string]any{
		"Title":       "Original title",
		"Description": "Original description",
	})

	reqBody := strings.NewReader(`{"title": "Renamed"}`)

	path := fmt.Sprintf("/api/tasks/%s", task.ID.String())
	req, _ := http.NewRequest("PUT", path, reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	var updated response.TaskResponse
	json.Unmarshal(body, &updated)

	Expect(updated.Title).To(Equal("Renamed"))
	Expect(updated.Description).To(Equal("Original description"))
}

func (s *TaskHandlerSuite) TestUpdateTaskWithInvalidStatus() {
	task := CreateTask(s, map[string]any{"Title": "Task"})

	reqBody := strings.NewReader(`{"status": "archived"}`)

	path := fmt.Sprintf("/api/tasks/%s", task.ID.String())
	req, _ := http.NewRequest("PUT", path, reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *TaskHandlerSuite) TestUpdateTaskNotFound() {
	reqBody := strings.NewReader(`{"title": "Ghost"}`)

	path := fmt.Sprintf("/api/tasks/%s", uuid.NewString())
	req, _ := http.NewRequest("PUT", path, reqBody)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusNotFound))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Message).To(Equal("Task not found"))
}

func (s *TaskHandlerSuite) TestDeleteTask() {
	task := CreateTask(s, map[string]any{"Title": "Disposable"})

	path := fmt.Sprintf("/api/tasks/%s", task.ID.String())
	req, _ := http.NewRequest("DELETE", path, nil)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	data := gin.H{}
	json.Unmarshal(body, &data)

	Expect(data["message"]).To(Equal("Task deleted successfully"))
	Expect(data["taskId"]).To(Equal(task.ID.String()))
}

func (s *TaskHandlerSuite) TestDeleteTaskInvalidID() {
	req, _ := http.NewRequest("DELETE", "/api/tasks/12345", nil)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Message).To(Equal("Invalid task ID"))
}

func (s *TaskHandlerSuite) TestDeleteTaskNotFound() {
	path := fmt.Sprintf("/api/tasks/%s", uuid.NewString())
	req, _ := http.NewRequest("DELETE", path, nil)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusNotFound))

	body, _ := io.ReadAll(rr.Body)

	errorResponse := response.ErrorResponse{}
	json.Unmarshal(body, &errorResponse)

	Expect(errorResponse.Message).To(Equal("Task not found"))
}

func (s *TaskHandlerSuite) TestDeleteTaskTwice() {
	task := CreateTask(s, map[string]any{"Title": "Once only"})

	path := fmt.Sprintf("/api/tasks/%s", task.ID.String())

	req, _ := http.NewRequest("DELETE", path, nil)
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	req2, _ := http.NewRequest("DELETE", path, nil)
	rr2 := httptest.NewRecorder()
	s.Router.ServeHTTP(rr2, req2)

	Expect(rr2.Code).To(Equal(http.StatusNotFound))
}
