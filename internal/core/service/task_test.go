package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	. "taskmanager/pkg/test"

	"taskmanager/internal/adapter/database/sqlite/repository"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/port"
	"taskmanager/internal/core/service"
	"taskmanager/internal/core/telemetry"
)

type TaskServiceTestSuite struct {
	suite.Suite
	Service  *service.TaskService
	TaskRepo port.TaskRepository
}

func (s *TaskServiceTestSuite) SetupTest() {
	db := InitTestDB()
	probe := telemetry.NewNoOpProbe()

	s.TaskRepo = repository.NewTaskRepository(db, probe)
	s.Service = service.NewTaskService(s.TaskRepo, probe)
}

func TestTaskServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)

	suite.Run(t, new(TaskServiceTestSuite))
}

func strPtr(s string) *string {
	return &s
}

func (s *TaskServiceTestSuite) TestService_List_Empty() {
	tasks, err := s.Service.List(context.Background())

	Expect(err).To(BeNil())
	Expect(tasks).To(BeEmpty())
}

func (s *TaskServiceTestSuite) TestService_Create_Defaults() {
	task, err := s.Service.Create(context.Background(), port.CreateTaskInput{
		Title:       strPtr("Buy groceries"),
		Description: strPtr("Milk and eggs"),
	})

	Expect(err).To(BeNil())
	Expect(task.ID).ToNot(Equal(uuid.Nil))
	Expect(task.Title).To(Equal("Buy groceries"))
	Expect(task.Description).To(Equal("Milk and eggs"))
	Expect(task.Status).To(Equal(domain.TaskStatusPending))
	Expect(task.CreatedAt.IsZero()).To(BeFalse())
}

func (s *TaskServiceTestSuite) TestService_Create_MissingTitle() {
	_, err := s.Service.Create(context.Background(), port.CreateTaskInput{
		Description: strPtr("no title"),
	})

	assert.Error(s.T(), err)
	assert.True(s.T(), errors.Is(err, domain.ErrValidation))
}

func (s *TaskServiceTestSuite) TestService_Create_MissingDescription() {
	_, err := s.Service.Create(context.Background(), port.CreateTaskInput{
		Title: strPtr("no description"),
	})

	assert.Error(s.T(), err)
	assert.True(s.T(), errors.Is(err, domain.ErrValidation))
}

func (s *TaskServiceTestSuite) TestService_Update_PartialTitleOnly() {
	created, _ := s.Service.Create(context.Background(), port.CreateTaskInput{
		Title:       strPtr("Original"),
		Description: strPtr("Original description"),
	})

	updated, err := s.Service.Update(context.Background(), created.ID.String(), port.TaskPatch{
		Title: strPtr("Renamed"),
	})

	Expect(err).To(BeNil())
	Expect(updated.Title).To(Equal("Renamed"))
	Expect(updated.Description).To(Equal("Original description"))
	Expect(updated.Status).To(Equal(domain.TaskStatusPending))
}

func (s *TaskServiceTestSuite) TestService_Update_EmptyStringOverwrites() {
	created, _ := s.Service.Create(context.Background(), port.CreateTaskInput{
		Title:       strPtr("Keep me"),
		Description: strPtr("Erase me"),
	})

	updated, err := s.Service.Update(context.Background(), created.ID.String(), port.TaskPatch{
		Description: strPtr(""),
	})

	Expect(err).To(BeNil())
	Expect(updated.Title).To(Equal("Keep me"))
	Expect(updated.Description).To(Equal(""))
}

func (s *TaskServiceTestSuite) TestService_Update_StatusToCompleted() {
	created, _ := s.Service.Create(context.Background(), port.CreateTaskInput{
		Title:       strPtr("Finish report"),
		Description: strPtr("Quarterly numbers"),
	})

	updated, err := s.Service.Update(context.Background(), created.ID.String(), port.TaskPatch{
		Status: strPtr("completed"),
	})

	Expect(err).To(BeNil())
	Expect(updated.Status).To(Equal(domain.TaskStatusCompleted))
	Expect(updated.Completed()).To(BeTrue())
}

func (s *TaskServiceTestSuite) TestService_Update_InvalidStatus() {
	created, _ := s.Service.Create(context.Background(), port.CreateTaskInput{
		Title:       strPtr("Task"),
		Description: strPtr("Description"),
	})

	_, err := s.Service.Update(context.Background(), created.ID.String(), port.TaskPatch{
		Status: strPtr("archived"),
	})

	assert.Error(s.T(), err)
	assert.True(s.T(), errors.Is(err, domain.ErrInvalidStatus))
}

func (s *TaskServiceTestSuite) TestService_Update_ImmutableFields() {
	created, _ := s.Service.Create(context.Background(), port.CreateTaskInput{
		Title:       strPtr("Task"),
		Description: strPtr("Description"),
	})

	updated, err := s.Service.Update(context.Background(), created.ID.String(), port.TaskPatch{
		Title: strPtr("Changed"),
	})

	Expect(err).To(BeNil())
	Expect(updated.ID).To(Equal(created.ID))
	Expect(updated.CreatedAt.Unix()).To(Equal(created.CreatedAt.Unix()))
}

func (s *TaskServiceTestSuite) TestService_Update_NotFound() {
	_, err := s.Service.Update(context.Background(), uuid.NewString(), port.TaskPatch{
		Title: strPtr("Ghost"),
	})

	assert.True(s.T(), errors.Is(err, domain.ErrTaskNotFound))
}

func (s *TaskServiceTestSuite) TestService_Update_InvalidID() {
	_, err := s.Service.Update(context.Background(), "not-a-uuid", port.TaskPatch{
		Title: strPtr("Ghost"),
	})

	assert.True(s.T(), errors.Is(err, domain.ErrInvalidTaskID))
}

func (s *TaskServiceTestSuite) TestService_Delete_Success() {
	created, _ := s.Service.Create(context.Background(), port.CreateTaskInput{
		Title:       strPtr("Disposable"),
		Description: strPtr("To be removed"),
	})

	deletedID, err := s.Service.Delete(context.Background(), created.ID.String())

	Expect(err).To(BeNil())
	Expect(deletedID).To(Equal(created.ID.String()))

	_, err = s.Service.GetByID(context.Background(), created.ID.String())
	assert.True(s.T(), errors.Is(err, domain.ErrTaskNotFound))
}

func (s *TaskServiceTestSuite) TestService_Delete_InvalidIDBeforeLookup() {
	_, err := s.Service.Delete(context.Background(), "12345")

	assert.True(s.T(), errors.Is(err, domain.ErrInvalidTaskID))
}

func (s *TaskServiceTestSuite) TestService_Delete_NotFound() {
	_, err := s.Service.Delete(context.Background(), uuid.NewString())

	assert.True(s.T(), errors.Is(err, domain.ErrTaskNotFound))
}
