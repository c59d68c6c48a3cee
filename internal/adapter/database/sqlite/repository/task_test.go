package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	. "taskmanager/pkg/test"

	"taskmanager/internal/adapter/database/sqlite/repository"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/port"

	factory "taskmanager/pkg/test/factory"
)

type TaskRepositoryTestSuite struct {
	suite.Suite
	TaskRepo port.TaskRepository
}

func (s *TaskRepositoryTestSuite) SetupTest() {
	db := InitTestDB()

	s.TaskRepo = repository.NewTaskRepository(db, nil)
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskRepositoryTestSuite))
}

func (s *TaskRepositoryTestSuite) TestRepository_List_Empty() {
	tasks, err := s.TaskRepo.List(context.Background())

	Expect(err).To(BeNil())
	Expect(tasks).To(BeEmpty())
}

func (s *TaskRepositoryTestSuite) TestRepository_CreateTask_Success() {
	task, err := s.TaskRepo.Create(context.Background(), factory.NewTask[domain.Task](map[string]any{
		"Title":       "Write tests",
		"Description": "Repository layer",
	}))

	Expect(err).To(BeNil())
	Expect(task.Title).To(Equal("Write tests"))
	Expect(task.Description).To(Equal("Repository layer"))
	Expect(task.Status).To(Equal(domain.TaskStatusPending))
}

func (s *TaskRepositoryTestSuite) TestRepository_GetByID_Roundtrip() {
	created, _ := s.TaskRepo.Create(context.Background(), factory.NewTask[domain.Task](map[string]any{
		"Title": "Roundtrip",
	}))

	found, err := s.TaskRepo.GetByID(context.Background(), created.ID)

	Expect(err).To(BeNil())
	Expect(found.ID).To(Equal(created.ID))
	Expect(found.Title).To(Equal(created.Title))
	Expect(found.Status).To(Equal(created.Status))
}

func (s *TaskRepositoryTestSuite) TestRepository_GetByID_NotFound() {
	_, err := s.TaskRepo.GetByID(context.Background(), uuid.New())

	assert.True(s.T(), errors.Is(err, domain.ErrTaskNotFound))
}

func (s *TaskRepositoryTestSuite) TestRepository_List_NewestFirst() {
	baseTime := time.Now().UTC().Truncate(time.Second)

	for i := 1; i <= 3; i++ {
		s.TaskRepo.Create(context.Background(), factory.NewTask[domain.Task](map[string]any{
			"Title":     "Task",
			"CreatedAt": baseTime.Add(time.Duration(i) * time.Minute),
		}))
	}

	tasks, err := s.TaskRepo.List(context.Background())

	Expect(err).To(BeNil())
	Expect(len(tasks)).To(Equal(3))

	for i := 0; i < len(tasks)-1; i++ {
		Expect(tasks[i].CreatedAt.After(tasks[i+1].CreatedAt)).To(BeTrue())
	}
}

func (s *TaskRepositoryTestSuite) TestRepository_Update_Success() {
	created, _ := s.TaskRepo.Create(context.Background(), factory.NewTask[domain.Task](map[string]any{
		"Title":       "Before",
		"Description": "Before description",
	}))

	created.Title = "After"
	created.Status = domain.TaskStatusCompleted

	updated, err := s.TaskRepo.Update(context.Background(), created)

	Expect(err).To(BeNil())
	Expect(updated.Title).To(Equal("After"))
	Expect(updated.Description).To(Equal("Before description"))
	Expect(updated.Status).To(Equal(domain.TaskStatusCompleted))
	Expect(updated.ID).To(Equal(created.ID))
}

func (s *TaskRepositoryTestSuite) TestRepository_Update_NotFound() {
	_, err := s.TaskRepo.Update(context.Background(), factory.NewTask[domain.Task](map[string]any{
		"Title": "Ghost",
	}))

	assert.True(s.T(), errors.Is(err, domain.ErrTaskNotFound))
}

func (s *TaskRepositoryTestSuite) TestRepository_Delete_Success() {
	created, _ := s.TaskRepo.Create(context.Background(), factory.NewTask[domain.Task](map[string]any{
		"Title": "Disposable",
	}))

	err := s.TaskRepo.Delete(context.Background(), created.ID)
	assert.NoError(s.T(), err)

	_, err = s.TaskRepo.GetByID(context.Background(), created.ID)
	assert.True(s.T(), errors.Is(err, domain.ErrTaskNotFound))
}

func (s *TaskRepositoryTestSuite) TestRepository_Delete_NotFound() {
	err := s.TaskRepo.Delete(context.Background(), uuid.New())

	assert.True(s.T(), errors.Is(err, domain.ErrTaskNotFound))
}
