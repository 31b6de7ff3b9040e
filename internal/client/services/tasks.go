package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/studyplanner/internal/client/models"
	"github.com/dmitrijs2005/studyplanner/internal/client/repositories/tasks"
	"github.com/google/uuid"
)

// TaskService manages the locally stored study tasks. Every storage
// failure is returned wrapped in ErrPersistence.
type TaskService interface {
	Create(ctx context.Context, in models.NewTask) (*models.StudyTask, error)
	Get(ctx context.Context, id string) (*models.StudyTask, error)
	// Fetch returns all tasks, or only completed/pending ones, by deadline.
	Fetch(ctx context.Context, completed *bool) ([]models.StudyTask, error)
	// Search with an empty query is Fetch(ctx, nil).
	Search(ctx context.Context, query string) ([]models.StudyTask, error)
	// ToggleCompletion flips the status of task and updates it in place.
	ToggleCompletion(ctx context.Context, task *models.StudyTask) error
	Delete(ctx context.Context, task *models.StudyTask) error
}

type taskService struct {
	repo  tasks.Repository
	owner func() string
	now   func() time.Time
}

// NewTaskService returns a TaskService over repo. owner reports the id of
// the signed-in user and may be nil.
func NewTaskService(repo tasks.Repository, owner func() string) TaskService {
	if owner == nil {
		owner = func() string { return "" }
	}
	return &taskService{repo: repo, owner: owner, now: time.Now}
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

func (s *taskService) Create(ctx context.Context, in models.NewTask) (*models.StudyTask, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("Please enter a task title")
	}
	if !in.Priority.Valid() {
		return nil, invalid("Priority must be low, medium or high")
	}

	t := &models.StudyTask{
		ID:        uuid.NewString(),
		UserID:    s.owner(),
		Title:     title,
		Subject:   strings.TrimSpace(in.Subject),
		Deadline:  in.Deadline.UTC().Truncate(time.Millisecond),
		Priority:  in.Priority,
		Status:    models.TaskPending,
		Notes:     in.Notes,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, persistence("create task", err)
	}
	return t, nil
}

func (s *taskService) Get(ctx context.Context, id string) (*models.StudyTask, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, persistence("get task", err)
	}
	return t, nil
}

func (s *taskService) Fetch(ctx context.Context, completed *bool) ([]models.StudyTask, error) {
	list, err := s.repo.List(ctx, completed)
	if err != nil {
		return nil, persistence("fetch tasks", err)
	}
	return list, nil
}

func (s *taskService) Search(ctx context.Context, query string) ([]models.StudyTask, error) {
	if query == "" {
		return s.Fetch(ctx, nil)
	}
	list, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, persistence("search tasks", err)
	}
	return list, nil
}

func (s *taskService) ToggleCompletion(ctx context.Context, task *models.StudyTask) error {
	next := task.Status.Toggled()
	if err := s.repo.SetStatus(ctx, task.ID, next); err != nil {
		return persistence("toggle task", err)
	}
	task.Status = next
	return nil
}

func (s *taskService) Delete(ctx context.Context, task *models.StudyTask) error {
	if err := s.repo.Delete(ctx, task.ID); err != nil {
		return persistence("delete task", err)
	}
	return nil
}
