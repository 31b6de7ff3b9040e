package tasks

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/studyplanner/internal/client/models"
)

var ErrNotFound = errors.New("task not found")

// Repository describes CRUD and query operations for study tasks.
type Repository interface {
	Create(ctx context.Context, task *models.StudyTask) error

	// Get returns ErrNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.StudyTask, error)

	// List returns every task, or only completed (true) / pending (false)
	// ones when completed is non-nil.
	List(ctx context.Context, completed *bool) ([]models.StudyTask, error)

	// Search matches query case-insensitively as a plain substring of the
	// title or the subject. LIKE wildcards in query have no special meaning.
	Search(ctx context.Context, query string) ([]models.StudyTask, error)

	// SetStatus returns ErrNotFound for an unknown id.
	SetStatus(ctx context.Context, id string, status models.TaskStatus) error

	// Delete returns ErrNotFound for an unknown id.
	Delete(ctx context.Context, id string) error
}
