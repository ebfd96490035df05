package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/printflow/backend/internal/domain/shared"
)

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// FindAll finds all projects with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Project, error)

	// FindByClient finds all projects for a specific client
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Project, error)

	// FindByStatus finds all projects in a given status
	FindByStatus(ctx context.Context, status ProjectStatus, filter shared.Filter) ([]Project, error)

	// Save saves a project (insert or update)
	Save(ctx context.Context, project *Project) error

	// SaveWithLock saves a project with optimistic concurrency control.
	// Returns shared.ErrConcurrencyConflict if the stored version differs.
	SaveWithLock(ctx context.Context, project *Project) error

	// Delete deletes a project by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total count of projects matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// TaskRepository defines the interface for task persistence
type TaskRepository interface {
	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// FindAll finds all tasks with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Task, error)

	// FindByProject finds all tasks belonging to a project
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Task, error)

	// FindByAssignee finds all tasks assigned to a user
	FindByAssignee(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Task, error)

	// FindOverdue finds non-terminal tasks whose due date has passed
	FindOverdue(ctx context.Context, limit int) ([]Task, error)

	// Save saves a task (insert or update)
	Save(ctx context.Context, task *Task) error

	// SaveWithLock saves a task with optimistic concurrency control.
	// Returns shared.ErrConcurrencyConflict if the stored version differs.
	SaveWithLock(ctx context.Context, task *Task) error

	// Delete deletes a task by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total count of tasks matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts tasks in a project by status
	CountByStatus(ctx context.Context, projectID uuid.UUID, status TaskStatus) (int64, error)
}

// TaskFilter extends the standard filter with task specific criteria
type TaskFilter struct {
	shared.Filter
	ProjectID  *uuid.UUID
	Status     *TaskStatus
	Priority   *Priority
	Category   *TaskCategory
	AssignedTo *uuid.UUID
}
