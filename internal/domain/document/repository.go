package document

import (
	"context"

	"github.com/google/uuid"

	"github.com/printflow/backend/internal/domain/shared"
)

// FileRepository defines the interface for file persistence
type FileRepository interface {
	// FindByID finds a file by ID
	FindByID(ctx context.Context, id uuid.UUID) (*File, error)

	// FindAll finds all files with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]File, error)

	// FindByProject finds all files attached to a project
	FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]File, error)

	// FindChain returns every version in the chain containing the given
	// file, ordered by version number ascending
	FindChain(ctx context.Context, id uuid.UUID) ([]File, error)

	// FindLatestByProject finds only the latest versions of a project's files
	FindLatestByProject(ctx context.Context, projectID uuid.UUID, category *FileCategory) ([]File, error)

	// Save saves a file (insert or update)
	Save(ctx context.Context, file *File) error

	// SaveVersion atomically inserts the child version and clears the
	// parent's latest flag in one transaction. The parent flip is a
	// compare-and-swap on IsLatestVersion; if another writer already
	// superseded the parent, shared.ErrConcurrencyConflict is returned and
	// nothing is written.
	SaveVersion(ctx context.Context, parent, child *File) error

	// Delete deletes a file by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total count of files matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// FileFilter extends the standard filter with file specific criteria
type FileFilter struct {
	shared.Filter
	ProjectID  *uuid.UUID
	TaskID     *uuid.UUID
	Category   *FileCategory
	Approval   *ApprovalState
	LatestOnly bool
}
