package production

import (
	"context"

	"github.com/google/uuid"

	"github.com/printflow/backend/internal/domain/shared"
)

// PrintJobRepository defines the interface for print job persistence
type PrintJobRepository interface {
	// FindByID finds a job by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PrintJob, error)

	// FindByJobNumber finds a job by its document number
	FindByJobNumber(ctx context.Context, jobNumber string) (*PrintJob, error)

	// FindAll finds all jobs with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]PrintJob, error)

	// FindByProject finds all jobs belonging to a project
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]PrintJob, error)

	// FindByStatus finds all jobs in a given status, urgent first
	FindByStatus(ctx context.Context, status JobStatus, filter shared.Filter) ([]PrintJob, error)

	// Save saves a job (insert or update)
	Save(ctx context.Context, job *PrintJob) error

	// SaveWithLock saves a job with optimistic concurrency control.
	// Returns shared.ErrConcurrencyConflict if the stored version differs.
	SaveWithLock(ctx context.Context, job *PrintJob) error

	// Delete deletes a job by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total count of jobs matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts jobs in a given status
	CountByStatus(ctx context.Context, status JobStatus) (int64, error)
}

// QualityCheckRepository defines the interface for quality check persistence
type QualityCheckRepository interface {
	// FindByID finds a check by ID
	FindByID(ctx context.Context, id uuid.UUID) (*QualityCheck, error)

	// FindByPrintJob finds all checks recorded for a job, newest first
	FindByPrintJob(ctx context.Context, printJobID uuid.UUID) ([]*QualityCheck, error)

	// FindByInspector finds all checks recorded by an inspector
	FindByInspector(ctx context.Context, inspectorID uuid.UUID, filter shared.Filter) ([]QualityCheck, error)

	// Save saves a check (insert or update)
	Save(ctx context.Context, check *QualityCheck) error

	// Delete deletes a check by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total count of checks matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PrintJobFilter extends the standard filter with job specific criteria
type PrintJobFilter struct {
	shared.Filter
	ProjectID  *uuid.UUID
	Status     *JobStatus
	Priority   *Priority
	Machine    *MachineType
	OperatorID *uuid.UUID
}
