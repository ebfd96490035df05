package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/printflow/backend/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByInvoiceNumber finds an invoice by its document number
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)

	// FindAll finds all invoices with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// FindByProject finds all invoices for a project
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Invoice, error)

	// FindByClient finds all invoices for a client
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// FindOverdue finds open invoices whose due date is before the cutoff.
	// Used by the overdue sweep to emit notification events.
	FindOverdue(ctx context.Context, cutoff time.Time, limit int) ([]Invoice, error)

	// Save saves an invoice (insert or update)
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves an invoice with optimistic concurrency control.
	// Returns shared.ErrConcurrencyConflict if the stored version differs.
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// Delete deletes an invoice by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total count of invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts invoices in a given stored status
	CountByStatus(ctx context.Context, status InvoiceStatus) (int64, error)
}

// InvoiceFilter extends the standard filter with invoice specific criteria
type InvoiceFilter struct {
	shared.Filter
	ProjectID *uuid.UUID
	ClientID  *uuid.UUID
	Status    *InvoiceStatus
	Type      *InvoiceType
	DueBefore *time.Time
}
