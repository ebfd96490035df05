package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/printflow/backend/internal/domain/shared"
)

// GormSequenceRepository implements shared.NumberAllocator on top of a
// single-row-per-scope counter table. The increment happens in one
// statement, so two concurrent allocations can never observe the same
// value, and a value handed out is gone even if the caller's document
// never materializes.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next allocates the next document number for the given kind and year
func (r *GormSequenceRepository) Next(ctx context.Context, kind shared.NumberKind, year int) (string, error) {
	if !kind.IsValid() {
		return "", shared.NewDomainError(shared.CodeValidation, "Unknown document number kind")
	}

	var value int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO document_sequences (kind, year, value)
		VALUES (?, ?, 1)
		ON CONFLICT (kind, year)
		DO UPDATE SET value = document_sequences.value + 1
		RETURNING value`,
		kind.String(), year,
	).Scan(&value).Error
	if err != nil {
		return "", fmt.Errorf("failed to allocate document number: %w", err)
	}

	if value > shared.MaxSequencePerYear {
		return "", shared.ErrSequenceExhausted
	}

	return shared.FormatDocumentNumber(kind, year, value), nil
}
