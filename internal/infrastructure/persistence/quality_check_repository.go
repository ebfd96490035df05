package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printflow/backend/internal/domain/production"
	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/infrastructure/persistence/models"
)

// GormQualityCheckRepository implements QualityCheckRepository using GORM
type GormQualityCheckRepository struct {
	db *gorm.DB
}

// NewGormQualityCheckRepository creates a new GormQualityCheckRepository
func NewGormQualityCheckRepository(db *gorm.DB) *GormQualityCheckRepository {
	return &GormQualityCheckRepository{db: db}
}

// FindByID finds a check by ID
func (r *GormQualityCheckRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.QualityCheck, error) {
	var model models.QualityCheckModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPrintJob finds all checks recorded for a job, newest first
func (r *GormQualityCheckRepository) FindByPrintJob(ctx context.Context, printJobID uuid.UUID) ([]*production.QualityCheck, error) {
	var checkModels []models.QualityCheckModel
	if err := r.db.WithContext(ctx).
		Where("print_job_id = ?", printJobID).
		Order("created_at DESC").
		Find(&checkModels).Error; err != nil {
		return nil, err
	}

	checks := make([]*production.QualityCheck, len(checkModels))
	for i := range checkModels {
		checks[i] = checkModels[i].ToDomain()
	}
	return checks, nil
}

// FindByInspector finds all checks recorded by an inspector
func (r *GormQualityCheckRepository) FindByInspector(ctx context.Context, inspectorID uuid.UUID, filter shared.Filter) ([]production.QualityCheck, error) {
	var checkModels []models.QualityCheckModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.QualityCheckModel{}).Where("inspector_id = ?", inspectorID),
		filter,
	)

	if err := query.Find(&checkModels).Error; err != nil {
		return nil, err
	}

	checks := make([]production.QualityCheck, len(checkModels))
	for i, model := range checkModels {
		checks[i] = *model.ToDomain()
	}
	return checks, nil
}

// Save saves a check (insert or update)
func (r *GormQualityCheckRepository) Save(ctx context.Context, check *production.QualityCheck) error {
	model := models.QualityCheckModelFromDomain(check)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a check by ID
func (r *GormQualityCheckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.QualityCheckModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total count of checks matching the filter
func (r *GormQualityCheckRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.QualityCheckModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormQualityCheckRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Paginates() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, QualityCheckSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormQualityCheckRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "print_job_id":
			query = query.Where("print_job_id = ?", value)
		case "check_type":
			query = query.Where("check_type = ?", value)
		case "overall_status":
			query = query.Where("overall_status = ?", value)
		}
	}

	return query
}

// Ensure GormQualityCheckRepository implements QualityCheckRepository
var _ production.QualityCheckRepository = (*GormQualityCheckRepository)(nil)
