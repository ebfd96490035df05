package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printflow/backend/internal/domain/document"
	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/infrastructure/persistence/models"
)

// GormFileRepository implements FileRepository using GORM
type GormFileRepository struct {
	db *gorm.DB
}

// NewGormFileRepository creates a new GormFileRepository
func NewGormFileRepository(db *gorm.DB) *GormFileRepository {
	return &GormFileRepository{db: db}
}

// FindByID finds a file by ID
func (r *GormFileRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.File, error) {
	var model models.FileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all files with optional filtering
func (r *GormFileRepository) FindAll(ctx context.Context, filter shared.Filter) ([]document.File, error) {
	var fileModels []models.FileModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.FileModel{}), filter)

	if err := query.Find(&fileModels).Error; err != nil {
		return nil, err
	}

	files := make([]document.File, len(fileModels))
	for i, model := range fileModels {
		files[i] = *model.ToDomain()
	}
	return files, nil
}

// FindByProject finds all files attached to a project
func (r *GormFileRepository) FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]document.File, error) {
	var fileModels []models.FileModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.FileModel{}).Where("project_id = ?", projectID),
		filter,
	)

	if err := query.Find(&fileModels).Error; err != nil {
		return nil, err
	}

	files := make([]document.File, len(fileModels))
	for i, model := range fileModels {
		files[i] = *model.ToDomain()
	}
	return files, nil
}

// FindChain returns every version in the chain containing the given file,
// ordered by version number ascending. The chain is walked up to its root
// and back down so the anchor may be any version in it.
func (r *GormFileRepository) FindChain(ctx context.Context, id uuid.UUID) ([]document.File, error) {
	var fileModels []models.FileModel
	err := r.db.WithContext(ctx).Raw(`
		WITH RECURSIVE ancestors AS (
			SELECT id, parent_file_id FROM files WHERE id = ?
			UNION ALL
			SELECT f.id, f.parent_file_id FROM files f
			JOIN ancestors a ON a.parent_file_id = f.id
		),
		chain AS (
			SELECT f.* FROM files f
			WHERE f.id = (SELECT id FROM ancestors WHERE parent_file_id IS NULL)
			UNION ALL
			SELECT f.* FROM files f
			JOIN chain c ON f.parent_file_id = c.id
		)
		SELECT * FROM chain ORDER BY version_number ASC`,
		id,
	).Scan(&fileModels).Error
	if err != nil {
		return nil, err
	}
	if len(fileModels) == 0 {
		return nil, shared.ErrNotFound
	}

	files := make([]document.File, len(fileModels))
	for i, model := range fileModels {
		files[i] = *model.ToDomain()
	}
	return files, nil
}

// FindLatestByProject finds only the latest versions of a project's files
func (r *GormFileRepository) FindLatestByProject(ctx context.Context, projectID uuid.UUID, category *document.FileCategory) ([]document.File, error) {
	var fileModels []models.FileModel
	query := r.db.WithContext(ctx).
		Where("project_id = ? AND is_latest_version = ?", projectID, true)
	if category != nil {
		query = query.Where("category = ?", string(*category))
	}

	if err := query.Order("created_at DESC").Find(&fileModels).Error; err != nil {
		return nil, err
	}

	files := make([]document.File, len(fileModels))
	for i, model := range fileModels {
		files[i] = *model.ToDomain()
	}
	return files, nil
}

// Save saves a file (insert or update)
func (r *GormFileRepository) Save(ctx context.Context, file *document.File) error {
	model := models.FileModelFromDomain(file)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveVersion atomically inserts the child version and clears the parent's
// latest flag in one transaction. The flip is a compare-and-swap on
// is_latest_version: if another writer already superseded the parent, the
// transaction rolls back with shared.ErrConcurrencyConflict.
func (r *GormFileRepository) SaveVersion(ctx context.Context, parent, child *document.File) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.FileModel{}).
			Where("id = ? AND is_latest_version = ?", parent.GetID(), true).
			Updates(map[string]interface{}{
				"is_latest_version": false,
				"version":           gorm.Expr("version + 1"),
				"updated_at":        time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return tx.Create(models.FileModelFromDomain(child)).Error
	})
}

// Delete deletes a file by ID
func (r *GormFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FileModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total count of files matching the filter
func (r *GormFileRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.FileModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormFileRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Paginates() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, FileSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormFileRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("original_name ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "project_id":
			query = query.Where("project_id = ?", value)
		case "task_id":
			query = query.Where("task_id = ?", value)
		case "access_level":
			query = query.Where("access_level = ?", value)
		case "latest_only":
			if latest, ok := value.(bool); ok && latest {
				query = query.Where("is_latest_version = ?", true)
			}
		}
	}

	return query
}

// Ensure GormFileRepository implements FileRepository
var _ document.FileRepository = (*GormFileRepository)(nil)
