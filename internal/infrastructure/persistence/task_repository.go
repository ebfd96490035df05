package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printflow/backend/internal/domain/project"
	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/infrastructure/persistence/models"
)

// GormTaskRepository implements TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all tasks with optional filtering
func (r *GormTaskRepository) FindAll(ctx context.Context, filter shared.Filter) ([]project.Task, error) {
	var taskModels []models.TaskModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TaskModel{}), filter)

	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}

	tasks := make([]project.Task, len(taskModels))
	for i, model := range taskModels {
		tasks[i] = *model.ToDomain()
	}
	return tasks, nil
}

// FindByProject finds all tasks belonging to a project
func (r *GormTaskRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]project.Task, error) {
	var taskModels []models.TaskModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&taskModels).Error; err != nil {
		return nil, err
	}

	tasks := make([]project.Task, len(taskModels))
	for i, model := range taskModels {
		tasks[i] = *model.ToDomain()
	}
	return tasks, nil
}

// FindByAssignee finds all tasks assigned to a user
func (r *GormTaskRepository) FindByAssignee(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]project.Task, error) {
	var taskModels []models.TaskModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TaskModel{}).Where("assigned_to = ?", userID),
		filter,
	)

	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}

	tasks := make([]project.Task, len(taskModels))
	for i, model := range taskModels {
		tasks[i] = *model.ToDomain()
	}
	return tasks, nil
}

// FindOverdue finds non-terminal tasks whose due date has passed
func (r *GormTaskRepository) FindOverdue(ctx context.Context, limit int) ([]project.Task, error) {
	var taskModels []models.TaskModel
	query := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date < ?", time.Now()).
		Where("status NOT IN ?", []string{
			project.TaskStatusCompleted.String(),
			project.TaskStatusCancelled.String(),
		}).
		Order("due_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}

	tasks := make([]project.Task, len(taskModels))
	for i, model := range taskModels {
		tasks[i] = *model.ToDomain()
	}
	return tasks, nil
}

// Save saves a task (insert or update)
func (r *GormTaskRepository) Save(ctx context.Context, t *project.Task) error {
	model := models.TaskModelFromDomain(t)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a task with optimistic concurrency control.
// Compares against the load-time version; the aggregate's Version was
// already advanced by its mutations.
func (r *GormTaskRepository) SaveWithLock(ctx context.Context, t *project.Task) error {
	expected := t.LoadedVersion()
	model := models.TaskModelFromDomain(t)

	result := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("id = ? AND version = ?", t.GetID(), expected).
		Select("*").Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	t.MarkLoaded()
	return nil
}

// Delete deletes a task by ID
func (r *GormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TaskModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total count of tasks matching the filter
func (r *GormTaskRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.TaskModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts tasks in a project by status
func (r *GormTaskRepository) CountByStatus(ctx context.Context, projectID uuid.UUID, status project.TaskStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("project_id = ? AND status = ?", projectID, status.String()).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormTaskRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Paginates() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, TaskSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTaskRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "project_id":
			query = query.Where("project_id = ?", value)
		case "assigned_to":
			query = query.Where("assigned_to = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		}
	}

	return query
}

// Ensure GormTaskRepository implements TaskRepository
var _ project.TaskRepository = (*GormTaskRepository)(nil)
