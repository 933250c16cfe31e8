package repository

import (
	"context"
	"time"

	"github.com/taskdesk/taskdesk/models"
	"github.com/taskdesk/taskdesk/utils"
	"gorm.io/gorm"
)

// TaskRepositoryImpl implements TaskRepository interface
type TaskRepositoryImpl struct {
	*BaseRepository[models.Task, models.TaskFilter]
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &TaskRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Task, models.TaskFilter](db),
	}
}

// UpdateStatus transitions a task to a new status
func (r *TaskRepositoryImpl) UpdateStatus(ctx context.Context, id, status string, completedAt *time.Time) error {
	db := r.getDB(ctx)
	updates := map[string]any{"status": status, "updated_at": utils.UTCNow()}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	return db.Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error
}

// Assign sets the task assignee
func (r *TaskRepositoryImpl) Assign(ctx context.Context, id, assigneeID string) error {
	db := r.getDB(ctx)
	return db.Model(&models.Task{}).Where("id = ?", id).
		Updates(map[string]any{"assignee_id": assigneeID, "updated_at": utils.UTCNow()}).Error
}

// applyFilter applies filter criteria to a GORM query
func (r *TaskRepositoryImpl) applyFilter(query *gorm.DB, filter models.TaskFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.CreatorID != nil {
		query = query.Where("creator_id = ?", *filter.CreatorID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves tasks based on filter criteria
func (r *TaskRepositoryImpl) ByFilter(ctx context.Context, filter models.TaskFilter, orderBy string, limit, offset int) ([]*models.Task, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Task{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Task
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of tasks matching filter
func (r *TaskRepositoryImpl) Count(ctx context.Context, filter models.TaskFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Task{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any task matches the filter
func (r *TaskRepositoryImpl) Exists(ctx context.Context, filter models.TaskFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
