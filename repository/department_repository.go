package repository

import (
	"context"
	"errors"

	"github.com/taskdesk/taskdesk/models"
	"gorm.io/gorm"
)

// DepartmentRepositoryImpl implements DepartmentRepository interface
type DepartmentRepositoryImpl struct {
	*BaseRepository[models.Department, models.DepartmentFilter]
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &DepartmentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Department, models.DepartmentFilter](db),
	}
}

// ByName retrieves a department by its unique name
func (r *DepartmentRepositoryImpl) ByName(ctx context.Context, name string) (*models.Department, error) {
	db := r.getDB(ctx)
	var row models.Department
	if err := db.Where("name = ?", name).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *DepartmentRepositoryImpl) applyFilter(query *gorm.DB, filter models.DepartmentFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves departments based on filter criteria
func (r *DepartmentRepositoryImpl) ByFilter(ctx context.Context, filter models.DepartmentFilter, orderBy string, limit, offset int) ([]*models.Department, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Department{})

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

	var rows []*models.Department
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of departments matching filter
func (r *DepartmentRepositoryImpl) Count(ctx context.Context, filter models.DepartmentFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Department{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any department matches the filter
func (r *DepartmentRepositoryImpl) Exists(ctx context.Context, filter models.DepartmentFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
