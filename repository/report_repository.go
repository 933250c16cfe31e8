package repository

import (
	"context"

	"github.com/taskdesk/taskdesk/models"
	"gorm.io/gorm"
)

// ReportRepositoryImpl implements ReportRepository interface
type ReportRepositoryImpl struct {
	*BaseRepository[models.Report, models.ReportFilter]
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &ReportRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Report, models.ReportFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *ReportRepositoryImpl) applyFilter(query *gorm.DB, filter models.ReportFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.RequesterID != nil {
		query = query.Where("requester_id = ?", *filter.RequesterID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	return query
}

// ByFilter retrieves reports based on filter criteria
func (r *ReportRepositoryImpl) ByFilter(ctx context.Context, filter models.ReportFilter, orderBy string, limit, offset int) ([]*models.Report, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Report{})

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

	var rows []*models.Report
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of reports matching filter
func (r *ReportRepositoryImpl) Count(ctx context.Context, filter models.ReportFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Report{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any report matches the filter
func (r *ReportRepositoryImpl) Exists(ctx context.Context, filter models.ReportFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
