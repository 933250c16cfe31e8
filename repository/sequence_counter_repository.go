package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskdesk/taskdesk/models"
	"gorm.io/gorm"
)

// ErrSequenceExhausted is returned once a (prefix, date) counter has issued
// its full 99,999-value capacity. Terminal for that key; retrying cannot
// succeed until the calendar day rolls over.
var ErrSequenceExhausted = errors.New("sequence counter exhausted")

// SequenceCounterRepositoryImpl implements SequenceCounterRepository
type SequenceCounterRepositoryImpl struct {
	*BaseRepository[models.SequenceCounter, models.SequenceCounterFilter]
}

// NewSequenceCounterRepository creates a new sequence counter repository
func NewSequenceCounterRepository(db *gorm.DB) SequenceCounterRepository {
	return &SequenceCounterRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SequenceCounter, models.SequenceCounterFilter](db),
	}
}

// allocateQuery is a single atomic increment-and-fetch. The upsert resolves
// the first-row creation race inside the database: a loser of the INSERT
// conflict falls through to the UPDATE path against the winner's row, so two
// simultaneous first-of-day callers receive 1 and 2 in some order. The
// conditional WHERE stops the counter at MaxSequence; when it does not match,
// RETURNING yields no row and the key is exhausted. A plain read-then-write
// here would admit lost updates under concurrent callers.
const allocateQuery = `
INSERT INTO sequence_counters (prefix, date, sequence, created_at, updated_at)
VALUES (?, ?, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT (prefix, date) DO UPDATE
SET sequence = sequence_counters.sequence + 1, updated_at = CURRENT_TIMESTAMP
WHERE sequence_counters.sequence < ?
RETURNING sequence`

// Allocate atomically obtains the next sequence number for (prefix, date).
// The row lock taken by the upsert serializes concurrent callers on the same
// key, so no two callers ever observe the same value and no increment is
// lost, regardless of how many application processes share the table.
func (r *SequenceCounterRepositoryImpl) Allocate(ctx context.Context, prefix, date string) (int, error) {
	db := r.getDB(ctx)

	var row struct {
		Sequence int
	}
	result := db.WithContext(ctx).Raw(allocateQuery, prefix, date, models.MaxSequence).Scan(&row)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to allocate sequence for %s/%s: %w", prefix, date, result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("counter %s/%s at capacity %d: %w", prefix, date, models.MaxSequence, ErrSequenceExhausted)
	}
	return row.Sequence, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *SequenceCounterRepositoryImpl) applyFilter(query *gorm.DB, filter models.SequenceCounterFilter) *gorm.DB {
	if filter.Prefix != nil {
		query = query.Where("prefix = ?", *filter.Prefix)
	}
	if filter.Date != nil {
		query = query.Where("date = ?", *filter.Date)
	}
	if filter.DateAfter != nil {
		query = query.Where("date >= ?", *filter.DateAfter)
	}
	if filter.DateBefore != nil {
		query = query.Where("date <= ?", *filter.DateBefore)
	}
	return query
}

// ByFilter lists counter rows for issuance reporting
func (r *SequenceCounterRepositoryImpl) ByFilter(ctx context.Context, filter models.SequenceCounterFilter, orderBy string, limit, offset int) ([]*models.SequenceCounter, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.SequenceCounter{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "date DESC, prefix ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.SequenceCounter
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
