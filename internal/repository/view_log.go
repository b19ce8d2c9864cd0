package repository

import (
	"context"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type ViewLogRepository interface {
	// Create inserts the view log entry and reports whether it was actually
	// written. A false result means this identity was already counted as a
	// unique viewer of the content; the insert itself is the dedup gate.
	Create(ctx context.Context, data *entity.ViewLog) (bool, error)

	Count(ctx context.Context, contentID string) (int64, error)
}

type viewLogRepository struct{}

func NewViewLogRepository() *viewLogRepository {
	return &viewLogRepository{}
}

func (r *viewLogRepository) Create(ctx context.Context, data *entity.ViewLog) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *viewLogRepository) Count(ctx context.Context, contentID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.ViewLog{}).
		Where("content_id=?", contentID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
