package repository

import (
	"context"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type FraudRecordRepository interface {
	// Create keeps the first record of an origin; a later registration from
	// the same origin leaves the original owner in place.
	Create(ctx context.Context, data *entity.FraudRecord) error
	ExistsAny(ctx context.Context, originKeys []string) (bool, error)
}

type fraudRecordRepository struct{}

func NewFraudRecordRepository() *fraudRecordRepository {
	return &fraudRecordRepository{}
}

func (r *fraudRecordRepository) Create(ctx context.Context, data *entity.FraudRecord) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data).Error
}

func (r *fraudRecordRepository) ExistsAny(ctx context.Context, originKeys []string) (bool, error) {
	if len(originKeys) == 0 {
		return false, nil
	}

	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.FraudRecord{}).
		Where("origin_key IN (?)", originKeys).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
