package repository

import (
	"context"
	"time"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContestRepository interface {
	Create(ctx context.Context, data *entity.Contest) error
	GetByID(ctx context.Context, id string) (*entity.Contest, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.Contest, error)

	// AddParticipant reports false when the user already joined; joining is
	// idempotent.
	AddParticipant(ctx context.Context, data *entity.ContestParticipant) (bool, error)
	GetParticipants(ctx context.Context, contestID string) ([]entity.ContestParticipant, error)

	// End flips the contest to ended only while it is still active, so the
	// one-time transition can never pay out twice.
	End(ctx context.Context, id string) error

	CreateWinner(ctx context.Context, data *entity.ContestWinner) error
	GetWinners(ctx context.Context, contestID string) ([]entity.ContestWinner, error)
}

type contestRepository struct{}

func NewContestRepository() *contestRepository {
	return &contestRepository{}
}

func (r *contestRepository) Create(ctx context.Context, data *entity.Contest) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *contestRepository) GetByID(ctx context.Context, id string) (*entity.Contest, error) {
	var result entity.Contest
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *contestRepository) GetList(ctx context.Context, offset, limit int) ([]entity.Contest, error) {
	var result []entity.Contest
	err := xcontext.DB(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *contestRepository) AddParticipant(
	ctx context.Context, data *entity.ContestParticipant,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *contestRepository) GetParticipants(
	ctx context.Context, contestID string,
) ([]entity.ContestParticipant, error) {
	var result []entity.ContestParticipant
	err := xcontext.DB(ctx).
		Where("contest_id=?", contestID).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *contestRepository) End(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Contest{}).
		Where("id=? AND status=?", id, entity.ContestActive).
		Updates(map[string]any{
			"status":   entity.ContestEnded,
			"ended_at": time.Now(),
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *contestRepository) CreateWinner(ctx context.Context, data *entity.ContestWinner) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *contestRepository) GetWinners(
	ctx context.Context, contestID string,
) ([]entity.ContestWinner, error) {
	var result []entity.ContestWinner
	err := xcontext.DB(ctx).
		Where("contest_id=?", contestID).
		Order("rank ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
