package repository

import (
	"context"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	Get(ctx context.Context, contentID, userID string) (*entity.Rating, error)

	// Create reports false when the user already rated this content.
	Create(ctx context.Context, data *entity.Rating) (bool, error)

	// UpdateScore replaces the score only while the previously read score is
	// still in place.
	UpdateScore(ctx context.Context, contentID, userID string, oldScore, newScore int) (bool, error)
}

type ratingRepository struct{}

func NewRatingRepository() *ratingRepository {
	return &ratingRepository{}
}

func (r *ratingRepository) Get(
	ctx context.Context, contentID, userID string,
) (*entity.Rating, error) {
	var result entity.Rating
	err := xcontext.DB(ctx).
		Where("content_id=? AND user_id=?", contentID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *ratingRepository) Create(ctx context.Context, data *entity.Rating) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *ratingRepository) UpdateScore(
	ctx context.Context, contentID, userID string, oldScore, newScore int,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Rating{}).
		Where("content_id=? AND user_id=? AND score=?", contentID, userID, oldScore).
		Update("score", newScore)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}
