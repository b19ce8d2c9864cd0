package repository

import (
	"context"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

// ReactionRepository mutates the at-most-one-row-per-user reaction state.
// Every mutation is guarded by the state the caller observed, so a
// concurrent toggle surfaces as zero affected rows instead of a double
// counted reaction.
type ReactionRepository interface {
	Get(ctx context.Context, contentID, userID string) (*entity.Reaction, error)

	// Create reports false when the user already has a reaction row.
	Create(ctx context.Context, data *entity.Reaction) (bool, error)

	// DeleteOfType removes the row only while it still has the given type.
	DeleteOfType(ctx context.Context, contentID, userID string, typ entity.ReactionType) (bool, error)

	// SwitchType flips the row from one type to the other.
	SwitchType(ctx context.Context, contentID, userID string, from, to entity.ReactionType) (bool, error)
}

type reactionRepository struct{}

func NewReactionRepository() *reactionRepository {
	return &reactionRepository{}
}

func (r *reactionRepository) Get(
	ctx context.Context, contentID, userID string,
) (*entity.Reaction, error) {
	var result entity.Reaction
	err := xcontext.DB(ctx).
		Where("content_id=? AND user_id=?", contentID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *reactionRepository) Create(ctx context.Context, data *entity.Reaction) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *reactionRepository) DeleteOfType(
	ctx context.Context, contentID, userID string, typ entity.ReactionType,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Where("content_id=? AND user_id=? AND type=?", contentID, userID, typ).
		Delete(&entity.Reaction{})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *reactionRepository) SwitchType(
	ctx context.Context, contentID, userID string, from, to entity.ReactionType,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Reaction{}).
		Where("content_id=? AND user_id=? AND type=?", contentID, userID, from).
		Update("type", to)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}
