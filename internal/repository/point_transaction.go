package repository

import (
	"context"
	"time"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/pkg/xcontext"
)

type UserEarnedPoints struct {
	RecipientID string
	Points      int64
}

type PointTransactionRepository interface {
	Create(ctx context.Context, data *entity.PointTransaction) error
	GetListByUserID(ctx context.Context, userID string, limit int) ([]entity.PointTransaction, error)

	// SumEarnedByRecipient aggregates the earned-bucket credits per user over
	// a time range. It backs the leaderboard rebuild on a cache miss.
	SumEarnedByRecipient(ctx context.Context, start, end time.Time) ([]UserEarnedPoints, error)
}

type pointTransactionRepository struct{}

func NewPointTransactionRepository() *pointTransactionRepository {
	return &pointTransactionRepository{}
}

func (r *pointTransactionRepository) Create(ctx context.Context, data *entity.PointTransaction) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *pointTransactionRepository) GetListByUserID(
	ctx context.Context, userID string, limit int,
) ([]entity.PointTransaction, error) {
	var result []entity.PointTransaction
	tx := xcontext.DB(ctx).
		Where("sender_id=? OR recipient_id=?", userID, userID).
		Order("id DESC")

	if limit > 0 {
		tx = tx.Limit(limit)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pointTransactionRepository) SumEarnedByRecipient(
	ctx context.Context, start, end time.Time,
) ([]UserEarnedPoints, error) {
	earnedTypes := []entity.PointTransactionType{
		entity.TransactionTransfer,
		entity.TransactionViewReward,
		entity.TransactionContestReward,
		entity.TransactionSaleIncome,
	}

	var result []UserEarnedPoints
	err := xcontext.DB(ctx).
		Model(&entity.PointTransaction{}).
		Select("recipient_id, SUM(amount) as points").
		Where("recipient_id IS NOT NULL AND type IN (?)", earnedTypes).
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("recipient_id").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
