package repository

import (
	"context"
	"errors"
	"time"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository interface {
	// Create inserts the wallet if the user has none yet. It reports whether
	// a row was actually created, so callers can tell a fresh wallet from a
	// concurrent or earlier backfill.
	Create(ctx context.Context, data *entity.Wallet) (bool, error)

	Get(ctx context.Context, userID string) (*entity.Wallet, error)

	// Add unconditionally increases the given buckets.
	Add(ctx context.Context, userID string, gift, earned int64) error

	// DeductEarned decreases the earned bucket only if it holds at least the
	// given amount. It returns gorm.ErrRecordNotFound when the guard fails,
	// so a committed wallet can never go negative.
	DeductEarned(ctx context.Context, userID string, amount int64) error

	// DeductBuckets decreases both buckets with a per-bucket sufficiency
	// guard. The split must be computed inside the same transaction that
	// calls this method.
	DeductBuckets(ctx context.Context, userID string, gift, earned int64) error

	// GrantOwner credits the owner grant if the previous one is older than
	// the cutoff (or never happened) and stamps the grant time in the same
	// statement.
	GrantOwner(ctx context.Context, userID string, amount int64, cutoff time.Time) error
}

type walletRepository struct{}

func NewWalletRepository() *walletRepository {
	return &walletRepository{}
}

func (r *walletRepository) Create(ctx context.Context, data *entity.Wallet) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *walletRepository) Get(ctx context.Context, userID string) (*entity.Wallet, error) {
	var result entity.Wallet
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *walletRepository) Add(ctx context.Context, userID string, gift, earned int64) error {
	updateMap := map[string]any{}
	if gift != 0 {
		updateMap["gift_points"] = gorm.Expr("gift_points+?", gift)
	}

	if earned != 0 {
		updateMap["earned_points"] = gorm.Expr("earned_points+?", earned)
	}

	if len(updateMap) == 0 {
		return nil
	}

	tx := xcontext.DB(ctx).
		Model(&entity.Wallet{}).
		Where("user_id=?", userID).
		Updates(updateMap)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *walletRepository) DeductEarned(ctx context.Context, userID string, amount int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Wallet{}).
		Where("user_id=? AND earned_points >= ?", userID, amount).
		Update("earned_points", gorm.Expr("earned_points-?", amount))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *walletRepository) DeductBuckets(ctx context.Context, userID string, gift, earned int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Wallet{}).
		Where("user_id=? AND gift_points >= ? AND earned_points >= ?", userID, gift, earned).
		Updates(map[string]any{
			"gift_points":   gorm.Expr("gift_points-?", gift),
			"earned_points": gorm.Expr("earned_points-?", earned),
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *walletRepository) GrantOwner(
	ctx context.Context, userID string, amount int64, cutoff time.Time,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Wallet{}).
		Where("user_id=? AND (last_owner_grant_at IS NULL OR last_owner_grant_at < ?)", userID, cutoff).
		Updates(map[string]any{
			"gift_points":         gorm.Expr("gift_points+?", amount),
			"last_owner_grant_at": time.Now(),
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
