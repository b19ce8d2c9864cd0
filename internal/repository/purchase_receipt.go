package repository

import (
	"context"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type PurchaseReceiptRepository interface {
	// Create reports false when the buyer already holds a receipt of this
	// content; the insert itself is the repeat-purchase gate.
	Create(ctx context.Context, data *entity.PurchaseReceipt) (bool, error)

	GetByBuyerAndContent(ctx context.Context, buyerID, contentID string) (*entity.PurchaseReceipt, error)
	GetListByBuyerID(ctx context.Context, buyerID string) ([]entity.PurchaseReceipt, error)
}

type purchaseReceiptRepository struct{}

func NewPurchaseReceiptRepository() *purchaseReceiptRepository {
	return &purchaseReceiptRepository{}
}

func (r *purchaseReceiptRepository) Create(
	ctx context.Context, data *entity.PurchaseReceipt,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *purchaseReceiptRepository) GetByBuyerAndContent(
	ctx context.Context, buyerID, contentID string,
) (*entity.PurchaseReceipt, error) {
	var result entity.PurchaseReceipt
	err := xcontext.DB(ctx).
		Where("buyer_id=? AND content_id=?", buyerID, contentID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *purchaseReceiptRepository) GetListByBuyerID(
	ctx context.Context, buyerID string,
) ([]entity.PurchaseReceipt, error) {
	var result []entity.PurchaseReceipt
	err := xcontext.DB(ctx).
		Where("buyer_id=?", buyerID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
