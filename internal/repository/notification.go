package repository

import (
	"context"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, data *entity.Notification) error
	GetListByUserID(ctx context.Context, userID string, limit int) ([]entity.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type notificationRepository struct{}

func NewNotificationRepository() *notificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(ctx context.Context, data *entity.Notification) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *notificationRepository) GetListByUserID(
	ctx context.Context, userID string, limit int,
) ([]entity.Notification, error) {
	var result []entity.Notification
	tx := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC")

	if limit > 0 {
		tx = tx.Limit(limit)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Notification{}).
		Where("id=? AND user_id=?", id, userID).
		Update("is_read", true)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
