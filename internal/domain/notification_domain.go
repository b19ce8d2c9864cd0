package domain

import (
	"context"
	"errors"

	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type NotificationDomain interface {
	GetMyNotifications(context.Context, *model.GetMyNotificationsRequest) (*model.GetMyNotificationsResponse, error)
	MarkRead(context.Context, *model.MarkNotificationReadRequest) (*model.MarkNotificationReadResponse, error)
}

type notificationDomain struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationDomain(notificationRepo repository.NotificationRepository) *notificationDomain {
	return &notificationDomain{notificationRepo: notificationRepo}
}

func (d *notificationDomain) GetMyNotifications(
	ctx context.Context, req *model.GetMyNotificationsRequest,
) (*model.GetMyNotificationsResponse, error) {
	if req.Limit == 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (100)")
	}

	notifications, err := d.notificationRepo.GetListByUserID(
		ctx, xcontext.RequestUserID(ctx), req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get notifications: %v", err)
		return nil, errorx.Unknown
	}

	clientNotifications := []model.Notification{}
	for i := range notifications {
		clientNotifications = append(clientNotifications, model.ConvertNotification(&notifications[i]))
	}

	return &model.GetMyNotificationsResponse{Notifications: clientNotifications}, nil
}

func (d *notificationDomain) MarkRead(
	ctx context.Context, req *model.MarkNotificationReadRequest,
) (*model.MarkNotificationReadResponse, error) {
	err := d.notificationRepo.MarkRead(ctx, req.ID, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found notification")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark notification as read: %v", err)
		return nil, errorx.Unknown
	}

	return &model.MarkNotificationReadResponse{}, nil
}
