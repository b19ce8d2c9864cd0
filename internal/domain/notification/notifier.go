package notification

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/pubsub"
	"github.com/modhub-lab/backend/pkg/xcontext"
)

// Notifier persists a notification row and publishes a push event for it.
// Delivery is best-effort: the row is the source of truth, a failed publish
// only costs the real-time push.
type Notifier struct {
	notificationRepo repository.NotificationRepository
	publisher        pubsub.Publisher
}

func NewNotifier(
	notificationRepo repository.NotificationRepository,
	publisher pubsub.Publisher,
) *Notifier {
	return &Notifier{notificationRepo: notificationRepo, publisher: publisher}
}

func (n *Notifier) Notify(
	ctx context.Context,
	userID string,
	typ entity.NotificationType,
	title, message string,
) {
	notification := &entity.Notification{
		Base:    entity.Base{ID: uuid.NewString()},
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
	}

	if err := n.notificationRepo.Create(ctx, notification); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot create notification: %v", err)
		return
	}

	if n.publisher == nil {
		return
	}

	event := model.NotificationEvent{
		NotificationID: notification.ID,
		UserID:         userID,
		Type:           string(typ),
		Title:          title,
		Message:        message,
	}

	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot marshal notification event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Notification.Topic
	err = n.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(userID), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish notification event: %v", err)
	}
}
