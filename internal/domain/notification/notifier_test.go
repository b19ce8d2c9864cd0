package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/pubsub"
	"github.com/modhub-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_Notifier_Notify(t *testing.T) {
	ctx := testutil.MockContext()
	notificationRepo := repository.NewNotificationRepository()

	var publishedTopic string
	var publishedPack *pubsub.Pack
	publisher := &testutil.MockPublisher{
		PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
			publishedTopic = topic
			publishedPack = pack
			return nil
		},
	}

	notifier := NewNotifier(notificationRepo, publisher)
	notifier.Notify(ctx, "user1", entity.NotificationTransferReceived,
		"You received points", "Someone transferred 30 points to you")

	// The row reached the database.
	notifications, err := notificationRepo.GetListByUserID(ctx, "user1", 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, entity.NotificationTransferReceived, notifications[0].Type)
	require.Equal(t, "You received points", notifications[0].Title)
	require.False(t, notifications[0].IsRead)

	// The push event carries the same notification.
	require.Equal(t, "notifications", publishedTopic)
	require.Equal(t, []byte("user1"), publishedPack.Key)

	var event model.NotificationEvent
	require.NoError(t, json.Unmarshal(publishedPack.Msg, &event))
	require.Equal(t, notifications[0].ID, event.NotificationID)
	require.Equal(t, "user1", event.UserID)
	require.Equal(t, "transfer_received", event.Type)
}

func Test_Notifier_Notify_publishFailureKeepsRow(t *testing.T) {
	ctx := testutil.MockContext()
	notificationRepo := repository.NewNotificationRepository()

	publisher := &testutil.MockPublisher{
		PublishFunc: func(context.Context, string, *pubsub.Pack) error {
			return errors.New("broker down")
		},
	}

	notifier := NewNotifier(notificationRepo, publisher)
	notifier.Notify(ctx, "user1", entity.NotificationPointsGranted, "t", "m")

	notifications, err := notificationRepo.GetListByUserID(ctx, "user1", 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
}

func Test_EventHandler_Handle(t *testing.T) {
	ctx := testutil.MockContext()
	handler := NewEventHandler()

	b, err := json.Marshal(model.NotificationEvent{
		NotificationID: "n1",
		UserID:         "user1",
		Type:           "contest_won",
		Title:          "You won a contest",
		Message:        "You won 50 points in contest Weekly raffle",
	})
	require.NoError(t, err)

	// Well-formed, malformed, and anonymous events are all absorbed.
	handler.Handle(ctx, &pubsub.Pack{Key: []byte("user1"), Msg: b}, time.Now())
	handler.Handle(ctx, &pubsub.Pack{Msg: []byte("not json")}, time.Now())
	handler.Handle(ctx, &pubsub.Pack{Msg: []byte(`{"type":"contest_won"}`)}, time.Now())
}
