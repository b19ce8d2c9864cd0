package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/pkg/pubsub"
	"github.com/modhub-lab/backend/pkg/xcontext"
)

// EventHandler consumes push events from the notification topic. Forwarding
// to a delivery channel happens here; an undeliverable event is dropped
// because the notification row already reached the database.
type EventHandler struct{}

func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

func (h *EventHandler) Handle(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var raw map[string]any
	if err := json.Unmarshal(pack.Msg, &raw); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal notification event: %v", err)
		return
	}

	var event model.NotificationEvent
	if err := mapstructure.Decode(raw, &event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode notification event: %v", err)
		return
	}

	if event.UserID == "" {
		xcontext.Logger(ctx).Warnf("Got notification event without user id")
		return
	}

	xcontext.Logger(ctx).Infof(
		"Deliver notification %s (%s) to user %s", event.NotificationID, event.Type, event.UserID)
}
