package entity

import "github.com/modhub-lab/backend/pkg/enum"

type NotificationType string

var (
	NotificationTransferReceived = enum.New(NotificationType("transfer_received"))
	NotificationContestWon       = enum.New(NotificationType("contest_won"))
	NotificationPointsGranted    = enum.New(NotificationType("points_granted"))
)

// Notification delivery is best-effort: a row may be written without the
// push event ever reaching the user, and never the other way around.
type Notification struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Type    NotificationType
	Title   string
	Message string

	IsRead bool
}
