package entity

import (
	"database/sql"
	"time"
)

// Wallet holds the two point buckets of a user. GiftPoints are granted by
// the platform (registration, owner grants, admin distributions) and can
// only be spent on purchases. EarnedPoints come from other users or rewards
// and are the only bucket eligible for outbound transfers.
//
// Both buckets must stay non-negative after every committed operation. All
// mutations go through guarded updates, never a blind read-then-write.
type Wallet struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	GiftPoints   int64
	EarnedPoints int64

	// LastOwnerGrantAt gates the recurring platform-owner grant to at most
	// once per rolling window.
	LastOwnerGrantAt sql.NullTime
}
