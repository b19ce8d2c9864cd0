package entity

import "time"

// ViewLog is the dedup gate for unique views: its existence means the
// identity has already been counted as a unique viewer of the content.
// Rows are created once and never updated or deleted.
type ViewLog struct {
	CreatedAt time.Time

	ContentID string  `gorm:"primaryKey"`
	Content   Content `gorm:"foreignKey:ContentID"`

	// IdentityKey is derived from the authenticated user id (or "guest")
	// and the normalized client IP.
	IdentityKey string `gorm:"primaryKey"`
}
