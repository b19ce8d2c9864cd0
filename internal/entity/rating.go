package entity

import "time"

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// Rating keeps at most one score per (content, user). Replacing a score
// adjusts the content total by the delta without changing the count.
type Rating struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	ContentID string  `gorm:"primaryKey"`
	Content   Content `gorm:"foreignKey:ContentID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Score int
}
