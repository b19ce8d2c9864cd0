package entity

import (
	"time"

	"github.com/modhub-lab/backend/pkg/enum"
)

type ReactionType string

var (
	ReactionLike    = enum.New(ReactionType("like"))
	ReactionDislike = enum.New(ReactionType("dislike"))
)

// Reaction keeps at most one row per (content, user): a user is never in
// both the like and dislike sets at the same time.
type Reaction struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	ContentID string  `gorm:"primaryKey"`
	Content   Content `gorm:"foreignKey:ContentID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Type ReactionType
}
