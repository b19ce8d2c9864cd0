package entity

import (
	"database/sql"
	"time"

	"github.com/modhub-lab/backend/pkg/enum"
)

type ContestStatusType string

var (
	ContestActive = enum.New(ContestStatusType("active"))
	ContestEnded  = enum.New(ContestStatusType("ended"))
)

type Contest struct {
	Base

	Title       string
	Description string

	CreatedBy     string
	CreatedByUser User `gorm:"foreignKey:CreatedBy"`

	Status ContestStatusType

	NumberOfWinners int
	RewardPoints    int64

	EndedAt sql.NullTime
}

type ContestParticipant struct {
	CreatedAt time.Time

	ContestID string  `gorm:"primaryKey"`
	Contest   Contest `gorm:"foreignKey:ContestID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`
}

// ContestWinner rows are written exactly once when the contest ends and are
// immutable afterwards.
type ContestWinner struct {
	CreatedAt time.Time

	ContestID string  `gorm:"primaryKey"`
	Contest   Contest `gorm:"foreignKey:ContestID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Rank int
}
