package entity

import "github.com/modhub-lab/backend/pkg/enum"

type ContentType string

var (
	ContentMod    = enum.New(ContentType("mod"))
	ContentServer = enum.New(ContentType("server"))
	ContentNews   = enum.New(ContentType("news"))
)

type Content struct {
	Base

	CreatorID string
	Creator   User `gorm:"foreignKey:CreatorID"`

	Type        ContentType
	Title       string
	Description string

	// Price in points; zero means the content is free and cannot be
	// purchased.
	Price int64

	// Engagement counters. Likes/Dislikes always equal the number of
	// reaction rows of each type; AverageRating always equals
	// round(TotalRatingScore/RatingCount, 1) while RatingCount > 0.
	Views            int64
	UniqueViews      int64
	Downloads        int64
	Likes            int64
	Dislikes         int64
	RatingCount      int64
	TotalRatingScore int64
	AverageRating    float64
}
