package entity

import "time"

// FraudRecord remembers a registration origin (client IP or device
// fingerprint). A second registration from a recorded origin is
// fraud-suspected and receives no welcome grant. Records are written once
// and never mutated or deleted by normal flow.
type FraudRecord struct {
	// OriginKey is the normalized origin, prefixed with "ip:" or "device:".
	OriginKey string `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID string
	User   User `gorm:"foreignKey:UserID"`
}
