package entity

import (
	"database/sql"

	"github.com/modhub-lab/backend/pkg/enum"
)

type PointTransactionType string

var (
	TransactionTransfer      = enum.New(PointTransactionType("transfer"))
	TransactionWelcomeGrant  = enum.New(PointTransactionType("welcome_grant"))
	TransactionOwnerGrant    = enum.New(PointTransactionType("owner_grant"))
	TransactionAdminGrant    = enum.New(PointTransactionType("admin_grant"))
	TransactionViewReward    = enum.New(PointTransactionType("view_reward"))
	TransactionContestReward = enum.New(PointTransactionType("contest_reward"))
	TransactionPurchase      = enum.New(PointTransactionType("purchase"))
	TransactionSaleIncome    = enum.New(PointTransactionType("sale_income"))
)

// PointTransaction is the immutable record of one point movement. System
// grants have no sender; purchase debits have no recipient.
type PointTransaction struct {
	SnowFlakeBase

	SenderID sql.NullString
	Sender   User `gorm:"foreignKey:SenderID"`

	RecipientID sql.NullString
	Recipient   User `gorm:"foreignKey:RecipientID"`

	Type   PointTransactionType
	Amount int64

	// Note contains the reason of this transaction in case of not coming
	// from a user-initiated transfer.
	Note string
}
