package entity

import (
	"context"

	"github.com/modhub-lab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Wallet{},
		&FraudRecord{},
		&Content{},
		&ViewLog{},
		&Reaction{},
		&Rating{},
		&Contest{},
		&ContestParticipant{},
		&ContestWinner{},
		&PurchaseReceipt{},
		&PointTransaction{},
		&Notification{},
	)
}
