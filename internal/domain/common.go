package domain

import (
	"context"
	"database/sql"
	"errors"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

func recordPointTransaction(
	ctx context.Context,
	pointTransactionRepo repository.PointTransactionRepository,
	senderID, recipientID string,
	typ entity.PointTransactionType,
	amount int64,
	note string,
) error {
	tx := &entity.PointTransaction{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		Type:          typ,
		Amount:        amount,
		Note:          note,
	}

	if senderID != "" {
		tx.SenderID = sql.NullString{Valid: true, String: senderID}
	}

	if recipientID != "" {
		tx.RecipientID = sql.NullString{Valid: true, String: recipientID}
	}

	return pointTransactionRepo.Create(ctx, tx)
}

// ensureWallet backfills the wallet of a user on first touch. A fresh wallet
// receives the welcome grant unless the registration origin is flagged by
// the fraud registry; a concurrently created wallet is reused as-is. Must
// run inside a database transaction.
func ensureWallet(
	ctx context.Context,
	walletRepo repository.WalletRepository,
	pointTransactionRepo repository.PointTransactionRepository,
	fraudRegistry FraudRegistry,
	userID string,
) (*entity.Wallet, error) {
	wallet, err := walletRepo.Get(ctx, userID)
	if err == nil {
		return wallet, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// The request origins describe the wallet owner only when the owner is
	// the one making the request (registration carries no user id yet). A
	// wallet backfilled on behalf of someone else, a transfer recipient or a
	// reward payout, keeps the full grant and leaves the registry untouched.
	requesterID := xcontext.RequestUserID(ctx)
	ownOrigins := requesterID == "" || requesterID == userID

	welcomePoints := xcontext.Configs(ctx).Economy.WelcomePoints
	if ownOrigins {
		flagged, err := fraudRegistry.IsFlagged(ctx)
		if err != nil {
			return nil, err
		}

		if flagged {
			welcomePoints = 0
			xcontext.Logger(ctx).Infof("Suspected duplicated origin, no welcome grant for user %s", userID)
		}
	}

	created, err := walletRepo.Create(ctx, &entity.Wallet{
		UserID:     userID,
		GiftPoints: welcomePoints,
	})
	if err != nil {
		return nil, err
	}

	if created {
		if welcomePoints > 0 {
			err := recordPointTransaction(ctx, pointTransactionRepo,
				"", userID, entity.TransactionWelcomeGrant, welcomePoints, "Welcome to the platform")
			if err != nil {
				return nil, err
			}
		}

		// Losing a fraud record costs a future welcome grant at worst; it
		// never takes the wallet down with it.
		if ownOrigins {
			if err := fraudRegistry.RecordOrigins(ctx, userID); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot record fraud origins: %v", err)
			}
		}
	}

	return walletRepo.Get(ctx, userID)
}
