package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modhub-lab/backend/internal/domain/notification"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// OwnerGrantCronJob credits the recurring platform-owner grant. The wallet
// guard stamps the grant time in the same statement that credits it, so the
// job stays at most-once per interval even when several replicas run it.
type OwnerGrantCronJob struct {
	userRepo             repository.UserRepository
	walletRepo           repository.WalletRepository
	pointTransactionRepo repository.PointTransactionRepository
	notifier             *notification.Notifier
}

func NewOwnerGrantCronJob(
	userRepo repository.UserRepository,
	walletRepo repository.WalletRepository,
	pointTransactionRepo repository.PointTransactionRepository,
	notifier *notification.Notifier,
) *OwnerGrantCronJob {
	return &OwnerGrantCronJob{
		userRepo:             userRepo,
		walletRepo:           walletRepo,
		pointTransactionRepo: pointTransactionRepo,
		notifier:             notifier,
	}
}

func (job *OwnerGrantCronJob) Do(ctx context.Context) {
	owner, err := job.userRepo.GetPlatformOwner(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Debugf("No platform owner account")
			return
		}

		xcontext.Logger(ctx).Errorf("Cannot get platform owner: %v", err)
		return
	}

	economy := xcontext.Configs(ctx).Economy
	if economy.OwnerGrantPoints <= 0 {
		return
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	_, err = job.walletRepo.Create(ctx, &entity.Wallet{UserID: owner.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot setup owner wallet: %v", err)
		return
	}

	cutoff := time.Now().Add(-economy.OwnerGrantInterval.Duration)
	err = job.walletRepo.GrantOwner(ctx, owner.ID, economy.OwnerGrantPoints, cutoff)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Debugf("Owner grant is not due yet")
			return
		}

		xcontext.Logger(ctx).Errorf("Cannot grant owner: %v", err)
		return
	}

	tx := &entity.PointTransaction{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		Type:          entity.TransactionOwnerGrant,
		Amount:        economy.OwnerGrantPoints,
		Note:          "Recurring platform owner grant",
	}
	tx.RecipientID.Valid = true
	tx.RecipientID.String = owner.ID

	if err := job.pointTransactionRepo.Create(ctx, tx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record owner grant transaction: %v", err)
		return
	}

	xcontext.WithCommitDBTransaction(ctx)

	job.notifier.Notify(ctx, owner.ID, entity.NotificationPointsGranted,
		"You received points",
		fmt.Sprintf("The platform granted %d points to you", economy.OwnerGrantPoints))
}

func (job *OwnerGrantCronJob) RunNow() bool {
	return true
}

// Next schedules an hourly check. The wallet guard decides whether the
// grant is actually due.
func (job *OwnerGrantCronJob) Next() time.Time {
	return time.Now().Add(time.Hour)
}
