package cron

import (
	"testing"

	"github.com/modhub-lab/backend/internal/domain/notification"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_OwnerGrantCronJob_Do(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	walletRepo := repository.NewWalletRepository()
	pointTransactionRepo := repository.NewPointTransactionRepository()
	notificationRepo := repository.NewNotificationRepository()
	job := NewOwnerGrantCronJob(
		repository.NewUserRepository(),
		walletRepo,
		pointTransactionRepo,
		notification.NewNotifier(notificationRepo, &testutil.MockPublisher{}),
	)

	job.Do(ctx)

	wallet, err := walletRepo.Get(ctx, testutil.Owner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10000), wallet.GiftPoints)
	require.True(t, wallet.LastOwnerGrantAt.Valid)

	transactions, err := pointTransactionRepo.GetListByUserID(ctx, testutil.Owner.ID, 0)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	require.Equal(t, entity.TransactionOwnerGrant, transactions[0].Type)
	require.Equal(t, int64(10000), transactions[0].Amount)

	notifications, err := notificationRepo.GetListByUserID(ctx, testutil.Owner.ID, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	// A second run inside the interval is a no-op.
	job.Do(ctx)

	wallet, err = walletRepo.Get(ctx, testutil.Owner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10000), wallet.GiftPoints)

	transactions, err = pointTransactionRepo.GetListByUserID(ctx, testutil.Owner.ID, 0)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
}
