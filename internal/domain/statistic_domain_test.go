package domain

import (
	"testing"

	"github.com/modhub-lab/backend/internal/common"
	"github.com/modhub-lab/backend/internal/domain/notification"
	"github.com/modhub-lab/backend/internal/domain/statistic"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_statisticDomain_GetLeaderBoard(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	walletRepo := repository.NewWalletRepository()
	pointTransactionRepo := repository.NewPointTransactionRepository()
	leaderboard := statistic.New(pointTransactionRepo, testutil.NewMockRedisClient())
	d := NewStatisticDomain(leaderboard, repository.NewUserRepository())

	// Two transfers settle earned points for both fixture users.
	walletDomain := NewWalletDomain(
		walletRepo,
		repository.NewUserRepository(),
		pointTransactionRepo,
		NewFraudRegistry(repository.NewFraudRecordRepository()),
		common.NewGlobalRoleVerifier(repository.NewUserRepository()),
		notification.NewNotifier(repository.NewNotificationRepository(), &testutil.MockPublisher{}),
		leaderboard,
	)

	_, err := walletRepo.Create(ctx, &entity.Wallet{UserID: testutil.Admin.ID, EarnedPoints: 100})
	require.NoError(t, err)

	adminCtx := testutil.MockContextWithUserID(ctx, testutil.Admin.ID)
	_, err = walletDomain.Transfer(adminCtx, &model.TransferPointsRequest{
		RecipientHandle: testutil.User1.Handle, Amount: 60})
	require.NoError(t, err)
	_, err = walletDomain.Transfer(adminCtx, &model.TransferPointsRequest{
		RecipientHandle: testutil.User2.Handle, Amount: 40})
	require.NoError(t, err)

	resp, err := d.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{Period: "week"})
	require.NoError(t, err)
	require.Len(t, resp.LeaderBoard, 2)
	require.Equal(t, testutil.User1.ID, resp.LeaderBoard[0].User.ID)
	require.Equal(t, testutil.User1.Name, resp.LeaderBoard[0].User.Name)
	require.Equal(t, int64(60), resp.LeaderBoard[0].Value)
	require.Equal(t, uint64(1), resp.LeaderBoard[0].CurrentRank)
	require.Equal(t, testutil.User2.ID, resp.LeaderBoard[1].User.ID)

	_, err = d.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{Period: "year"})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{Period: "week", Limit: 51})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}
