package domain

import (
	"testing"

	"github.com/modhub-lab/backend/internal/domain/notification"
	"github.com/modhub-lab/backend/internal/domain/statistic"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestPurchaseDomain() (*purchaseDomain, repository.WalletRepository, repository.PointTransactionRepository) {
	walletRepo := repository.NewWalletRepository()
	pointTransactionRepo := repository.NewPointTransactionRepository()

	d := NewPurchaseDomain(
		repository.NewPurchaseReceiptRepository(),
		repository.NewContentRepository(),
		repository.NewUserRepository(),
		walletRepo,
		pointTransactionRepo,
		NewFraudRegistry(repository.NewFraudRecordRepository()),
		notification.NewNotifier(repository.NewNotificationRepository(), &testutil.MockPublisher{}),
		statistic.New(pointTransactionRepo, testutil.NewMockRedisClient()),
	)

	return d, walletRepo, pointTransactionRepo
}

func Test_purchaseDomain_Buy(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, walletRepo, pointTransactionRepo := newTestPurchaseDomain()

	// The gift bucket covers the price first, the earned bucket pays the
	// remainder.
	_, err := walletRepo.Create(ctx, &entity.Wallet{
		UserID:       testutil.User1.ID,
		GiftPoints:   40,
		EarnedPoints: 80,
	})
	require.NoError(t, err)

	buyerCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := d.Buy(buyerCtx, &model.BuyContentRequest{ContentID: testutil.Content2.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, resp.Receipt.BuyerID)
	require.Equal(t, testutil.User2.ID, resp.Receipt.SellerID)
	require.Equal(t, int64(100), resp.Receipt.Price)
	require.Equal(t, int64(30), resp.Receipt.Commission)
	require.Equal(t, testutil.Content2.Title, resp.Receipt.ContentSnapshot["Title"])

	buyerWallet, err := walletRepo.Get(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), buyerWallet.GiftPoints)
	require.Equal(t, int64(20), buyerWallet.EarnedPoints)

	// The seller wallet was backfilled, then credited with the price minus
	// the commission.
	sellerWallet, err := walletRepo.Get(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), sellerWallet.GiftPoints)
	require.Equal(t, int64(70), sellerWallet.EarnedPoints)

	buyerTransactions, err := pointTransactionRepo.GetListByUserID(ctx, testutil.User1.ID, 0)
	require.NoError(t, err)
	require.Equal(t, entity.TransactionPurchase, buyerTransactions[0].Type)
	require.Equal(t, int64(100), buyerTransactions[0].Amount)
	require.False(t, buyerTransactions[0].RecipientID.Valid)

	sellerTransactions, err := pointTransactionRepo.GetListByUserID(ctx, testutil.User2.ID, 0)
	require.NoError(t, err)
	require.Equal(t, entity.TransactionSaleIncome, sellerTransactions[0].Type)
	require.Equal(t, int64(70), sellerTransactions[0].Amount)

	// Buying twice fails and moves nothing.
	_, err = d.Buy(buyerCtx, &model.BuyContentRequest{ContentID: testutil.Content2.ID})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	buyerWallet, err = walletRepo.Get(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(20), buyerWallet.EarnedPoints)

	// The receipt shows up in the purchase history.
	purchases, err := d.GetMyPurchases(buyerCtx, &model.GetMyPurchasesRequest{})
	require.NoError(t, err)
	require.Len(t, purchases.Receipts, 1)
	require.Equal(t, testutil.Content2.ID, purchases.Receipts[0].ContentID)
}

func Test_purchaseDomain_Buy_insufficientPoints(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, walletRepo, _ := newTestPurchaseDomain()

	_, err := walletRepo.Create(ctx, &entity.Wallet{
		UserID:       testutil.User1.ID,
		GiftPoints:   30,
		EarnedPoints: 30,
	})
	require.NoError(t, err)

	buyerCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err = d.Buy(buyerCtx, &model.BuyContentRequest{ContentID: testutil.Content2.ID})
	require.Error(t, err)
	require.Equal(t, errorx.Unavailable, err.(errorx.Error).Code)
	require.Equal(t, "Not enough points", err.Error())

	wallet, err := walletRepo.Get(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(30), wallet.GiftPoints)
	require.Equal(t, int64(30), wallet.EarnedPoints)
}

func Test_purchaseDomain_Buy_validation(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, _, _ := newTestPurchaseDomain()

	buyerCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)

	// Free content cannot be purchased.
	_, err := d.Buy(buyerCtx, &model.BuyContentRequest{ContentID: testutil.Content1.ID})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.Buy(buyerCtx, &model.BuyContentRequest{ContentID: "no-such-content"})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)

	// Creators cannot buy their own content.
	creatorCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = d.Buy(creatorCtx, &model.BuyContentRequest{ContentID: testutil.Content2.ID})
	require.Error(t, err)
	require.Equal(t, "Not allow buying your own content", err.Error())
}
