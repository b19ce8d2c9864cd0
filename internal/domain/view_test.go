package domain

import (
	"context"
	"testing"

	"github.com/modhub-lab/backend/internal/domain/statistic"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/testutil"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestViewDomain() (*viewDomain, repository.ContentRepository, repository.WalletRepository, repository.PointTransactionRepository) {
	contentRepo := repository.NewContentRepository()
	walletRepo := repository.NewWalletRepository()
	pointTransactionRepo := repository.NewPointTransactionRepository()

	d := NewViewDomain(
		contentRepo,
		repository.NewViewLogRepository(),
		walletRepo,
		pointTransactionRepo,
		NewFraudRegistry(repository.NewFraudRecordRepository()),
		statistic.New(pointTransactionRepo, testutil.NewMockRedisClient()),
	)

	return d, contentRepo, walletRepo, pointTransactionRepo
}

// viewContextWithReward pins the probabilistic reward so the test is
// deterministic.
func viewContextWithReward(ctx context.Context, probability float64, points int64) context.Context {
	cfg := xcontext.Configs(ctx)
	cfg.Economy.ViewReward.BaseProbability = probability
	cfg.Economy.ViewReward.BasePoints = points
	cfg.Economy.ViewReward.BonusScale = 0
	return xcontext.WithConfigs(ctx, cfg)
}

func Test_viewDomain_RecordView_uniqueness(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	ctx = viewContextWithReward(ctx, 0, 0)
	d, contentRepo, _, _ := newTestViewDomain()

	viewerCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err := d.RecordView(viewerCtx, &model.RecordViewRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)

	content, err := contentRepo.GetByID(ctx, testutil.Content1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), content.Views)
	require.Equal(t, int64(1), content.UniqueViews)

	// A repeat view of the same account bumps the view counter only. The
	// fresh domain bypasses the in-process throttle, so the view log does
	// the dedup.
	d2, _, _, _ := newTestViewDomain()
	_, err = d2.RecordView(viewerCtx, &model.RecordViewRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)

	content, err = contentRepo.GetByID(ctx, testutil.Content1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), content.Views)
	require.Equal(t, int64(1), content.UniqueViews)

	// Another account is a new unique viewer.
	otherCtx := testutil.MockContextWithUserID(ctx, testutil.Admin.ID)
	_, err = d.RecordView(otherCtx, &model.RecordViewRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)

	content, err = contentRepo.GetByID(ctx, testutil.Content1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), content.Views)
	require.Equal(t, int64(2), content.UniqueViews)

	_, err = d.RecordView(viewerCtx, &model.RecordViewRequest{ContentID: "no-such-content"})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func Test_viewDomain_RecordView_repeatWithinWindow(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	ctx = viewContextWithReward(ctx, 0, 0)
	d, contentRepo, _, _ := newTestViewDomain()

	viewerCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	for i := 0; i < 3; i++ {
		_, err := d.RecordView(viewerCtx, &model.RecordViewRequest{ContentID: testutil.Content1.ID})
		require.NoError(t, err)
	}

	// The throttle skips the view log lookup, never the view counter.
	content, err := contentRepo.GetByID(ctx, testutil.Content1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), content.Views)
	require.Equal(t, int64(1), content.UniqueViews)
}

func Test_viewDomain_RecordView_concurrent(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	ctx = viewContextWithReward(ctx, 0, 0)
	d, contentRepo, _, _ := newTestViewDomain()

	viewerCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	otherCtx := testutil.MockContextWithUserID(ctx, testutil.Admin.ID)

	// Two distinct identities at once: both views land, both are unique.
	eg := errgroup.Group{}
	for _, viewCtx := range []context.Context{viewerCtx, otherCtx} {
		viewCtx := viewCtx
		eg.Go(func() error {
			_, err := d.RecordView(viewCtx, &model.RecordViewRequest{ContentID: testutil.Content1.ID})
			return err
		})
	}
	require.NoError(t, eg.Wait())

	content, err := contentRepo.GetByID(ctx, testutil.Content1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), content.Views)
	require.Equal(t, int64(2), content.UniqueViews)

	// The same identity at once: both views land, exactly one is unique.
	eg = errgroup.Group{}
	for i := 0; i < 2; i++ {
		eg.Go(func() error {
			_, err := d.RecordView(viewerCtx, &model.RecordViewRequest{ContentID: testutil.Content2.ID})
			return err
		})
	}
	require.NoError(t, eg.Wait())

	content, err = contentRepo.GetByID(ctx, testutil.Content2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), content.Views)
	require.Equal(t, int64(1), content.UniqueViews)
}

func Test_viewDomain_RecordView_reward(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	ctx = viewContextWithReward(ctx, 1, 7)
	d, _, walletRepo, pointTransactionRepo := newTestViewDomain()

	viewerCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err := d.RecordView(viewerCtx, &model.RecordViewRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)

	// The creator wallet was backfilled with the welcome grant and credited
	// to the earned bucket.
	creatorWallet, err := walletRepo.Get(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), creatorWallet.GiftPoints)
	require.Equal(t, int64(7), creatorWallet.EarnedPoints)

	transactions, err := pointTransactionRepo.GetListByUserID(ctx, testutil.User2.ID, 0)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	require.Equal(t, entity.TransactionViewReward, transactions[0].Type)
	require.Equal(t, int64(7), transactions[0].Amount)
	require.False(t, transactions[0].SenderID.Valid)
}

func Test_viewDomain_RecordView_selfViewNoReward(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	ctx = viewContextWithReward(ctx, 1, 7)
	d, contentRepo, walletRepo, _ := newTestViewDomain()

	creatorCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err := d.RecordView(creatorCtx, &model.RecordViewRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)

	content, err := contentRepo.GetByID(ctx, testutil.Content1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), content.UniqueViews)

	// The view still counts, but creators do not earn from themselves.
	_, err = walletRepo.Get(ctx, testutil.User2.ID)
	require.Error(t, err)
}

func Test_viewDomain_RecordView_guest(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	ctx = viewContextWithReward(ctx, 0, 0)
	d, contentRepo, _, _ := newTestViewDomain()

	// A guest with a client IP is a unique viewer.
	guestCtx := xcontext.WithRequestRemoteIP(ctx, "203.0.113.50:40000")
	_, err := d.RecordView(guestCtx, &model.RecordViewRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)

	// The same IP through another port is the same viewer.
	d2, _, _, _ := newTestViewDomain()
	samePeerCtx := xcontext.WithRequestRemoteIP(ctx, "203.0.113.50:40001")
	_, err = d2.RecordView(samePeerCtx, &model.RecordViewRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)

	content, err := contentRepo.GetByID(ctx, testutil.Content1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), content.Views)
	require.Equal(t, int64(1), content.UniqueViews)

	// No identity at all, only the raw counter moves.
	_, err = d.RecordView(ctx, &model.RecordViewRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)
	_, err = d.RecordView(ctx, &model.RecordViewRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)

	content, err = contentRepo.GetByID(ctx, testutil.Content1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(4), content.Views)
	require.Equal(t, int64(1), content.UniqueViews)
}

func Test_rollViewReward(t *testing.T) {
	ctx := testutil.MockContext()
	cfg := xcontext.Configs(ctx).Economy.ViewReward

	// Guaranteed base, no bonus.
	cfg.BaseProbability = 1
	cfg.BasePoints = 3
	cfg.BonusScale = 0
	require.Equal(t, int64(3), rollViewReward(cfg, 1000))

	// Impossible roll.
	cfg.BaseProbability = 0
	require.Equal(t, int64(0), rollViewReward(cfg, 1000))

	// Guaranteed small bonus on a brand-new content when large bonuses are
	// disabled.
	cfg.BonusScale = 100
	cfg.SmallBonusPoints = 5
	cfg.LargeBonusOdds = 0
	require.Equal(t, int64(5), rollViewReward(cfg, 0))
}
