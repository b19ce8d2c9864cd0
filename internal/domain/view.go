package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modhub-lab/backend/config"
	"github.com/modhub-lab/backend/internal/domain/statistic"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/crypto"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
	"gorm.io/gorm"
)

// recentViewWindow suppresses refresh spam before it ever reaches the
// database. The view log remains the only authority on uniqueness; this
// cache is a per-process throttle, nothing more.
const recentViewWindow = 10 * time.Minute

type ViewDomain interface {
	RecordView(context.Context, *model.RecordViewRequest) (*model.RecordViewResponse, error)
}

type viewDomain struct {
	contentRepo          repository.ContentRepository
	viewLogRepo          repository.ViewLogRepository
	walletRepo           repository.WalletRepository
	pointTransactionRepo repository.PointTransactionRepository
	fraudRegistry        FraudRegistry
	leaderboard          statistic.Leaderboard

	recentViews *xsync.MapOf[string, time.Time]
}

func NewViewDomain(
	contentRepo repository.ContentRepository,
	viewLogRepo repository.ViewLogRepository,
	walletRepo repository.WalletRepository,
	pointTransactionRepo repository.PointTransactionRepository,
	fraudRegistry FraudRegistry,
	leaderboard statistic.Leaderboard,
) *viewDomain {
	return &viewDomain{
		contentRepo:          contentRepo,
		viewLogRepo:          viewLogRepo,
		walletRepo:           walletRepo,
		pointTransactionRepo: pointTransactionRepo,
		fraudRegistry:        fraudRegistry,
		leaderboard:          leaderboard,
		recentViews:          xsync.NewMapOf[time.Time](),
	}
}

func (d *viewDomain) RecordView(
	ctx context.Context, req *model.RecordViewRequest,
) (*model.RecordViewResponse, error) {
	content, err := d.contentRepo.GetByID(ctx, req.ContentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot get content: %v", err)
		return nil, errorx.Unknown
	}

	identityKey := viewIdentityKey(ctx)
	if identityKey == "" {
		// No identity to dedup on, count the view and nothing else.
		if err := d.contentRepo.IncreaseViews(ctx, content.ID, false); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase views: %v", err)
			return nil, errorx.Unknown
		}

		return &model.RecordViewResponse{}, nil
	}

	cacheKey := content.ID + "|" + identityKey
	if last, ok := d.recentViews.Load(cacheKey); ok && time.Since(last) < recentViewWindow {
		// A recently seen identity cannot be a unique view, so the view log
		// lookup is skipped, but the view itself still counts.
		if err := d.contentRepo.IncreaseViews(ctx, content.ID, false); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase views: %v", err)
			return nil, errorx.Unknown
		}

		return &model.RecordViewResponse{}, nil
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	unique, err := d.viewLogRepo.Create(ctx, &entity.ViewLog{
		ContentID:   content.ID,
		IdentityKey: identityKey,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create view log: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.contentRepo.IncreaseViews(ctx, content.ID, unique); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase views: %v", err)
		return nil, errorx.Unknown
	}

	// The creator earns from unique views of other people only.
	var rewardPoints int64
	if unique && content.CreatorID != xcontext.RequestUserID(ctx) {
		economy := xcontext.Configs(ctx).Economy
		rewardPoints = rollViewReward(economy.ViewReward, content.UniqueViews)

		if rewardPoints > 0 {
			_, err = ensureWallet(
				ctx, d.walletRepo, d.pointTransactionRepo, d.fraudRegistry, content.CreatorID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot setup creator wallet: %v", err)
				return nil, errorx.Unknown
			}

			if err := d.walletRepo.Add(ctx, content.CreatorID, 0, rewardPoints); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot credit creator wallet: %v", err)
				return nil, errorx.Unknown
			}

			err = recordPointTransaction(ctx, d.pointTransactionRepo,
				"", content.CreatorID, entity.TransactionViewReward, rewardPoints,
				fmt.Sprintf("Unique view reward of content %s", content.ID))
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot record view reward transaction: %v", err)
				return nil, errorx.Unknown
			}
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.recentViews.Store(cacheKey, time.Now())

	if rewardPoints > 0 {
		err := d.leaderboard.ChangeEarnedLeaderboard(ctx, rewardPoints, time.Now(), content.CreatorID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update leaderboard: %v", err)
		}
	}

	return &model.RecordViewResponse{}, nil
}

// viewIdentityKey identifies the viewer for unique counting, by account when
// authenticated, by normalized client IP otherwise.
func viewIdentityKey(ctx context.Context) string {
	if userID := xcontext.RequestUserID(ctx); userID != "" {
		return "user:" + userID
	}

	if ip := normalizeIP(xcontext.RequestRemoteIP(ctx)); ip != "" {
		return "guest:" + ip
	}

	return ""
}

// rollViewReward resolves the creator reward of one unique view. The base
// reward is a fraction of a point on average, realized as whole points with
// the matching probability. Bonus rolls get rarer as the content accumulates
// unique views.
func rollViewReward(cfg config.ViewRewardConfigs, uniqueViews int64) int64 {
	var points int64
	if crypto.RandFloat() < cfg.BaseProbability {
		points += cfg.BasePoints
	}

	if cfg.BonusScale > 0 {
		bonusChance := float64(cfg.BonusScale) / float64(uniqueViews+cfg.BonusScale)
		if crypto.RandFloat() < bonusChance {
			if cfg.LargeBonusOdds > 0 && crypto.RandIntn(cfg.LargeBonusOdds) == 0 {
				points += cfg.LargeBonusPoints
			} else {
				points += cfg.SmallBonusPoints
			}
		}
	}

	return points
}
