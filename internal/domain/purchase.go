package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/structs"
	"github.com/google/uuid"
	"github.com/modhub-lab/backend/internal/common"
	"github.com/modhub-lab/backend/internal/domain/notification"
	"github.com/modhub-lab/backend/internal/domain/statistic"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PurchaseDomain interface {
	Buy(context.Context, *model.BuyContentRequest) (*model.BuyContentResponse, error)
	GetMyPurchases(context.Context, *model.GetMyPurchasesRequest) (*model.GetMyPurchasesResponse, error)
}

type purchaseDomain struct {
	purchaseReceiptRepo  repository.PurchaseReceiptRepository
	contentRepo          repository.ContentRepository
	userRepo             repository.UserRepository
	walletRepo           repository.WalletRepository
	pointTransactionRepo repository.PointTransactionRepository
	fraudRegistry        FraudRegistry
	notifier             *notification.Notifier
	leaderboard          statistic.Leaderboard
}

func NewPurchaseDomain(
	purchaseReceiptRepo repository.PurchaseReceiptRepository,
	contentRepo repository.ContentRepository,
	userRepo repository.UserRepository,
	walletRepo repository.WalletRepository,
	pointTransactionRepo repository.PointTransactionRepository,
	fraudRegistry FraudRegistry,
	notifier *notification.Notifier,
	leaderboard statistic.Leaderboard,
) *purchaseDomain {
	return &purchaseDomain{
		purchaseReceiptRepo:  purchaseReceiptRepo,
		contentRepo:          contentRepo,
		userRepo:             userRepo,
		walletRepo:           walletRepo,
		pointTransactionRepo: pointTransactionRepo,
		fraudRegistry:        fraudRegistry,
		notifier:             notifier,
		leaderboard:          leaderboard,
	}
}

// Buy settles a purchase: the price leaves the buyer gift bucket first and
// the earned bucket for the remainder, the seller receives the price minus
// the platform commission, and the receipt freezes the content as sold. The
// debit split is computed and committed inside one transaction; if another
// spender moves the buckets in between, the whole settlement retries on a
// fresh read.
func (d *purchaseDomain) Buy(
	ctx context.Context, req *model.BuyContentRequest,
) (*model.BuyContentResponse, error) {
	content, err := d.contentRepo.GetByID(ctx, req.ContentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot get content: %v", err)
		return nil, errorx.Unknown
	}

	if content.Price <= 0 {
		return nil, errorx.New(errorx.BadRequest, "This content is not purchasable")
	}

	buyerID := xcontext.RequestUserID(ctx)
	if buyerID == content.CreatorID {
		return nil, errorx.New(errorx.BadRequest, "Not allow buying your own content")
	}

	_, err = d.purchaseReceiptRepo.GetByBuyerAndContent(ctx, buyerID, content.ID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "You already purchased this content")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get receipt: %v", err)
		return nil, errorx.Unknown
	}

	creator, err := d.userRepo.GetByID(ctx, content.CreatorID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get creator: %v", err)
		return nil, errorx.Unknown
	}

	commission := content.Price * xcontext.Configs(ctx).Economy.CommissionPercent / 100
	sellerIncome := content.Price - commission

	var receipt *entity.PurchaseReceipt
	err = common.WithRetry(ctx, func(ctx context.Context) error {
		ctx = xcontext.WithDBTransaction(ctx)
		defer xcontext.WithRollbackDBTransaction(ctx)

		wallet, err := ensureWallet(
			ctx, d.walletRepo, d.pointTransactionRepo, d.fraudRegistry, buyerID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot setup buyer wallet: %v", err)
			return errorx.Unknown
		}

		if wallet.GiftPoints+wallet.EarnedPoints < content.Price {
			return errorx.New(errorx.Unavailable, "Not enough points")
		}

		giftSpend := wallet.GiftPoints
		if giftSpend > content.Price {
			giftSpend = content.Price
		}
		earnedSpend := content.Price - giftSpend

		err = d.walletRepo.DeductBuckets(ctx, buyerID, giftSpend, earnedSpend)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// The split is stale, another transaction moved the buckets.
				return common.ErrStateConflict
			}

			xcontext.Logger(ctx).Errorf("Cannot deduct buyer wallet: %v", err)
			return errorx.Unknown
		}

		_, err = ensureWallet(
			ctx, d.walletRepo, d.pointTransactionRepo, d.fraudRegistry, content.CreatorID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot setup seller wallet: %v", err)
			return errorx.Unknown
		}

		if err := d.walletRepo.Add(ctx, content.CreatorID, 0, sellerIncome); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot credit seller wallet: %v", err)
			return errorx.Unknown
		}

		receipt = &entity.PurchaseReceipt{
			Base:       entity.Base{ID: uuid.NewString()},
			BuyerID:    buyerID,
			SellerID:   content.CreatorID,
			ContentID:  content.ID,
			Price:      content.Price,
			Commission: commission,
			ContentSnapshot: entity.Map(structs.Map(
				model.ConvertContent(content, model.ConvertUser(creator, false)))),
		}

		created, err := d.purchaseReceiptRepo.Create(ctx, receipt)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create receipt: %v", err)
			return errorx.Unknown
		}

		if !created {
			return errorx.New(errorx.AlreadyExists, "You already purchased this content")
		}

		err = recordPointTransaction(ctx, d.pointTransactionRepo,
			buyerID, "", entity.TransactionPurchase, content.Price,
			fmt.Sprintf("Purchase of content %s", content.Title))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record purchase transaction: %v", err)
			return errorx.Unknown
		}

		err = recordPointTransaction(ctx, d.pointTransactionRepo,
			"", content.CreatorID, entity.TransactionSaleIncome, sellerIncome,
			fmt.Sprintf("Sale of content %s", content.Title))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record sale transaction: %v", err)
			return errorx.Unknown
		}

		xcontext.WithCommitDBTransaction(ctx)
		return nil
	})

	if err != nil {
		if errors.Is(err, common.ErrStateConflict) {
			return nil, errorx.New(errorx.TooManyRequests, "Too many requests, please try again")
		}

		return nil, err
	}

	d.notifier.Notify(ctx, content.CreatorID, entity.NotificationPointsGranted,
		"Your content was sold",
		fmt.Sprintf("You earned %d points from selling %s", sellerIncome, content.Title))

	err = d.leaderboard.ChangeEarnedLeaderboard(ctx, sellerIncome, time.Now(), content.CreatorID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update leaderboard: %v", err)
	}

	return &model.BuyContentResponse{Receipt: model.ConvertPurchaseReceipt(receipt)}, nil
}

func (d *purchaseDomain) GetMyPurchases(
	ctx context.Context, req *model.GetMyPurchasesRequest,
) (*model.GetMyPurchasesResponse, error) {
	receipts, err := d.purchaseReceiptRepo.GetListByBuyerID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get receipts: %v", err)
		return nil, errorx.Unknown
	}

	clientReceipts := []model.PurchaseReceipt{}
	for i := range receipts {
		clientReceipts = append(clientReceipts, model.ConvertPurchaseReceipt(&receipts[i]))
	}

	return &model.GetMyPurchasesResponse{Receipts: clientReceipts}, nil
}
