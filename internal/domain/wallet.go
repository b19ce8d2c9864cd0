package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

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

type WalletDomain interface {
	GetMyWallet(context.Context, *model.GetMyWalletRequest) (*model.GetMyWalletResponse, error)
	Transfer(context.Context, *model.TransferPointsRequest) (*model.TransferPointsResponse, error)
	Grant(context.Context, *model.GrantPointsRequest) (*model.GrantPointsResponse, error)
	GetMyTransactions(context.Context, *model.GetMyTransactionsRequest) (*model.GetMyTransactionsResponse, error)
}

type walletDomain struct {
	walletRepo           repository.WalletRepository
	userRepo             repository.UserRepository
	pointTransactionRepo repository.PointTransactionRepository
	fraudRegistry        FraudRegistry
	roleVerifier         *common.GlobalRoleVerifier
	notifier             *notification.Notifier
	leaderboard          statistic.Leaderboard
}

func NewWalletDomain(
	walletRepo repository.WalletRepository,
	userRepo repository.UserRepository,
	pointTransactionRepo repository.PointTransactionRepository,
	fraudRegistry FraudRegistry,
	roleVerifier *common.GlobalRoleVerifier,
	notifier *notification.Notifier,
	leaderboard statistic.Leaderboard,
) *walletDomain {
	return &walletDomain{
		walletRepo:           walletRepo,
		userRepo:             userRepo,
		pointTransactionRepo: pointTransactionRepo,
		fraudRegistry:        fraudRegistry,
		roleVerifier:         roleVerifier,
		notifier:             notifier,
		leaderboard:          leaderboard,
	}
}

func (d *walletDomain) GetMyWallet(
	ctx context.Context, req *model.GetMyWalletRequest,
) (*model.GetMyWalletResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	wallet, err := ensureWallet(
		ctx, d.walletRepo, d.pointTransactionRepo, d.fraudRegistry, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot setup wallet: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	resp := model.GetMyWalletResponse(model.ConvertWallet(wallet))
	return &resp, nil
}

func (d *walletDomain) Transfer(
	ctx context.Context, req *model.TransferPointsRequest,
) (*model.TransferPointsResponse, error) {
	if req.Amount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow non-positive amount")
	}

	senderID := xcontext.RequestUserID(ctx)

	var recipient *entity.User
	var err error
	if req.RecipientID != "" {
		recipient, err = d.userRepo.GetByID(ctx, req.RecipientID)
	} else {
		recipient, err = d.userRepo.GetByHandle(ctx, req.RecipientHandle)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found recipient")
		}

		xcontext.Logger(ctx).Errorf("Cannot get recipient: %v", err)
		return nil, errorx.Unknown
	}

	if recipient.ID == senderID {
		return nil, errorx.New(errorx.BadRequest, "Not allow transferring to yourself")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// The guard of this deduction is exactly the sufficiency check: zero
	// affected rows means the earned bucket cannot cover the amount now, no
	// matter what was read before.
	err = d.walletRepo.DeductEarned(ctx, senderID, req.Amount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Not enough earned points")
		}

		xcontext.Logger(ctx).Errorf("Cannot deduct sender wallet: %v", err)
		return nil, errorx.Unknown
	}

	_, err = ensureWallet(ctx, d.walletRepo, d.pointTransactionRepo, d.fraudRegistry, recipient.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot setup recipient wallet: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.walletRepo.Add(ctx, recipient.ID, 0, req.Amount); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit recipient wallet: %v", err)
		return nil, errorx.Unknown
	}

	err = recordPointTransaction(ctx, d.pointTransactionRepo,
		senderID, recipient.ID, entity.TransactionTransfer, req.Amount, req.Note)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record transfer transaction: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.notifier.Notify(ctx, recipient.ID, entity.NotificationTransferReceived,
		"You received points", fmt.Sprintf("Someone transferred %d points to you", req.Amount))

	err = d.leaderboard.ChangeEarnedLeaderboard(ctx, req.Amount, time.Now(), recipient.ID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update leaderboard: %v", err)
	}

	return &model.TransferPointsResponse{}, nil
}

func (d *walletDomain) Grant(
	ctx context.Context, req *model.GrantPointsRequest,
) (*model.GrantPointsResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Amount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow non-positive amount")
	}

	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	_, err = ensureWallet(ctx, d.walletRepo, d.pointTransactionRepo, d.fraudRegistry, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot setup wallet: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.walletRepo.Add(ctx, user.ID, req.Amount, 0); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit wallet: %v", err)
		return nil, errorx.Unknown
	}

	err = recordPointTransaction(ctx, d.pointTransactionRepo,
		"", user.ID, entity.TransactionAdminGrant, req.Amount, req.Note)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record grant transaction: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.notifier.Notify(ctx, user.ID, entity.NotificationPointsGranted,
		"You received points", fmt.Sprintf("The platform granted %d points to you", req.Amount))

	return &model.GrantPointsResponse{}, nil
}

func (d *walletDomain) GetMyTransactions(
	ctx context.Context, req *model.GetMyTransactionsRequest,
) (*model.GetMyTransactionsResponse, error) {
	transactions, err := d.pointTransactionRepo.GetListByUserID(
		ctx, xcontext.RequestUserID(ctx), req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get transactions: %v", err)
		return nil, errorx.Unknown
	}

	clientTransactions := []model.PointTransaction{}
	for i := range transactions {
		clientTransactions = append(clientTransactions, model.ConvertPointTransaction(&transactions[i]))
	}

	return &model.GetMyTransactionsResponse{Transactions: clientTransactions}, nil
}
