package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	Create(context.Context, *model.CreateUserRequest) (*model.CreateUserResponse, error)
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetByHandle(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
}

type userDomain struct {
	userRepo             repository.UserRepository
	walletRepo           repository.WalletRepository
	pointTransactionRepo repository.PointTransactionRepository
	fraudRegistry        FraudRegistry
}

func NewUserDomain(
	userRepo repository.UserRepository,
	walletRepo repository.WalletRepository,
	pointTransactionRepo repository.PointTransactionRepository,
	fraudRegistry FraudRegistry,
) *userDomain {
	return &userDomain{
		userRepo:             userRepo,
		walletRepo:           walletRepo,
		pointTransactionRepo: pointTransactionRepo,
		fraudRegistry:        fraudRegistry,
	}
}

func (d *userDomain) Create(
	ctx context.Context, req *model.CreateUserRequest,
) (*model.CreateUserResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty name")
	}

	_, err := d.userRepo.GetByName(ctx, req.Name)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "This name is already taken")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check existing name: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:   entity.Base{ID: uuid.NewString()},
		Name:   req.Name,
		Handle: xcontext.SnowFlake(ctx).Generate().Int64(),
		Role:   entity.RoleUser,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	_, err = ensureWallet(ctx, d.walletRepo, d.pointTransactionRepo, d.fraudRegistry, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot setup wallet: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.CreateUserResponse{User: model.ConvertUser(user, true)}, nil
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetMeResponse(model.ConvertUser(user, true))
	return &resp, nil
}

func (d *userDomain) GetByHandle(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	user, err := d.userRepo.GetByHandle(ctx, req.Handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user by handle: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetUserResponse(model.ConvertUser(user, false))
	return &resp, nil
}
