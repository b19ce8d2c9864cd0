package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modhub-lab/backend/internal/common"
	"github.com/modhub-lab/backend/internal/domain/notification"
	"github.com/modhub-lab/backend/internal/domain/statistic"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/crypto"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"github.com/pkg/math"
	"gorm.io/gorm"
)

type ContestDomain interface {
	Create(context.Context, *model.CreateContestRequest) (*model.CreateContestResponse, error)
	Get(context.Context, *model.GetContestRequest) (*model.GetContestResponse, error)
	GetList(context.Context, *model.GetContestsRequest) (*model.GetContestsResponse, error)
	Join(context.Context, *model.JoinContestRequest) (*model.JoinContestResponse, error)
	End(context.Context, *model.EndContestRequest) (*model.EndContestResponse, error)
}

type contestDomain struct {
	contestRepo          repository.ContestRepository
	walletRepo           repository.WalletRepository
	pointTransactionRepo repository.PointTransactionRepository
	fraudRegistry        FraudRegistry
	roleVerifier         *common.GlobalRoleVerifier
	notifier             *notification.Notifier
	leaderboard          statistic.Leaderboard
}

func NewContestDomain(
	contestRepo repository.ContestRepository,
	walletRepo repository.WalletRepository,
	pointTransactionRepo repository.PointTransactionRepository,
	fraudRegistry FraudRegistry,
	roleVerifier *common.GlobalRoleVerifier,
	notifier *notification.Notifier,
	leaderboard statistic.Leaderboard,
) *contestDomain {
	return &contestDomain{
		contestRepo:          contestRepo,
		walletRepo:           walletRepo,
		pointTransactionRepo: pointTransactionRepo,
		fraudRegistry:        fraudRegistry,
		roleVerifier:         roleVerifier,
		notifier:             notifier,
		leaderboard:          leaderboard,
	}
}

func (d *contestDomain) Create(
	ctx context.Context, req *model.CreateContestRequest,
) (*model.CreateContestResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty title")
	}

	if req.NumberOfWinners <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Number of winners must be positive")
	}

	if req.RewardPoints < 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow negative reward")
	}

	contest := &entity.Contest{
		Base:            entity.Base{ID: uuid.NewString()},
		Title:           req.Title,
		Description:     req.Description,
		CreatedBy:       xcontext.RequestUserID(ctx),
		Status:          entity.ContestActive,
		NumberOfWinners: req.NumberOfWinners,
		RewardPoints:    req.RewardPoints,
	}

	if err := d.contestRepo.Create(ctx, contest); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create contest: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateContestResponse{Contest: model.ConvertContest(contest)}, nil
}

func (d *contestDomain) Get(
	ctx context.Context, req *model.GetContestRequest,
) (*model.GetContestResponse, error) {
	contest, err := d.contestRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found contest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get contest: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetContestResponse{Contest: model.ConvertContest(contest)}
	if contest.Status == entity.ContestEnded {
		winners, err := d.contestRepo.GetWinners(ctx, contest.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get winners: %v", err)
			return nil, errorx.Unknown
		}

		resp.Winners = model.ConvertContestWinners(winners)
	}

	return resp, nil
}

func (d *contestDomain) GetList(
	ctx context.Context, req *model.GetContestsRequest,
) (*model.GetContestsResponse, error) {
	if req.Limit == 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (100)")
	}

	contests, err := d.contestRepo.GetList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get contest list: %v", err)
		return nil, errorx.Unknown
	}

	clientContests := []model.Contest{}
	for i := range contests {
		clientContests = append(clientContests, model.ConvertContest(&contests[i]))
	}

	return &model.GetContestsResponse{Contests: clientContests}, nil
}

func (d *contestDomain) Join(
	ctx context.Context, req *model.JoinContestRequest,
) (*model.JoinContestResponse, error) {
	contest, err := d.contestRepo.GetByID(ctx, req.ContestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found contest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get contest: %v", err)
		return nil, errorx.Unknown
	}

	if contest.Status != entity.ContestActive {
		return nil, errorx.New(errorx.Unavailable, "Contest already ended")
	}

	// Joining twice is a no-op, not an error.
	_, err = d.contestRepo.AddParticipant(ctx, &entity.ContestParticipant{
		ContestID: contest.ID,
		UserID:    xcontext.RequestUserID(ctx),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add participant: %v", err)
		return nil, errorx.Unknown
	}

	return &model.JoinContestResponse{}, nil
}

// End closes the contest, draws the winners uniformly at random, and pays
// the reward to each winner. The status flip is guarded on the active state,
// so even two racing end requests settle the payout exactly once.
func (d *contestDomain) End(
	ctx context.Context, req *model.EndContestRequest,
) (*model.EndContestResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	contest, err := d.contestRepo.GetByID(ctx, req.ContestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found contest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get contest: %v", err)
		return nil, errorx.Unknown
	}

	if contest.Status != entity.ContestActive {
		return nil, errorx.New(errorx.Unavailable, "Contest already ended")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.contestRepo.End(ctx, contest.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Contest already ended")
		}

		xcontext.Logger(ctx).Errorf("Cannot end contest: %v", err)
		return nil, errorx.Unknown
	}

	participants, err := d.contestRepo.GetParticipants(ctx, contest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participants: %v", err)
		return nil, errorx.Unknown
	}

	crypto.Shuffle(participants)
	numberOfWinners := math.MinInt(len(participants), contest.NumberOfWinners)

	winners := []entity.ContestWinner{}
	for i := 0; i < numberOfWinners; i++ {
		winner := entity.ContestWinner{
			ContestID: contest.ID,
			UserID:    participants[i].UserID,
			Rank:      i + 1,
		}

		if err := d.contestRepo.CreateWinner(ctx, &winner); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create winner: %v", err)
			return nil, errorx.Unknown
		}

		if contest.RewardPoints > 0 {
			_, err = ensureWallet(
				ctx, d.walletRepo, d.pointTransactionRepo, d.fraudRegistry, winner.UserID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot setup winner wallet: %v", err)
				return nil, errorx.Unknown
			}

			if err := d.walletRepo.Add(ctx, winner.UserID, 0, contest.RewardPoints); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot credit winner wallet: %v", err)
				return nil, errorx.Unknown
			}

			err = recordPointTransaction(ctx, d.pointTransactionRepo,
				"", winner.UserID, entity.TransactionContestReward, contest.RewardPoints,
				fmt.Sprintf("Reward of contest %s", contest.Title))
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot record reward transaction: %v", err)
				return nil, errorx.Unknown
			}
		}

		winners = append(winners, winner)
	}

	xcontext.WithCommitDBTransaction(ctx)

	for _, winner := range winners {
		d.notifier.Notify(ctx, winner.UserID, entity.NotificationContestWon,
			"You won a contest",
			fmt.Sprintf("You won %d points in contest %s", contest.RewardPoints, contest.Title))

		if contest.RewardPoints > 0 {
			err := d.leaderboard.ChangeEarnedLeaderboard(
				ctx, contest.RewardPoints, time.Now(), winner.UserID)
			if err != nil {
				xcontext.Logger(ctx).Warnf("Cannot update leaderboard: %v", err)
			}
		}
	}

	return &model.EndContestResponse{Winners: model.ConvertContestWinners(winners)}, nil
}
