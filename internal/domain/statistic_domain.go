package domain

import (
	"context"
	"errors"

	"github.com/modhub-lab/backend/internal/domain/statistic"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type StatisticDomain interface {
	GetLeaderBoard(context.Context, *model.GetLeaderBoardRequest) (*model.GetLeaderBoardResponse, error)
}

type statisticDomain struct {
	leaderboard statistic.Leaderboard
	userRepo    repository.UserRepository
}

func NewStatisticDomain(
	leaderboard statistic.Leaderboard,
	userRepo repository.UserRepository,
) *statisticDomain {
	return &statisticDomain{leaderboard: leaderboard, userRepo: userRepo}
}

func (d *statisticDomain) GetLeaderBoard(
	ctx context.Context, req *model.GetLeaderBoardRequest,
) (*model.GetLeaderBoardResponse, error) {
	if req.Limit == 0 {
		req.Limit = 10
	}

	if req.Limit > 50 {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (50)")
	}

	period, err := statistic.ToPeriod(req.Period)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid period, expected week or month")
	}

	board, err := d.leaderboard.GetLeaderBoard(ctx, period, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	for i := range board {
		user, err := d.userRepo.GetByID(ctx, board[i].User.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}

			xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", board[i].User.ID, err)
			return nil, errorx.Unknown
		}

		board[i].User = model.ConvertUser(user, false)
	}

	return &model.GetLeaderBoardResponse{LeaderBoard: board}, nil
}
