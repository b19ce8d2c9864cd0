package statistic

import (
	"context"
	"time"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"github.com/modhub-lab/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

// Leaderboard ranks users by earned points per calendar period. The redis
// sorted set is a cache over the point transaction log; it is rebuilt lazily
// on a miss and incremented best-effort on every earn.
type Leaderboard interface {
	GetLeaderBoard(
		ctx context.Context,
		period entity.LeaderBoardPeriodType,
		offset, limit int,
	) ([]model.UserStatistic, error)

	GetRank(
		ctx context.Context,
		userID string,
		period entity.LeaderBoardPeriodType,
	) (uint64, error)

	ChangeEarnedLeaderboard(
		ctx context.Context,
		value int64,
		earnedAt time.Time,
		userID string,
	) error
}

type leaderboard struct {
	pointTransactionRepo repository.PointTransactionRepository
	redisClient          xredis.Client
}

func New(
	pointTransactionRepo repository.PointTransactionRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{pointTransactionRepo: pointTransactionRepo, redisClient: redisClient}
}

func (l *leaderboard) GetLeaderBoard(
	ctx context.Context,
	period entity.LeaderBoardPeriodType,
	offset, limit int,
) ([]model.UserStatistic, error) {
	key := redisKeyEarnedLeaderBoard(period)

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return nil, errorx.Unknown
	}

	// If the key didn't exist in redis, load it from database.
	if !ok {
		if err := l.loadLeaderboardFromDB(ctx, period); err != nil {
			return nil, err
		}
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	board := []model.UserStatistic{}
	for i, z := range results {
		board = append(board, model.UserStatistic{
			User:        model.User{ID: z.Member.(string)},
			Value:       int64(z.Score),
			CurrentRank: uint64(offset + i + 1),
		})
	}

	return board, nil
}

func (l *leaderboard) GetRank(
	ctx context.Context,
	userID string,
	period entity.LeaderBoardPeriodType,
) (uint64, error) {
	key := redisKeyEarnedLeaderBoard(period)

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return 0, errorx.Unknown
	}

	if !ok {
		if err := l.loadLeaderboardFromDB(ctx, period); err != nil {
			return 0, err
		}
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, userID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get rev rank redis: %v", err)
		return 0, nil
	}

	return rank + 1, nil
}

func (l *leaderboard) ChangeEarnedLeaderboard(
	ctx context.Context,
	value int64,
	earnedAt time.Time,
	userID string,
) error {
	for _, periodString := range []string{"week", "month"} {
		period, err := ToPeriodWithTime(periodString, earnedAt)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Invalid period: %v", err)
			return errorx.Unknown
		}

		if err := l.changeLeaderboard(ctx, value, userID, period); err != nil {
			return err
		}
	}

	return nil
}

func (l *leaderboard) changeLeaderboard(
	ctx context.Context,
	value int64,
	userID string,
	period entity.LeaderBoardPeriodType,
) error {
	key := redisKeyEarnedLeaderBoard(period)

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	// If the key didn't exist in redis, no need to update. The next read
	// rebuilds it from the transaction log anyway.
	if !ok {
		return nil
	}

	if err := l.redisClient.ZIncrBy(ctx, key, value, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
	}

	return nil
}

func (l *leaderboard) loadLeaderboardFromDB(
	ctx context.Context, period entity.LeaderBoardPeriodType,
) error {
	earned, err := l.pointTransactionRepo.SumEarnedByRecipient(ctx, period.Start(), period.End())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot aggregate earned points: %v", err)
		return errorx.Unknown
	}

	key := redisKeyEarnedLeaderBoard(period)
	for _, e := range earned {
		err := l.redisClient.ZAdd(ctx, key, redis.Z{
			Score:  float64(e.Points),
			Member: e.RecipientID,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call ZAdd redis: %v", err)
			return errorx.Unknown
		}
	}

	return nil
}
