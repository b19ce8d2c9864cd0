package statistic

import (
	"fmt"

	"github.com/modhub-lab/backend/internal/entity"
)

func redisKeyEarnedLeaderBoard(period entity.LeaderBoardPeriodType) string {
	return fmt.Sprintf("leaderboard:earned:%s", period.Period())
}
