package model

type CreateContestRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	NumberOfWinners int    `json:"number_of_winners"`
	RewardPoints    int64  `json:"reward_points"`
}

type CreateContestResponse struct {
	Contest Contest `json:"contest"`
}

type GetContestRequest struct {
	ID string `json:"id"`
}

type GetContestResponse struct {
	Contest Contest         `json:"contest"`
	Winners []ContestWinner `json:"winners,omitempty"`
}

type GetContestsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetContestsResponse struct {
	Contests []Contest `json:"contests"`
}

type JoinContestRequest struct {
	ContestID string `json:"contest_id"`
}

type JoinContestResponse struct{}

type EndContestRequest struct {
	ContestID string `json:"contest_id"`
}

type EndContestResponse struct {
	Winners []ContestWinner `json:"winners"`
}
