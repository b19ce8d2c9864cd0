package domain

import (
	"testing"

	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_ratingDomain_Rate(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	contentRepo := repository.NewContentRepository()
	d := NewRatingDomain(repository.NewRatingRepository(), contentRepo)

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := d.Rate(userCtx, &model.RateContentRequest{
		ContentID: testutil.Content1.ID,
		Score:     3,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.RatingCount)
	require.Equal(t, 3.0, resp.AverageRating)

	// Re-rating replaces the previous score instead of adding a second one.
	resp, err = d.Rate(userCtx, &model.RateContentRequest{
		ContentID: testutil.Content1.ID,
		Score:     5,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.RatingCount)
	require.Equal(t, 5.0, resp.AverageRating)

	// The same score again is a no-op.
	resp, err = d.Rate(userCtx, &model.RateContentRequest{
		ContentID: testutil.Content1.ID,
		Score:     5,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.RatingCount)
	require.Equal(t, 5.0, resp.AverageRating)

	// A second rater extends the aggregates.
	otherCtx := testutil.MockContextWithUserID(ctx, testutil.Admin.ID)
	resp, err = d.Rate(otherCtx, &model.RateContentRequest{
		ContentID: testutil.Content1.ID,
		Score:     4,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.RatingCount)
	require.Equal(t, 4.5, resp.AverageRating)

	content, err := contentRepo.GetByID(ctx, testutil.Content1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), content.RatingCount)
	require.Equal(t, int64(9), content.TotalRatingScore)
	require.Equal(t, 4.5, content.AverageRating)
}

func Test_ratingDomain_Rate_validation(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := NewRatingDomain(repository.NewRatingRepository(), repository.NewContentRepository())

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)

	_, err := d.Rate(userCtx, &model.RateContentRequest{ContentID: testutil.Content1.ID, Score: 0})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.Rate(userCtx, &model.RateContentRequest{ContentID: testutil.Content1.ID, Score: 6})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.Rate(userCtx, &model.RateContentRequest{ContentID: "no-such-content", Score: 3})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func Test_roundAverage(t *testing.T) {
	require.Equal(t, 0.0, roundAverage(0, 0))
	require.Equal(t, 3.0, roundAverage(3, 1))
	require.Equal(t, 4.5, roundAverage(9, 2))
	require.Equal(t, 3.7, roundAverage(11, 3))
}
