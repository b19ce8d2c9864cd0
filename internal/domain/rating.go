package domain

import (
	"context"
	"errors"
	"math"

	"github.com/modhub-lab/backend/internal/common"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RatingDomain interface {
	Rate(context.Context, *model.RateContentRequest) (*model.RateContentResponse, error)
}

type ratingDomain struct {
	ratingRepo  repository.RatingRepository
	contentRepo repository.ContentRepository
}

func NewRatingDomain(
	ratingRepo repository.RatingRepository,
	contentRepo repository.ContentRepository,
) *ratingDomain {
	return &ratingDomain{ratingRepo: ratingRepo, contentRepo: contentRepo}
}

// Rate upserts the caller's score of a content. A first rating extends the
// aggregates, a replaced rating adjusts the total by the score delta. The
// aggregates are committed against the exact values read in the same
// transaction, so two concurrent ratings can never both count from the same
// base.
func (d *ratingDomain) Rate(
	ctx context.Context, req *model.RateContentRequest,
) (*model.RateContentResponse, error) {
	if req.Score < entity.MinRatingScore || req.Score > entity.MaxRatingScore {
		return nil, errorx.New(errorx.BadRequest,
			"Score must be between %d and %d", entity.MinRatingScore, entity.MaxRatingScore)
	}

	userID := xcontext.RequestUserID(ctx)

	var resp *model.RateContentResponse
	err := common.WithRetry(ctx, func(ctx context.Context) error {
		ctx = xcontext.WithDBTransaction(ctx)
		defer xcontext.WithRollbackDBTransaction(ctx)

		content, err := d.contentRepo.GetByID(ctx, req.ContentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errorx.New(errorx.NotFound, "Not found content")
			}

			xcontext.Logger(ctx).Errorf("Cannot get content: %v", err)
			return errorx.Unknown
		}

		read := repository.RatingAggregates{
			Count:   content.RatingCount,
			Total:   content.TotalRatingScore,
			Average: content.AverageRating,
		}

		current, err := d.ratingRepo.Get(ctx, req.ContentID, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get rating: %v", err)
			return errorx.Unknown
		}

		next := read
		switch {
		case current == nil:
			created, err := d.ratingRepo.Create(ctx, &entity.Rating{
				ContentID: req.ContentID,
				UserID:    userID,
				Score:     req.Score,
			})
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot create rating: %v", err)
				return errorx.Unknown
			}

			if !created {
				return common.ErrStateConflict
			}

			next.Count = read.Count + 1
			next.Total = read.Total + int64(req.Score)

		case current.Score == req.Score:
			// Same score again, nothing to adjust.
			xcontext.WithCommitDBTransaction(ctx)
			resp = &model.RateContentResponse{
				RatingCount:   read.Count,
				AverageRating: read.Average,
			}
			return nil

		default:
			updated, err := d.ratingRepo.UpdateScore(
				ctx, req.ContentID, userID, current.Score, req.Score)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot update rating: %v", err)
				return errorx.Unknown
			}

			if !updated {
				return common.ErrStateConflict
			}

			next.Total = read.Total + int64(req.Score-current.Score)
		}

		next.Average = roundAverage(next.Total, next.Count)

		err = d.contentRepo.ApplyRating(ctx, req.ContentID, read, next)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrStateConflict
			}

			xcontext.Logger(ctx).Errorf("Cannot apply rating aggregates: %v", err)
			return errorx.Unknown
		}

		xcontext.WithCommitDBTransaction(ctx)
		resp = &model.RateContentResponse{
			RatingCount:   next.Count,
			AverageRating: next.Average,
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, common.ErrStateConflict) {
			return nil, errorx.New(errorx.TooManyRequests, "Too many requests, please try again")
		}

		return nil, err
	}

	return resp, nil
}

// roundAverage keeps one decimal, the precision the client displays.
func roundAverage(total, count int64) float64 {
	if count == 0 {
		return 0
	}

	return math.Round(float64(total)/float64(count)*10) / 10
}
