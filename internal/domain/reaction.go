package domain

import (
	"context"
	"errors"

	"github.com/modhub-lab/backend/internal/common"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/enum"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ReactionDomain interface {
	Toggle(context.Context, *model.ToggleReactionRequest) (*model.ToggleReactionResponse, error)
}

type reactionDomain struct {
	reactionRepo repository.ReactionRepository
	contentRepo  repository.ContentRepository
}

func NewReactionDomain(
	reactionRepo repository.ReactionRepository,
	contentRepo repository.ContentRepository,
) *reactionDomain {
	return &reactionDomain{reactionRepo: reactionRepo, contentRepo: contentRepo}
}

// Toggle applies one like or dislike press. Pressing the current reaction
// removes it, pressing the other one switches it. The counters move in the
// same transaction as the reaction row, so they always agree with the row
// set, no matter how the presses interleave.
func (d *reactionDomain) Toggle(
	ctx context.Context, req *model.ToggleReactionRequest,
) (*model.ToggleReactionResponse, error) {
	reactionType, err := enum.ToEnum[entity.ReactionType](req.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid reaction type %s", req.Type)
	}

	_, err = d.contentRepo.GetByID(ctx, req.ContentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot get content: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)

	var active bool
	err = common.WithRetry(ctx, func(ctx context.Context) error {
		ctx = xcontext.WithDBTransaction(ctx)
		defer xcontext.WithRollbackDBTransaction(ctx)

		current, err := d.reactionRepo.Get(ctx, req.ContentID, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get reaction: %v", err)
			return errorx.Unknown
		}

		var likeDelta, dislikeDelta int64
		switch {
		case current == nil:
			created, err := d.reactionRepo.Create(ctx, &entity.Reaction{
				ContentID: req.ContentID,
				UserID:    userID,
				Type:      reactionType,
			})
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot create reaction: %v", err)
				return errorx.Unknown
			}

			if !created {
				return common.ErrStateConflict
			}

			active = true
			likeDelta, dislikeDelta = reactionDeltas(reactionType, 1)

		case current.Type == reactionType:
			deleted, err := d.reactionRepo.DeleteOfType(ctx, req.ContentID, userID, reactionType)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot delete reaction: %v", err)
				return errorx.Unknown
			}

			if !deleted {
				return common.ErrStateConflict
			}

			active = false
			likeDelta, dislikeDelta = reactionDeltas(reactionType, -1)

		default:
			switched, err := d.reactionRepo.SwitchType(
				ctx, req.ContentID, userID, current.Type, reactionType)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot switch reaction: %v", err)
				return errorx.Unknown
			}

			if !switched {
				return common.ErrStateConflict
			}

			active = true
			newLikes, newDislikes := reactionDeltas(reactionType, 1)
			oldLikes, oldDislikes := reactionDeltas(current.Type, -1)
			likeDelta, dislikeDelta = newLikes+oldLikes, newDislikes+oldDislikes
		}

		err = d.contentRepo.AddReactions(ctx, req.ContentID, likeDelta, dislikeDelta)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot adjust reaction counters: %v", err)
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

	return &model.ToggleReactionResponse{Active: active}, nil
}

func reactionDeltas(typ entity.ReactionType, delta int64) (likes, dislikes int64) {
	if typ == entity.ReactionLike {
		return delta, 0
	}

	return 0, delta
}
