package repository

import (
	"context"
	"errors"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type GetListContentFilter struct {
	Type      entity.ContentType
	CreatorID string
	Offset    int
	Limit     int
}

type ContentRepository interface {
	Create(ctx context.Context, data *entity.Content) error
	GetByID(ctx context.Context, id string) (*entity.Content, error)
	GetList(ctx context.Context, filter GetListContentFilter) ([]entity.Content, error)

	// IncreaseViews bumps the repeat-view counter, and the unique one too
	// when the caller just logged a first view of this identity.
	IncreaseViews(ctx context.Context, id string, unique bool) error
	IncreaseDownloads(ctx context.Context, id string) error

	// AddReactions shifts the like/dislike counters by the given deltas.
	AddReactions(ctx context.Context, id string, likes, dislikes int64) error

	// ApplyRating commits new rating aggregates only if the current ones
	// still match the values the caller read. A failed guard means a
	// concurrent rating won, and the caller must retry.
	ApplyRating(ctx context.Context, id string, read RatingAggregates, next RatingAggregates) error
}

type RatingAggregates struct {
	Count   int64
	Total   int64
	Average float64
}

type contentRepository struct{}

func NewContentRepository() *contentRepository {
	return &contentRepository{}
}

func (r *contentRepository) Create(ctx context.Context, data *entity.Content) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (*entity.Content, error) {
	var result entity.Content
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *contentRepository) GetList(
	ctx context.Context, filter GetListContentFilter,
) ([]entity.Content, error) {
	tx := xcontext.DB(ctx).Model(&entity.Content{})

	if filter.Type != "" {
		tx = tx.Where("type=?", filter.Type)
	}

	if filter.CreatorID != "" {
		tx = tx.Where("creator_id=?", filter.CreatorID)
	}

	if filter.Limit > 0 {
		tx = tx.Offset(filter.Offset).Limit(filter.Limit)
	}

	var result []entity.Content
	if err := tx.Order("created_at DESC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *contentRepository) IncreaseViews(ctx context.Context, id string, unique bool) error {
	updateMap := map[string]any{
		"views": gorm.Expr("views+1"),
	}

	if unique {
		updateMap["unique_views"] = gorm.Expr("unique_views+1")
	}

	tx := xcontext.DB(ctx).
		Model(&entity.Content{}).
		Where("id=?", id).
		Updates(updateMap)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *contentRepository) IncreaseDownloads(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Content{}).
		Where("id=?", id).
		Update("downloads", gorm.Expr("downloads+1"))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *contentRepository) AddReactions(
	ctx context.Context, id string, likes, dislikes int64,
) error {
	updateMap := map[string]any{}
	if likes != 0 {
		updateMap["likes"] = gorm.Expr("likes+?", likes)
	}

	if dislikes != 0 {
		updateMap["dislikes"] = gorm.Expr("dislikes+?", dislikes)
	}

	if len(updateMap) == 0 {
		return nil
	}

	tx := xcontext.DB(ctx).
		Model(&entity.Content{}).
		Where("id=?", id).
		Updates(updateMap)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *contentRepository) ApplyRating(
	ctx context.Context, id string, read RatingAggregates, next RatingAggregates,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Content{}).
		Where("id=? AND rating_count=? AND total_rating_score=?", id, read.Count, read.Total).
		Updates(map[string]any{
			"rating_count":       next.Count,
			"total_rating_score": next.Total,
			"average_rating":     next.Average,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
