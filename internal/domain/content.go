package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/enum"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ContentDomain interface {
	Create(context.Context, *model.CreateContentRequest) (*model.CreateContentResponse, error)
	Get(context.Context, *model.GetContentRequest) (*model.GetContentResponse, error)
	GetList(context.Context, *model.GetContentsRequest) (*model.GetContentsResponse, error)
	RecordDownload(context.Context, *model.RecordDownloadRequest) (*model.RecordDownloadResponse, error)
}

type contentDomain struct {
	contentRepo         repository.ContentRepository
	userRepo            repository.UserRepository
	purchaseReceiptRepo repository.PurchaseReceiptRepository
}

func NewContentDomain(
	contentRepo repository.ContentRepository,
	userRepo repository.UserRepository,
	purchaseReceiptRepo repository.PurchaseReceiptRepository,
) *contentDomain {
	return &contentDomain{
		contentRepo:         contentRepo,
		userRepo:            userRepo,
		purchaseReceiptRepo: purchaseReceiptRepo,
	}
}

func (d *contentDomain) Create(
	ctx context.Context, req *model.CreateContentRequest,
) (*model.CreateContentResponse, error) {
	contentType, err := enum.ToEnum[entity.ContentType](req.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid content type %s", req.Type)
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty title")
	}

	if req.Price < 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow negative price")
	}

	creatorID := xcontext.RequestUserID(ctx)
	creator, err := d.userRepo.GetByID(ctx, creatorID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get creator: %v", err)
		return nil, errorx.Unknown
	}

	content := &entity.Content{
		Base:        entity.Base{ID: uuid.NewString()},
		CreatorID:   creatorID,
		Type:        contentType,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	}

	if err := d.contentRepo.Create(ctx, content); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create content: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateContentResponse{
		Content: model.ConvertContent(content, model.ConvertUser(creator, false)),
	}, nil
}

func (d *contentDomain) Get(
	ctx context.Context, req *model.GetContentRequest,
) (*model.GetContentResponse, error) {
	content, err := d.contentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot get content: %v", err)
		return nil, errorx.Unknown
	}

	creator, err := d.userRepo.GetByID(ctx, content.CreatorID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get creator: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetContentResponse(model.ConvertContent(content, model.ConvertUser(creator, false)))
	return &resp, nil
}

func (d *contentDomain) GetList(
	ctx context.Context, req *model.GetContentsRequest,
) (*model.GetContentsResponse, error) {
	if req.Limit == 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (100)")
	}

	filter := repository.GetListContentFilter{
		CreatorID: req.CreatorID,
		Offset:    req.Offset,
		Limit:     req.Limit,
	}

	if req.Type != "" {
		contentType, err := enum.ToEnum[entity.ContentType](req.Type)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid content type %s", req.Type)
		}

		filter.Type = contentType
	}

	contents, err := d.contentRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get content list: %v", err)
		return nil, errorx.Unknown
	}

	creators := map[string]model.User{}
	clientContents := []model.Content{}
	for i := range contents {
		creator, ok := creators[contents[i].CreatorID]
		if !ok {
			creatorUser, err := d.userRepo.GetByID(ctx, contents[i].CreatorID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get creator %s: %v", contents[i].CreatorID, err)
				return nil, errorx.Unknown
			}

			creator = model.ConvertUser(creatorUser, false)
			creators[contents[i].CreatorID] = creator
		}

		clientContents = append(clientContents, model.ConvertContent(&contents[i], creator))
	}

	return &model.GetContentsResponse{Contents: clientContents}, nil
}

func (d *contentDomain) RecordDownload(
	ctx context.Context, req *model.RecordDownloadRequest,
) (*model.RecordDownloadResponse, error) {
	content, err := d.contentRepo.GetByID(ctx, req.ContentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot get content: %v", err)
		return nil, errorx.Unknown
	}

	requestUserID := xcontext.RequestUserID(ctx)
	if content.Price > 0 && requestUserID != content.CreatorID {
		_, err := d.purchaseReceiptRepo.GetByBuyerAndContent(ctx, requestUserID, content.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.PermissionDenied, "You have not purchased this content")
			}

			xcontext.Logger(ctx).Errorf("Cannot get receipt: %v", err)
			return nil, errorx.Unknown
		}
	}

	if err := d.contentRepo.IncreaseDownloads(ctx, content.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase downloads: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RecordDownloadResponse{}, nil
}
