package domain

import (
	"testing"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/model"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/errorx"
	"github.com/modhub-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestContentDomain() (*contentDomain, repository.ContentRepository) {
	contentRepo := repository.NewContentRepository()
	d := NewContentDomain(
		contentRepo,
		repository.NewUserRepository(),
		repository.NewPurchaseReceiptRepository(),
	)

	return d, contentRepo
}

func Test_contentDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, _ := newTestContentDomain()

	creatorCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := d.Create(creatorCtx, &model.CreateContentRequest{
		Type:        "mod",
		Title:       "My first mod",
		Description: "Adds a thing",
		Price:       10,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Content.ID)
	require.Equal(t, testutil.User1.ID, resp.Content.Creator.ID)

	got, err := d.Get(ctx, &model.GetContentRequest{ID: resp.Content.ID})
	require.NoError(t, err)
	require.Equal(t, "My first mod", got.Title)
	require.Equal(t, int64(10), got.Price)

	_, err = d.Create(creatorCtx, &model.CreateContentRequest{Type: "movie", Title: "x"})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.Create(creatorCtx, &model.CreateContentRequest{Type: "mod", Title: ""})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = d.Create(creatorCtx, &model.CreateContentRequest{Type: "mod", Title: "x", Price: -1})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_contentDomain_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, _ := newTestContentDomain()

	resp, err := d.GetList(ctx, &model.GetContentsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Contents, 2)

	resp, err = d.GetList(ctx, &model.GetContentsRequest{Type: "server"})
	require.NoError(t, err)
	require.Len(t, resp.Contents, 1)
	require.Equal(t, testutil.Content2.ID, resp.Contents[0].ID)

	resp, err = d.GetList(ctx, &model.GetContentsRequest{CreatorID: testutil.User1.ID})
	require.NoError(t, err)
	require.Empty(t, resp.Contents)

	_, err = d.GetList(ctx, &model.GetContentsRequest{Limit: 101})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_contentDomain_RecordDownload(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, contentRepo := newTestContentDomain()

	// Free content downloads without a receipt.
	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err := d.RecordDownload(userCtx, &model.RecordDownloadRequest{ContentID: testutil.Content1.ID})
	require.NoError(t, err)

	content, err := contentRepo.GetByID(ctx, testutil.Content1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), content.Downloads)

	// Paid content requires a purchase.
	_, err = d.RecordDownload(userCtx, &model.RecordDownloadRequest{ContentID: testutil.Content2.ID})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	// The creator downloads their own content freely.
	creatorCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = d.RecordDownload(creatorCtx, &model.RecordDownloadRequest{ContentID: testutil.Content2.ID})
	require.NoError(t, err)

	// A buyer with a receipt passes the gate.
	created, err := repository.NewPurchaseReceiptRepository().Create(ctx, &entity.PurchaseReceipt{
		Base:      entity.Base{ID: "receipt1"},
		BuyerID:   testutil.User1.ID,
		SellerID:  testutil.User2.ID,
		ContentID: testutil.Content2.ID,
		Price:     testutil.Content2.Price,
	})
	require.NoError(t, err)
	require.True(t, created)

	_, err = d.RecordDownload(userCtx, &model.RecordDownloadRequest{ContentID: testutil.Content2.ID})
	require.NoError(t, err)

	content, err = contentRepo.GetByID(ctx, testutil.Content2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), content.Downloads)
}
