package testutil

import (
	"context"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/pkg/xcontext"
)

var (
	User1 = entity.User{
		Base:   entity.Base{ID: "user1"},
		Name:   "user1",
		Handle: 1001,
		Role:   entity.RoleUser,
	}

	User2 = entity.User{
		Base:   entity.Base{ID: "user2"},
		Name:   "user2",
		Handle: 1002,
		Role:   entity.RoleUser,
	}

	Admin = entity.User{
		Base:   entity.Base{ID: "admin"},
		Name:   "admin",
		Handle: 1003,
		Role:   entity.RoleAdmin,
	}

	Owner = entity.User{
		Base:            entity.Base{ID: "owner"},
		Name:            "owner",
		Handle:          1004,
		Role:            entity.RoleSuperAdmin,
		IsPlatformOwner: true,
	}

	Content1 = entity.Content{
		Base:      entity.Base{ID: "content1"},
		CreatorID: User2.ID,
		Type:      entity.ContentMod,
		Title:     "A free mod",
	}

	Content2 = entity.Content{
		Base:      entity.Base{ID: "content2"},
		CreatorID: User2.ID,
		Type:      entity.ContentServer,
		Title:     "A paid server pack",
		Price:     100,
	}
)

// CreateFixtureDb populates the mock database with the well-known users and
// contents above. Wallets are not created, so tests exercise the lazy
// backfill path by default.
func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertContents(ctx)
}

func InsertUsers(ctx context.Context) {
	for _, user := range []entity.User{User1, User2, Admin, Owner} {
		if err := xcontext.DB(ctx).Create(&user).Error; err != nil {
			panic(err)
		}
	}
}

func InsertContents(ctx context.Context) {
	for _, content := range []entity.Content{Content1, Content2} {
		if err := xcontext.DB(ctx).Create(&content).Error; err != nil {
			panic(err)
		}
	}
}
