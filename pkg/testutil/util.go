package testutil

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/modhub-lab/backend/config"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/pkg/logger"
	"github.com/modhub-lab/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// Every sqlite :memory: connection is its own database; pin the pool to
	// one connection so concurrent sessions see the same data.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Configs{
		Env:     "testing",
		Economy: config.DefaultEconomyConfigs(),
		Notification: config.NotificationConfigs{
			Topic: "notifications",
		},
	}

	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}
