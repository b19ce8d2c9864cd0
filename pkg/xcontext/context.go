package xcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/modhub-lab/backend/config"
	"github.com/modhub-lab/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey   struct{}
	loggerKey    struct{}
	dbKey        struct{}
	snowflakeKey struct{}
	userIDKey    struct{}
	remoteIPKey  struct{}
	deviceIDKey  struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	return ctx.Value(configsKey{}).(config.Configs)
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	return ctx.Value(loggerKey{}).(logger.Logger)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the database transaction of this context if it began one,
// otherwise the root database handler.
func DB(ctx context.Context) *gorm.DB {
	if holder := currentTransaction(ctx); holder != nil && !holder.done {
		return holder.tx
	}

	return ctx.Value(dbKey{}).(*gorm.DB)
}

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	return ctx.Value(snowflakeKey{}).(*snowflake.Node)
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, ok := ctx.Value(userIDKey{}).(string)
	if !ok {
		return ""
	}

	return id
}

func WithRequestRemoteIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, remoteIPKey{}, ip)
}

func RequestRemoteIP(ctx context.Context) string {
	ip, ok := ctx.Value(remoteIPKey{}).(string)
	if !ok {
		return ""
	}

	return ip
}

func WithRequestDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, deviceIDKey{}, deviceID)
}

func RequestDeviceID(ctx context.Context) string {
	deviceID, ok := ctx.Value(deviceIDKey{}).(string)
	if !ok {
		return ""
	}

	return deviceID
}
