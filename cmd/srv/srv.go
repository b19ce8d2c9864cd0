package main

import (
	"context"
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/modhub-lab/backend/config"
	"github.com/modhub-lab/backend/internal/common"
	"github.com/modhub-lab/backend/internal/domain"
	"github.com/modhub-lab/backend/internal/domain/notification"
	"github.com/modhub-lab/backend/internal/domain/statistic"
	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/kafka"
	"github.com/modhub-lab/backend/pkg/logger"
	"github.com/modhub-lab/backend/pkg/pubsub"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"github.com/modhub-lab/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	userRepo             repository.UserRepository
	walletRepo           repository.WalletRepository
	fraudRecordRepo      repository.FraudRecordRepository
	contentRepo          repository.ContentRepository
	viewLogRepo          repository.ViewLogRepository
	reactionRepo         repository.ReactionRepository
	ratingRepo           repository.RatingRepository
	contestRepo          repository.ContestRepository
	purchaseReceiptRepo  repository.PurchaseReceiptRepository
	pointTransactionRepo repository.PointTransactionRepository
	notificationRepo     repository.NotificationRepository

	fraudRegistry domain.FraudRegistry
	roleVerifier  *common.GlobalRoleVerifier
	notifier      *notification.Notifier
	leaderboard   statistic.Leaderboard
	publisher     pubsub.Publisher
	redisClient   xredis.Client

	userDomain         domain.UserDomain
	walletDomain       domain.WalletDomain
	contentDomain      domain.ContentDomain
	viewDomain         domain.ViewDomain
	reactionDomain     domain.ReactionDomain
	ratingDomain       domain.RatingDomain
	contestDomain      domain.ContestDomain
	purchaseDomain     domain.PurchaseDomain
	notificationDomain domain.NotificationDomain
	statisticDomain    domain.StatisticDomain
}

func (s *srv) loadConfig() {
	economy, err := config.LoadEconomyConfigs(os.Getenv("ECONOMY_CONFIG"))
	if err != nil {
		panic(err)
	}

	snowflakeNodeID, _ := strconv.ParseInt(getEnv("SNOWFLAKE_NODE_ID", "0"), 10, 64)

	cfg := config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "modhub"),
			User:     getEnv("MYSQL_USER", "modhub"),
			Password: getEnv("MYSQL_PASSWORD", "secret"),
			LogLevel: getEnv("DATABASE_LOG_LEVEL", "error"),
		},
		Redis:        config.RedisConfigs{Addr: getEnv("REDIS_ADDR", "localhost:6379")},
		Kafka:        config.KafkaConfigs{Addr: getEnv("KAFKA_ADDR", "localhost:9092")},
		Notification: config.NotificationConfigs{Topic: getEnv("NOTIFICATION_TOPIC", "notifications")},
		SnowFlake:    config.SnowFlakeConfigs{NodeID: snowflakeNodeID},
		Economy:      economy,
	}

	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if xcontext.Configs(s.ctx).Env == "local" {
		level = logger.DEBUG
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadSnowFlake() {
	node, err := snowflake.NewNode(xcontext.Configs(s.ctx).SnowFlake.NodeID)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) loadDatabase() {
	db, err := gorm.Open(
		mysql.Open(xcontext.Configs(s.ctx).Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx)
	s.publisher = kafka.NewPublisher(uuid.NewString(), []string{cfg.Kafka.Addr})
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.walletRepo = repository.NewWalletRepository()
	s.fraudRecordRepo = repository.NewFraudRecordRepository()
	s.contentRepo = repository.NewContentRepository()
	s.viewLogRepo = repository.NewViewLogRepository()
	s.reactionRepo = repository.NewReactionRepository()
	s.ratingRepo = repository.NewRatingRepository()
	s.contestRepo = repository.NewContestRepository()
	s.purchaseReceiptRepo = repository.NewPurchaseReceiptRepository()
	s.pointTransactionRepo = repository.NewPointTransactionRepository()
	s.notificationRepo = repository.NewNotificationRepository()
}

func (s *srv) loadDomains() {
	s.fraudRegistry = domain.NewFraudRegistry(s.fraudRecordRepo)
	s.roleVerifier = common.NewGlobalRoleVerifier(s.userRepo)
	s.notifier = notification.NewNotifier(s.notificationRepo, s.publisher)
	s.leaderboard = statistic.New(s.pointTransactionRepo, s.redisClient)

	s.userDomain = domain.NewUserDomain(
		s.userRepo, s.walletRepo, s.pointTransactionRepo, s.fraudRegistry)
	s.walletDomain = domain.NewWalletDomain(
		s.walletRepo, s.userRepo, s.pointTransactionRepo,
		s.fraudRegistry, s.roleVerifier, s.notifier, s.leaderboard)
	s.contentDomain = domain.NewContentDomain(s.contentRepo, s.userRepo, s.purchaseReceiptRepo)
	s.viewDomain = domain.NewViewDomain(
		s.contentRepo, s.viewLogRepo, s.walletRepo, s.pointTransactionRepo,
		s.fraudRegistry, s.leaderboard)
	s.reactionDomain = domain.NewReactionDomain(s.reactionRepo, s.contentRepo)
	s.ratingDomain = domain.NewRatingDomain(s.ratingRepo, s.contentRepo)
	s.contestDomain = domain.NewContestDomain(
		s.contestRepo, s.walletRepo, s.pointTransactionRepo,
		s.fraudRegistry, s.roleVerifier, s.notifier, s.leaderboard)
	s.purchaseDomain = domain.NewPurchaseDomain(
		s.purchaseReceiptRepo, s.contentRepo, s.userRepo, s.walletRepo,
		s.pointTransactionRepo, s.fraudRegistry, s.notifier, s.leaderboard)
	s.notificationDomain = domain.NewNotificationDomain(s.notificationRepo)
	s.statisticDomain = domain.NewStatisticDomain(s.leaderboard, s.userRepo)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}
