package main

import (
	"github.com/modhub-lab/backend/internal/domain/cron"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadSnowFlake()
	s.loadDatabase()
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewOwnerGrantCronJob(
		s.userRepo, s.walletRepo, s.pointTransactionRepo, s.notifier))
	cronJobManager.Start(s.ctx)

	return nil
}
