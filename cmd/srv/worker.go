package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/modhub-lab/backend/internal/domain/notification"
	"github.com/modhub-lab/backend/pkg/kafka"
	"github.com/modhub-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startWorker(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()

	cfg := xcontext.Configs(s.ctx)
	subscriber := kafka.NewSubscriber(
		"notification-worker",
		[]string{cfg.Kafka.Addr},
		[]string{cfg.Notification.Topic},
		notification.NewEventHandler().Handle,
	)

	subscriber.Subscribe(s.ctx)
	xcontext.Logger(s.ctx).Infof("Notification worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return subscriber.Stop(s.ctx)
}
