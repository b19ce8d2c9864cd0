package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "ModHub"
	app.Usage = "Points economy backend of the ModHub platform"
	app.Commands = []*cli.Command{
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database tables",
			Category:    "Database",
			Description: `Creates or updates every table the backend needs.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Runs the recurring jobs, currently the platform owner grant.`,
		},
		{
			Action:      s.startWorker,
			Name:        "worker",
			Usage:       "Start notification worker",
			Category:    "Worker",
			Description: `Consumes notification events from the message queue and delivers them.`,
		},
	}

	s.app = app
}
