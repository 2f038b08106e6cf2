package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"homework_notification_bot/internal/app"
	"homework_notification_bot/internal/infra/config"
	"homework_notification_bot/internal/infra/logger"
	"homework_notification_bot/internal/infra/practicum"
	"homework_notification_bot/internal/infra/scheduler"
	"homework_notification_bot/internal/infra/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		var missing *config.MissingError
		if errors.As(err, &missing) {
			for _, name := range missing.Names {
				logger.Log.WithField("variable", name).Error("Required environment variable is not set")
			}
		}
		stop()
		logger.Log.WithError(err).Fatal("Program stopped")
	}
}

func rootCmd() *cobra.Command {
	var (
		envFile string
		once    bool
	)

	cmd := &cobra.Command{
		Use:           "homework-bot",
		Short:         "Forward homework review status changes to Telegram",
		Long:          "homework-bot polls the Practicum homework statuses API and sends a Telegram message whenever the review status changes.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), envFile, once)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "load environment variables from this file instead of ./.env")
	cmd.Flags().BoolVar(&once, "once", false, "run a single poll cycle and exit")

	return cmd
}

func run(ctx context.Context, envFile string, once bool) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg); err != nil {
		return err
	}
	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"schedule":    cfg.PollSchedule,
		"endpoint":    cfg.PracticumEndpoint,
	}).Info("Configuration loaded")

	pacer := scheduler.NewPacer(cfg.PollInterval)

	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramAPIURL, nil)
	if err != nil {
		return err
	}
	tgClient := telegram.NewTelebotAdapter(bot, cfg.TelegramChatID, cfg.TelegramRatePerSec, logger.Component("telegram"))
	apiClient := practicum.NewClient(cfg.PracticumEndpoint, cfg.PracticumToken, cfg.APITimeout)

	svc := app.NewPollService(apiClient, tgClient, pacer, logger.Component("poll"), time.Now().Unix())

	if once {
		err = svc.Cycle(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	if err := svc.Run(ctx); err != nil {
		return err
	}
	mainLogger.Info("Shutting down")
	return nil
}
