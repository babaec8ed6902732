package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/socdash/socdash/internal/accounts"
	"github.com/socdash/socdash/internal/app"
	"github.com/socdash/socdash/internal/mail"
	"github.com/socdash/socdash/internal/platform/db"
	"github.com/socdash/socdash/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	mailer := mail.New(mail.Config{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}, logger)

	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	// The worker only needs the expiry side of the accounts service; the
	// scheduler and mailer wiring match the API server so behavior is
	// identical wherever a task runs.
	accountsRepo := accounts.NewRepository(pool)
	accountsService := accounts.NewService(accountsRepo, mailer, jobClient, logger, accounts.ServiceConfig{
		ActivationURL: cfg.ActivationURL,
		TrialDuration: cfg.TrialDuration,
		TrialRole:     cfg.TrialRole,
	})

	trialJob := jobs.NewTrialExpiryJob(accountsService, jobClient, logger)
	mailJob := jobs.NewSendEmailJob(mailer, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeTrialExpire, Handler: trialJob.Handle},
			{Type: jobs.TaskTypeSendEmail, Handler: mailJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
