package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/socdash/socdash/internal/accounts"
	"github.com/socdash/socdash/internal/app"
	"github.com/socdash/socdash/internal/auth"
	"github.com/socdash/socdash/internal/mail"
	"github.com/socdash/socdash/internal/platform/cache"
	"github.com/socdash/socdash/internal/platform/db"
	"github.com/socdash/socdash/internal/prtg"
	"github.com/socdash/socdash/internal/sensors"
	"github.com/socdash/socdash/internal/userlog"
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	mailer := mail.New(mail.Config{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}, logger)

	accountsRepo := accounts.NewRepository(pool)
	accountsService := accounts.NewService(accountsRepo, mailer, jobClient, logger, accounts.ServiceConfig{
		ActivationURL: cfg.ActivationURL,
		TrialDuration: cfg.TrialDuration,
		TrialRole:     cfg.TrialRole,
	})
	accountsHandler := accounts.NewHandler(logger, accountsService)

	logService := userlog.NewService(userlog.NewRepository(pool))
	logHandler := userlog.NewHandler(logger, logService)

	authService := auth.NewService(auth.NewRepository(pool))
	authHandler := auth.NewHandler(logger, authService, logService)

	prtgClient := prtg.NewClient(cfg.PRTGHost, cfg.PRTGUsername, cfg.PRTGPasshash)
	prtgCache := prtg.NewTableCache(redisClient, cfg.PRTGCacheTTL, logger)
	prtgHandler := prtg.NewHandler(logger, prtgClient, prtgCache)

	sensorsHandler := sensors.NewHandler(logger, sensors.NewRepository(pool))

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthHandler:     authHandler,
		AccountsHandler: accountsHandler,
		UserLogHandler:  logHandler,
		PRTGHandler:     prtgHandler,
		SensorsHandler:  sensorsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server", slog.Any("error", err))
		os.Exit(1)
	}
}
