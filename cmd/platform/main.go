package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/royalcarriage/platform/internal/aichat"
	"github.com/royalcarriage/platform/internal/app"
	"github.com/royalcarriage/platform/internal/auth"
	"github.com/royalcarriage/platform/internal/content"
	"github.com/royalcarriage/platform/internal/genai"
	"github.com/royalcarriage/platform/internal/imports"
	"github.com/royalcarriage/platform/internal/observability"
	"github.com/royalcarriage/platform/internal/platform/cache"
	"github.com/royalcarriage/platform/internal/platform/db"
	"github.com/royalcarriage/platform/internal/rbac"
	"github.com/royalcarriage/platform/internal/seo"
	"github.com/royalcarriage/platform/internal/shared"
	"github.com/royalcarriage/platform/internal/users"
	"github.com/royalcarriage/platform/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	tokenStore := auth.NewTokenStore(redisClient, "platform_token", cfg.TokenTTL)
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokenStore)
	authHandler := auth.NewHandler(logger, authService)
	authMiddleware := &auth.Middleware{Service: authService, Logger: logger}
	rbacMiddleware := rbac.Middleware{Logger: logger}

	auditLogger := shared.NewAuditLogger(dbpool)
	metrics := observability.NewMetrics()

	queueClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	monitor := jobs.NewMonitor(inspector)
	jobsHandler := jobs.NewHandler(monitor, logger)

	llmClient := genai.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	genaiHandler := genai.NewHandler(logger, llmClient)

	contentRepo := content.NewPGRepository(dbpool)
	contentService := content.NewService(contentRepo, queueClient, monitor, llmClient, logger, cfg.ContentQueueMaxPending)
	contentHandler := content.NewHandler(logger, contentService, auditLogger)

	seoHandler := seo.NewHandler(logger)

	chatExecutor := aichat.NewPGExecutor(dbpool)
	chatHandler := aichat.NewHandler(logger, chatExecutor)

	usersRepo := users.NewPGRepository(dbpool)
	usersService := users.NewService(usersRepo, logger)
	usersHandler := users.NewHandler(logger, usersService)

	importsRepo := imports.NewPGRepository(dbpool)
	importsService := imports.NewService(importsRepo, logger)
	importsHandler := imports.NewHandler(logger, importsService)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		AuthMiddleware: authMiddleware,
		RBACMiddleware: rbacMiddleware,
		AuthHandler:    authHandler,
		AIChatHandler:  chatHandler,
		ContentHandler: contentHandler,
		GenAIHandler:   genaiHandler,
		SEOHandler:     seoHandler,
		UsersHandler:   usersHandler,
		ImportsHandler: importsHandler,
		JobsHandler:    jobsHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
