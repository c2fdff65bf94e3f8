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

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	_ "playnote/backend/docs" // registers the swagger spec served at /swagger
	"playnote/backend/internal/auth"
	"playnote/backend/internal/config"
	"playnote/backend/internal/database"
	"playnote/backend/internal/handler"
	"playnote/backend/internal/logging"
	"playnote/backend/internal/repository"
	"playnote/backend/internal/validation"
	"playnote/backend/pkg/jwt"
)

// @title           PlayNote API
// @version         1.0
// @description     Games and their ratings.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logSink := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	slog.SetDefault(logger)

	sentryEnabled := cfg.SentryDSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			AttachStacktrace: true,
		}); err != nil {
			return err
		}
		defer sentry.Flush(2 * time.Second)
	}

	db, err := database.Open(database.Options{
		Driver:    cfg.DatabaseDriver,
		DSN:       cfg.DatabaseURL,
		LogWriter: logSink,
	})
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	if cfg.SeedDemoData {
		added, err := database.Seed(db)
		if err != nil {
			return err
		}
		logger.Info("seeded demo games", slog.Int("added", added))
	}

	credentials, err := auth.NewCredentialValidator(cfg.AuthUsersFile, cfg.AuthAllowPlaceholderLogin, logger)
	if err != nil {
		return err
	}
	policy, err := auth.NewPolicy()
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	router := handler.NewRouter(handler.Dependencies{
		Sessions:    repository.NewStore(db),
		Validator:   validation.New(),
		Credentials: credentials,
		Issuer:      jwt.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL),
		Policy:      policy,
		Logger:      logger,
		Sentry:      sentryEnabled,
		Swagger:     true,
	})

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server is running", slog.String("addr", cfg.ServerAddr),
			slog.String("swagger", "/swagger/index.html"))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
