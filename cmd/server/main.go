package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"readingquest/internal/config"
	"readingquest/internal/database"
	"readingquest/internal/handlers"
	"readingquest/internal/repository"
	"readingquest/internal/security"
	"readingquest/internal/service"
	"readingquest/internal/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.SlogLevel(), TimeFormat: time.DateTime}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connection established", "type", cfg.DatabaseType)

	if err := db.RunMigrations(ctx); err != nil {
		return err
	}
	logger.Info("migrations completed")

	if err := db.SeedBadWords(ctx, cfg.BadWordsURL); err != nil {
		logger.Warn("failed to seed bad words filter", "err", err)
	}

	secret := cfg.SessionSecret
	if secret == "" {
		secret = randomSecret()
		logger.Warn("SESSION_SECRET is not set; sessions will not survive a restart")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	scoreRepo := repository.NewScoreRepository(db)

	// Services
	emailService, err := service.NewEmailService(ctx, logger, service.EmailConfig{
		Region:     cfg.AWSRegion,
		FromEmail:  cfg.SESFromEmail,
		FromName:   cfg.SESFromName,
		AppBaseURL: cfg.AppBaseURL,
		Debug:      cfg.EmailDebug,
	})
	if err != nil {
		logger.Warn("email disabled", "err", err)
		emailService = nil
	}
	tokens := security.NewTokenIssuer(secret, time.Now)
	csrf := security.NewCSRFGenerator(secret)
	authService := service.NewAuthService(userRepo, tokens, emailService, logger, cfg.SessionDuration)
	gateway := service.NewGateway(contentRepo, progressRepo, scoreRepo, db, logger, cfg.LeaderboardLimit)

	dispatcher := service.NewSaveDispatcher(gateway, logger, service.SaveDispatcherOptions{
		Workers: cfg.SaveWorkers,
		Queue:   cfg.SaveQueue,
	})
	defer dispatcher.Close()

	registry := views.NewRegistry(views.Deps{
		Gateway:          gateway,
		Saver:            dispatcher,
		Logger:           logger,
		MessageDisplay:   cfg.MessageDisplay,
		LeaderboardLimit: cfg.LeaderboardLimit,
	}, cfg.ViewIdleTimeout)
	go registry.Run(ctx, time.Minute)

	loginLimit := security.NewRateLimiter(10, time.Minute)
	go loginLimit.Run(ctx, 5*time.Minute)

	go cleanupExpiredSessions(ctx, authService, logger)

	// Handlers
	oauthProviders := handlers.NewOAuthProviders(
		handlers.OAuthCredentials{ClientID: cfg.GoogleClientID, ClientSecret: cfg.GoogleClientSecret},
		handlers.OAuthCredentials{ClientID: cfg.FacebookClientID, ClientSecret: cfg.FacebookClientSecret},
	)
	router := handlers.NewRouter(handlers.Routes{
		Auth:        handlers.NewAuthHandler(authService, csrf, logger, oauthProviders, cfg.OAuthRedirectBaseURL, cfg.AppBaseURL),
		Games:       handlers.NewGameHandler(gateway, logger),
		Play:        handlers.NewPlayHandler(registry, logger),
		Middleware:  handlers.NewMiddleware(authService, csrf, logger),
		LoginLimit:  loginLimit,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(ctx context.Context, authService *service.AuthService, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := authService.CleanupExpiredSessions(ctx); err != nil {
				logger.Error("failed to clean up expired sessions", "err", err)
			} else {
				logger.Debug("expired sessions cleaned up")
			}
		}
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
