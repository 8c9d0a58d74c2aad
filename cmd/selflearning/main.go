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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/selflearning/internal/adapter/driven/aiserver"
	sqliteadapter "github.com/ericfisherdev/selflearning/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/selflearning/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/selflearning/internal/adapter/driving/web"
	"github.com/ericfisherdev/selflearning/internal/application"
	"github.com/ericfisherdev/selflearning/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"model_api", cfg.ModelAPI,
		"probe_timeout", cfg.ProbeTimeout,
		"monitor_interval", cfg.MonitorInterval,
	)
	if !cfg.HasSessionSecret() {
		logger.Warn("SELFLEARNING_SESSION_SECRET not set, every request is anonymous")
	}
	if cfg.SecretKey == nil {
		logger.Warn("SELFLEARNING_SECRET_KEY not set, AI servers cannot be stored")
	}

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	logger.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		return err
	}
	logger.Info("migrations complete", "version", version)

	// 5. Wire adapters.
	credentialStore := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	aiClient := aiserver.NewClient(cfg.ModelAPI, cfg.ProbeTimeout, logger)

	// 6. Create services.
	configSvc := application.NewConfigService(credentialStore, aiClient, logger)
	chatSvc := application.NewChatService(credentialStore, aiClient, cfg.ChatSystemPrompt, logger)

	// 7. Start the availability monitor.
	monitor := application.NewMonitor(credentialStore, configSvc.Reconciler(), cfg.MonitorInterval, logger)
	go monitor.Start(ctx)

	// 8. Register API and GUI routes on one mux.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(configSvc, chatSvc, monitor, logger))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(configSvc, chatSvc, monitor, logger))

	handler := httphandler.ApplyMiddleware(mux, cfg.SessionSecret, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Chat requests wait on the model.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	logger.Info("selflearning started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	logger.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
