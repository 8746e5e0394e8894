package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recordbook/internal/config"
	"github.com/kailas-cloud/recordbook/internal/db"
	"github.com/kailas-cloud/recordbook/internal/db/memory"
	dbRedis "github.com/kailas-cloud/recordbook/internal/db/redis"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
	logpkg "github.com/kailas-cloud/recordbook/internal/logger"
	"github.com/kailas-cloud/recordbook/internal/metrics"
	"github.com/kailas-cloud/recordbook/internal/repository/classcache"
	recrepo "github.com/kailas-cloud/recordbook/internal/repository/record"
	"github.com/kailas-cloud/recordbook/internal/repository/sqlrecord"
	chiTransport "github.com/kailas-cloud/recordbook/internal/transport/chi"
	interpclient "github.com/kailas-cloud/recordbook/internal/transport/interpreter"
	openaiTransport "github.com/kailas-cloud/recordbook/internal/transport/openai"
	"github.com/kailas-cloud/recordbook/internal/usecase/dispatch"
	healthuc "github.com/kailas-cloud/recordbook/internal/usecase/health"
	"github.com/kailas-cloud/recordbook/internal/usecase/interpret"
	recorduc "github.com/kailas-cloud/recordbook/internal/usecase/record"
	searchuc "github.com/kailas-cloud/recordbook/internal/usecase/search"
	"github.com/kailas-cloud/recordbook/internal/version"
)

func serveCmd() *cobra.Command {
	var env string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the records HTTP API",
		Long:  "Run the records HTTP API configured by config/<env>.yaml (ENV, default local).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if env == "" {
				env = config.GetEnv()
			}
			return serve(env)
		},
	}
	cmd.Flags().StringVar(&env, "env", "", "config environment (overrides ENV)")
	return cmd
}

// recordStore is what the use cases need from a record backend.
type recordStore interface {
	recorduc.Repository
	searchuc.Repository
}

func serve(env string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting recordbook API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("interpreter_mode", cfg.Interpreter.Mode),
	)

	ctx := context.Background()
	be, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open record store", zap.Error(err))
		return err
	}
	defer be.close()
	logger.Info("Connected to record store")

	// Register command metrics explicitly (no init())
	metrics.RegisterCommandMetrics()

	policy, err := filter.ParsePolicy(cfg.Dispatch.FallbackPolicy)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	interp, builtin, checker := buildInterpreter(cfg, be.hashes, logger)

	recordSvc := recorduc.New(be.repo, logger)
	searchSvc := searchuc.New(be.repo, logger)
	dispatchSvc := dispatch.New(interp, searchSvc, dispatch.Options{
		Policy:              policy,
		ReportUnknownModule: cfg.Dispatch.ReportUnknownModule,
		Timeout:             time.Duration(cfg.Dispatch.TimeoutSec) * time.Second,
	}, logger)
	healthSvc := healthuc.New(be.pinger, checker)

	server := chiTransport.NewServer(recordSvc, searchSvc, dispatchSvc, builtin, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err := <-serveErr:
		logger.Error("HTTP server error", zap.Error(err))
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// backend is an opened record store. hashes is nil when the driver has no
// hash store to share (sqlite).
type backend struct {
	repo   recordStore
	pinger healthuc.DBPinger
	hashes db.HashStore
	close  func()
}

// openStore creates the record backend for the configured driver.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (backend, error) {
	switch cfg.Database.Driver {
	case config.DriverValkey, config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Database.Addrs,
			Password:   cfg.Database.Password,
			DB:         cfg.Database.DB,
			ClientName: "recordbook",
		})
		if err != nil {
			return backend{}, fmt.Errorf("create %s store: %w", cfg.Database.Driver, err)
		}
		timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return backend{}, fmt.Errorf("database not ready: %w", err)
		}
		return backend{recrepo.New(store, cfg.Storage.KeyPrefix), store, store, store.Close}, nil
	case config.DriverSQLite:
		repo, err := sqlrecord.Open(cfg.Database.Path)
		if err != nil {
			return backend{}, fmt.Errorf("open sqlite: %w", err)
		}
		return backend{repo: repo, pinger: repo, close: func() {
			if err := repo.Close(); err != nil {
				logger.Warn("Closing sqlite failed", zap.Error(err))
			}
		}}, nil
	case config.DriverMemory:
		logger.Warn("Using in-memory record store; records are lost on restart")
		store := memory.NewStore()
		return backend{recrepo.New(store, cfg.Storage.KeyPrefix), store, store, store.Close}, nil
	default:
		return backend{}, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// buildInterpreter returns the dispatcher's interpreter, the built-in
// classifier to serve at POST /api/command (nil in remote mode) and the
// interpreter health checker (nil when there is nothing remote to check).
func buildInterpreter(
	cfg config.Config, hashes db.HashStore, logger *zap.Logger,
) (dispatch.Interpreter, chiTransport.Classifier, healthuc.InterpreterChecker) {
	timeout := time.Duration(cfg.Interpreter.TimeoutSec) * time.Second

	if cfg.Interpreter.Mode == config.InterpreterRemote {
		c := interpclient.NewClient(interpclient.Config{
			BaseURL: cfg.Interpreter.URL,
			Timeout: timeout,
			Logger:  logger,
		})
		logger.Info("Using remote interpreter", zap.String("url", cfg.Interpreter.URL))
		return c, nil, c
	}

	keyword := interpret.NewKeyword()
	if cfg.Interpreter.Provider == config.ProviderOpenAI {
		model := openaiTransport.NewClassifier(&openaiTransport.Config{
			APIKey:  cfg.Interpreter.APIKey,
			BaseURL: cfg.Interpreter.BaseURL,
			Model:   cfg.Interpreter.Model,
			Logger:  logger,
		})
		var primary interpret.Classifier = model
		if cfg.Interpreter.Cache {
			if hashes == nil {
				logger.Warn("Classification cache needs a hash store, disabled", zap.String("db_driver", cfg.Database.Driver))
			} else {
				primary = classcache.New(model, hashes, cfg.Storage.KeyPrefix, metrics.ClassificationCacheTotal, logger)
			}
		}
		svc := interpret.New(primary, keyword, logger)
		logger.Info("Using built-in interpreter",
			zap.String("provider", config.ProviderOpenAI),
			zap.String("model", cfg.Interpreter.Model),
		)
		return svc, svc, model
	}

	svc := interpret.New(keyword, nil, logger)
	logger.Info("Using built-in interpreter", zap.String("provider", config.ProviderKeyword))
	return svc, svc, nil
}
