package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bryanwahyu/prompt-sentinel/internal/application"
	appreports "github.com/bryanwahyu/prompt-sentinel/internal/application/reports"
	"github.com/bryanwahyu/prompt-sentinel/internal/config"
	domain "github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
	mysqlp "github.com/bryanwahyu/prompt-sentinel/internal/infra/db/mysql"
	"github.com/bryanwahyu/prompt-sentinel/internal/infra/db/postgres"
	"github.com/bryanwahyu/prompt-sentinel/internal/infra/db/sqlite"
	"github.com/bryanwahyu/prompt-sentinel/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/prompt-sentinel/internal/infra/storage"
	"github.com/bryanwahyu/prompt-sentinel/internal/logging"
	"github.com/bryanwahyu/prompt-sentinel/internal/middleware"
)

func main() {
	// load config (config.yaml atau CONFIG_PATH, env override)
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	// connect database + init repo
	db, repo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database ready", zap.String("driver", cfg.Database.Driver))

	svc := &appreports.Service{
		Repo:  repo,
		Clock: application.SystemClock{},
		Log:   log.Named("reports"),
	}

	// init minio (optional)
	if cfg.MinioEnabled() {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		svc.Archive = store
		log.Info("archiving reports", zap.String("bucket", cfg.Minio.BucketName))
	}

	// init router
	router := httpserver.NewRouter(svc, httpserver.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		ProjectKeys:    cfg.Auth.ProjectKeys,
		RateCapacity:   cfg.RateLimit.Capacity,
		RateRefill:     cfg.RateLimit.RefillRate,
		Checkers:       map[string]middleware.HealthChecker{"database": &middleware.DatabaseHealthChecker{DB: db}},
		Metrics:        middleware.NewMetrics(),
		Log:            log.Named("http"),
	})
	defer router.Stop()
	mux := chi.NewRouter()
	mux.Mount("/", router)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-stop:
	}
	log.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Warn("shutdown error", zap.Error(err))
	}
	return nil
}

// openRepository connects the configured driver and makes sure the reports table exists.
func openRepository(ctx context.Context, cfg *config.Config) (*sql.DB, domain.Repository, error) {
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := mysqlp.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, mysqlp.NewReportRepository(db), nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, postgres.NewReportRepository(db), nil
	default:
		db, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db.DB, sqlite.NewReportRepository(db), nil
	}
}
