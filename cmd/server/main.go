package main

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	caseflow "github.com/caseflow/caseflow"
	"github.com/caseflow/caseflow/internal/cases"
	"github.com/caseflow/caseflow/internal/config"
	"github.com/caseflow/caseflow/internal/logging"
	"github.com/caseflow/caseflow/internal/metrics"
	"github.com/caseflow/caseflow/internal/store"
	"github.com/caseflow/caseflow/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store_driver", cfg.Store.Driver,
		"chunk_size", cfg.Import.ChunkSize,
		"commit_workers", cfg.Import.CommitWorkers,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()

	var st store.Store
	var pool *pgxpool.Pool

	switch cfg.Store.Driver {
	case "memory":
		st = store.NewMemoryStore()
		slog.Info("using in-memory case store")
	default:
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			slog.Error("failed to parse database URL", "error", err)
			os.Exit(1)
		}
		poolConfig.MaxConns = int32(cfg.Database.MaxConns)
		poolConfig.MinConns = int32(cfg.Database.MinConns)
		poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
		poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to ping database", "error", err)
			os.Exit(1)
		}

		migrations, err := fs.Sub(caseflow.Migrations, "migrations")
		if err != nil {
			slog.Error("failed to open embedded migrations", "error", err)
			os.Exit(1)
		}
		if err := store.RunMigrations(ctx, pool, migrations); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		st = store.NewPostgres(pool)
		slog.Info("connected to postgres case store")
	}

	m := metrics.New()
	sessions := cases.NewSessionRegistry(cfg.Import.SessionTTL)
	committer := cases.NewBatchCommitter(st, m).
		WithChunkSize(cfg.Import.ChunkSize).
		WithWorkers(cfg.Import.CommitWorkers)

	server := web.NewServer(cfg, st, sessions, committer, m)

	// Background janitor for expired staging sessions
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go sessions.StartJanitor(jobCtx, cfg.Import.SessionTTL/10)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
