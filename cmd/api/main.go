package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/tadawul-sentiment/internal/adapters/clickhouse"
	"github.com/selivandex/tadawul-sentiment/internal/adapters/config"
	"github.com/selivandex/tadawul-sentiment/internal/adapters/database"
	redisAdapter "github.com/selivandex/tadawul-sentiment/internal/adapters/redis"
	"github.com/selivandex/tadawul-sentiment/internal/adapters/telegram"
	"github.com/selivandex/tadawul-sentiment/internal/api"
	"github.com/selivandex/tadawul-sentiment/internal/companies"
	"github.com/selivandex/tadawul-sentiment/internal/dashboard"
	"github.com/selivandex/tadawul-sentiment/internal/news"
	"github.com/selivandex/tadawul-sentiment/internal/series"
	"github.com/selivandex/tadawul-sentiment/internal/settings"
	"github.com/selivandex/tadawul-sentiment/internal/workers"
	"github.com/selivandex/tadawul-sentiment/pkg/logger"
	"github.com/selivandex/tadawul-sentiment/pkg/worker"
)

func main() {
	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := initConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Tadawul sentiment dashboard starting...",
		zap.String("port", cfg.Server.Port),
	)

	db, err := initDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := initRedis(cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	chDB := initClickHouse(ctx, cfg)
	if chDB != nil {
		defer chDB.Close()
	}

	prefs, err := settings.NewStore(settings.FromConfig(cfg.Preferences))
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	companyRepo := companies.NewRepository(db.DB())
	composer := news.NewComposer(news.NewRepository(db.DB()), time.Now)
	synth := series.NewSynthesizer(companyRepo, series.Config{
		Jitter:    cfg.Dashboard.SeriesJitter,
		MinVolume: cfg.Dashboard.MinVolume,
		MaxVolume: cfg.Dashboard.MaxVolume,
	}, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())), time.Now)

	var cache dashboard.Cache
	if redisClient != nil {
		cache = redisClient
	}

	svc := dashboard.NewService(companyRepo, composer, synth, prefs, cache, dashboard.Config{
		RecentNewsCount:  cfg.Dashboard.RecentNewsCount,
		CompanyNewsCount: cfg.Dashboard.CompanyNewsCount,
	})
	feed := dashboard.NewFeed()

	notifier := initTelegram(cfg)

	group, err := startBackgroundWorkers(ctx, cfg, db, redisClient, chDB, companyRepo, svc, feed, prefs, notifier)
	if err != nil {
		return err
	}

	checks := map[string]api.Checker{"database": db}
	if redisClient != nil {
		checks["redis"] = redisClient
	}
	health := api.NewHealth(checks)

	socket := api.NewFeedSocket(feed)
	server := api.NewServer(&cfg.Server, api.NewRouter(api.NewHandler(svc, prefs), health, socket), socket)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("api server failed", zap.Error(err))
		}
	}()

	health.SetReady(true)

	// Wait for shutdown signal
	<-ctx.Done()

	return performGracefulShutdown(health, server, group)
}

func initConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}

// initDatabase connects to the sentiment store and optionally migrates it
func initDatabase(cfg *config.Config) (*database.DB, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.RunMigrations {
		if err := database.RunMigrations(db.Conn(), cfg.Database.MigrationsPath); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return db, nil
}

// initRedis returns nil when caching is disabled
func initRedis(cfg *config.Config) (*redisAdapter.Client, error) {
	if !cfg.Redis.Enabled {
		logger.Info("⚠️ Redis disabled - responses are not cached, locks are local")
		return nil, nil
	}

	client, err := redisAdapter.New(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// initClickHouse returns nil when the history mirror is disabled or unreachable
func initClickHouse(ctx context.Context, cfg *config.Config) *database.DB {
	if !cfg.ClickHouse.Enabled {
		return nil
	}

	ch, err := database.NewClickHouse(cfg.ClickHouse.DSN)
	if err != nil {
		logger.Warn("ClickHouse not available, snapshots stay in PostgreSQL only", zap.Error(err))
		return nil
	}

	if err := ch.Health(); err != nil {
		logger.Warn("ClickHouse ping failed, snapshots stay in PostgreSQL only", zap.Error(err))
		ch.Close()
		return nil
	}

	if err := clickhouse.NewRepository(ch.DB()).EnsureSchema(ctx); err != nil {
		logger.Warn("failed to prepare ClickHouse schema", zap.Error(err))
		ch.Close()
		return nil
	}

	logger.Info("✅ ClickHouse snapshot mirror enabled")
	return ch
}

// initTelegram returns nil when alerts are disabled
func initTelegram(cfg *config.Config) *telegram.Notifier {
	if !cfg.Telegram.Enabled {
		return nil
	}

	notifier, err := telegram.NewNotifier(&cfg.Telegram)
	if err != nil {
		logger.Warn("telegram notifier disabled", zap.Error(err))
		return nil
	}

	return notifier
}

func startBackgroundWorkers(
	ctx context.Context,
	cfg *config.Config,
	db *database.DB,
	redisClient *redisAdapter.Client,
	chDB *database.DB,
	companyRepo *companies.Repository,
	svc *dashboard.Service,
	feed *dashboard.Feed,
	prefs *settings.Store,
	notifier *telegram.Notifier,
) (*worker.WorkerGroup, error) {
	group := worker.NewWorkerGroup(ctx)

	group.Add(workers.NewRefreshWorker(svc, feed), cfg.Dashboard.RefreshInterval)

	var locks redisAdapter.LockFactory = redisAdapter.NewLocalLockFactory()
	if redisClient != nil {
		locks = redisClient.LockFactory()
	}

	sinks := []workers.SnapshotSink{workers.NewRepository(db.DB())}
	if chDB != nil {
		sinks = append(sinks, clickhouse.NewRepository(chDB.DB()))
	}

	var summary workers.SummaryNotifier
	if notifier != nil {
		summary = notifier
		group.Add(workers.NewAlertWorker(companyRepo, prefs, notifier), cfg.Dashboard.AlertInterval)
	}

	snapshot := workers.NewSnapshotWorker(companyRepo, locks, summary, sinks...)
	if err := group.AddScheduled(snapshot, cfg.Dashboard.SnapshotSchedule); err != nil {
		return nil, err
	}

	group.Start()
	return group, nil
}

// performGracefulShutdown handles graceful shutdown of all components
func performGracefulShutdown(health *api.Health, server *api.Server, group *worker.WorkerGroup) error {
	logger.Info("🛑 Shutdown signal received, starting graceful shutdown...")

	// Mark service as not ready (stop accepting new traffic)
	health.SetReady(false)

	// K8s gives 30s terminationGracePeriodSeconds
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer shutdownCancel()

	group.Stop(10 * time.Second)

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("api server stop error", zap.Error(err))
	}

	select {
	case <-shutdownCtx.Done():
		logger.Warn("⚠️ shutdown timeout exceeded")
		return fmt.Errorf("graceful shutdown timeout")
	default:
		logger.Info("✅ shutdown completed successfully")
	}

	return nil
}
