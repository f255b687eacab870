package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"github.com/mehan05/venue-backend-new/internal/api"
	"github.com/mehan05/venue-backend-new/internal/config"
	"github.com/mehan05/venue-backend-new/internal/database"
	"github.com/mehan05/venue-backend-new/internal/domain"
	"github.com/mehan05/venue-backend-new/internal/events"
	"github.com/mehan05/venue-backend-new/internal/google"
	"github.com/mehan05/venue-backend-new/internal/logging"
	"github.com/mehan05/venue-backend-new/internal/metrics"
	"github.com/mehan05/venue-backend-new/internal/models"
	"github.com/mehan05/venue-backend-new/internal/notify"
	"github.com/mehan05/venue-backend-new/internal/repository"
	"github.com/mehan05/venue-backend-new/internal/service"
	"github.com/mehan05/venue-backend-new/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	venues, err := loadVenues(cfg, &logger)
	if err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	cache := buildCache(redisClient, &logger)
	eventBus := events.NewEventBus()

	sheetsService := initGoogleSheets(cfg, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var syncWorker domain.SyncWorker
	if sheetsService != nil {
		w := worker.NewSheetsWorker(db, sheetsService, redisClient, worker.RetryPolicy{}, &logger)
		go w.Start(ctx)
		syncWorker = w
	}

	initTelegram(cfg, eventBus, &logger)

	accountService := service.NewAccountService(db, eventBus, &logger)
	bookingService := service.NewBookingService(db, cache, eventBus, syncWorker,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second, &logger)

	httpServer := api.NewHTTPServer(cfg.Server, accountService, bookingService, venues, &logger)

	backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
	go backupService.Start(ctx)

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// loadVenues reads the venue catalog. The catalog from the main config is
// preferred; VENUES_PATH points at a standalone file otherwise.
func loadVenues(cfg *config.Config, logger *zerolog.Logger) ([]models.Venue, error) {
	if len(cfg.Venues) > 0 {
		return cfg.Venues, nil
	}

	venuesPath := os.Getenv("VENUES_PATH")
	if venuesPath == "" {
		venuesPath = "configs/venues.yaml"
	}
	venuesData, err := os.ReadFile(venuesPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("venues_path", venuesPath).Msg("no venues file, catalog empty")
			return nil, nil
		}
		logger.Error().Err(err).Str("venues_path", venuesPath).Msg("read venues")
		return nil, err
	}

	var venuesConfig struct {
		Venues []models.Venue `yaml:"venues"`
	}
	if err := yaml.Unmarshal(venuesData, &venuesConfig); err != nil {
		logger.Error().Err(err).Str("venues_path", venuesPath).Msg("parse venues")
		return nil, err
	}

	if err := config.ValidateVenues(venuesConfig.Venues); err != nil {
		return nil, err
	}
	return venuesConfig.Venues, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)

	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func buildCache(redisClient *redis.Client, logger *zerolog.Logger) domain.BookingCache {
	memory := repository.NewMemoryBookingCache()
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverBookingCache(
		repository.NewRedisBookingCache(redisClient),
		memory,
		logger,
	)
}

func initGoogleSheets(cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.GoogleCredentialsFile == "" || cfg.Google.BookingSpreadSheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(
		cfg.Google.GoogleCredentialsFile,
		cfg.Google.BookingSpreadSheetID,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

func initTelegram(cfg *config.Config, eventBus *events.EventBus, logger *zerolog.Logger) {
	if !cfg.Telegram.Enabled {
		return
	}

	bot, err := notify.NewBot(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without notifications")
		return
	}

	notifier := notify.NewTelegramNotifier(bot, cfg.Telegram.AdminChatIDs, logger)
	notifier.Subscribe(eventBus)
	logger.Info().Int("chats", len(cfg.Telegram.AdminChatIDs)).Msg("telegram notifier connected")
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
