package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	geocoding_adapter "listing-service/internal/adapters/geocoding"
	logger_adapter "listing-service/internal/adapters/logger"
	postgres_adapter "listing-service/internal/adapters/postgres"
	rabbitmq_adapter "listing-service/internal/adapters/rabbitmq"
	"listing-service/internal/adapters/rest"
	"listing-service/internal/configs"
	"listing-service/internal/constants"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/usecase"
	"listing-service/internal/scheduler"
	fluentlogger "listing-service/pkg/fluent_logger"
	"listing-service/pkg/postgres"
	rediscli "listing-service/pkg/redis"
	"listing-service/pkg/rabbitmq/rabbitmq_common"
	"listing-service/pkg/rabbitmq/rabbitmq_consumer"
)

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	redis     *goredis.Client
	apiServer *rest.Server
	sched     *scheduler.Scheduler

	notificationPublisher *rabbitmq_adapter.NotificationPublisherAdapter
	referenceListener     *rabbitmq_adapter.ReferenceSyncConsumerAdapter

	logger       port.LoggerPort
	fluentClient *fluent.Fluent
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// Loggers first so everything after can report through them.
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.FluentBit.Tag,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// Outgoing infrastructure.
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Connected to PostgreSQL pool", nil)

	redisClient, err := rediscli.NewClient(rediscli.Config{RedisURL: appConfig.Redis.URL})
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	appLogger.Info("Connected to Redis", nil)

	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(
		baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, connManagerBridge)
	if err != nil {
		redisClient.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized", nil)

	annonceStorage, err := postgres_adapter.NewAnnonceStorageAdapter(dbPool)
	if err != nil {
		redisClient.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create annonce storage adapter: %w", err)
	}
	referenceStorage, err := postgres_adapter.NewReferenceStorageAdapter(dbPool)
	if err != nil {
		redisClient.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create reference storage adapter: %w", err)
	}

	nominatim := geocoding_adapter.NewNominatimGeocoder(geocoding_adapter.NominatimConfig{
		BaseURL:   appConfig.Geocoding.NominatimBaseURL,
		UserAgent: appConfig.Geocoding.UserAgent,
	})
	geocoder := geocoding_adapter.NewCachedGeocoder(
		nominatim,
		redisClient,
		time.Duration(appConfig.Geocoding.CacheTTLJours)*24*time.Hour,
	)

	notificationPublisher, err := rabbitmq_adapter.NewNotificationPublisherAdapter(
		appConfig.RabbitMQ.URL, baseLogger, connManager)
	if err != nil {
		redisClient.Close()
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("All outgoing adapters initialized", nil)

	// Business configuration.
	searchCfg := domain.DefaultSearchConfig()
	searchCfg.SeuilBasPrix = appConfig.Annonces.SeuilBasPrix

	publicationCfg := domain.PublicationConfig{
		DureeValiditeJours:        appConfig.Annonces.DureeValiditeGratuitJours,
		DureeValiditePremiumJours: appConfig.Annonces.DureeValiditePremiumJours,
		LimiteAnnoncesGratuit:     appConfig.Annonces.LimiteAnnoncesGratuit,
	}

	// Use cases.
	searchUC := usecase.NewSearchAnnoncesUseCase(annonceStorage, searchCfg)
	getUC := usecase.NewGetAnnonceUseCase(annonceStorage, searchCfg)
	createUC := usecase.NewCreateAnnonceUseCase(annonceStorage, geocoder, notificationPublisher, publicationCfg)
	updateUC := usecase.NewUpdateAnnonceUseCase(annonceStorage, geocoder, notificationPublisher)
	deleteUC := usecase.NewDeleteAnnonceUseCase(annonceStorage)
	myUC := usecase.NewMyAnnoncesUseCase(annonceStorage, searchCfg)
	markExpiredUC := usecase.NewMarkExpiredUseCase(annonceStorage, notificationPublisher)
	syncReferenceUC := usecase.NewSyncReferenceUseCase(referenceStorage)
	appLogger.Info("All use cases initialized", nil)

	// Incoming adapters.
	referenceConsumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:              constants.ReferenceQueue,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.ReferenceExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    constants.ReferenceExchangeType,
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.ReferenceRoutingKey,
		PrefetchCount:          1,
		ConsumerTag:            "listing-reference-sync",

		EnableRetryMechanism: true,
		RetryExchange:        constants.ReferenceRetryExchange,
		RetryQueue:           constants.ReferenceRetryQueue,
		RetryTTL:             10000,
		FinalDLXExchange:     constants.ReferenceFinalDLX,
		FinalDLQ:             constants.ReferenceFinalDLQ,
		FinalDLQRoutingKey:   constants.ReferenceQueue,
		MaxRetries:           3,
	}
	referenceListener, err := rabbitmq_adapter.NewReferenceSyncConsumerAdapter(
		referenceConsumerCfg, syncReferenceUC, baseLogger, connManager)
	if err != nil {
		redisClient.Close()
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("Reference sync listener initialized", nil)

	apiHandlers := rest.NewAnnonceHandler(searchUC, getUC, createUC, updateUC, deleteUC, myUC)
	apiServer := rest.NewServer(appConfig.Rest.PORT, appConfig.Rest.AllowedOrigins, apiHandlers, baseLogger)

	sched := scheduler.New(markExpiredUC, baseLogger, appConfig.Scheduler.CronMarquerAnnoncesExpirees)

	return &App{
		config:                appConfig,
		dbPool:                dbPool,
		redis:                 redisClient,
		apiServer:             apiServer,
		sched:                 sched,
		notificationPublisher: notificationPublisher,
		referenceListener:     referenceListener,
		logger:                appLogger,
		fluentClient:          fluentClient,
	}, nil
}

// Run starts every component and blocks until a shutdown signal or a
// fatal component error.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		a.sched.Stop()

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()

		if a.referenceListener != nil {
			if err := a.referenceListener.Close(); err != nil {
				a.logger.Error("Error closing reference sync listener", err, nil)
			}
		}

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.notificationPublisher != nil {
			if err := a.notificationPublisher.Close(); err != nil {
				a.logger.Error("Error closing notification publisher", err, nil)
			}
		}

		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				a.logger.Error("Error closing redis client", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	componentErrors := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.logger.Info("Starting reference sync listener...", nil)
		if err := a.referenceListener.StartConsuming(appCtx); err != nil {
			a.logger.Error("Reference sync listener stopped with an unexpected error", err, nil)
			componentErrors <- fmt.Errorf("reference sync listener error: %w", err)
		} else {
			a.logger.Info("Reference sync listener stopped gracefully.", nil)
		}
	}()

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			componentErrors <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	if err := a.sched.Start(appCtx); err != nil {
		cancelApp()
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or component error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-componentErrors:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	}

	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
