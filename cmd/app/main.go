package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crmsync/cmd"
	httpin "crmsync/internal/adapters/in/http"
	"crmsync/internal/adapters/out/eventlog"
	"crmsync/internal/adapters/out/postgres"
	"crmsync/internal/adapters/out/rabbitmq"
	"crmsync/internal/core/ports"
	"crmsync/internal/jobs"
	"crmsync/internal/pkg/metrics"
	"crmsync/internal/pkg/selections"

	"github.com/labstack/gommon/log"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.LogLevel}))
	slog.SetDefault(logger)

	gormDB := mustOpenDatabase(configs)
	if configs.DBAutoMigrate {
		if err = postgres.Migrate(gormDB); err != nil {
			log.Fatalf("Error migrating database: %v", err)
		}
		logger.Info("database schema migrated")
	}

	catalog, err := selections.Load(configs.SelectionsFile)
	if err != nil {
		log.Fatalf("Error loading selection catalog: %v", err)
	}

	publisher, closePublisher := mustCreatePublisher(ctx, configs, logger)
	defer closePublisher()

	app := cmd.NewCompositionRoot(gormDB, catalog, publisher, metrics.New(), logger)

	jobManager := jobs.NewJobManager(
		app.CreateRelayOutboxCommandHandler(),
		app.CreatePurgeOutboxCommandHandler(),
		jobs.Schedules{
			RelaySchedule:   configs.OutboxRelaySchedule,
			RelayBatchSize:  configs.OutboxBatchSize,
			CleanupSchedule: configs.OutboxCleanupSchedule,
			Retention:       configs.OutboxRetention,
		},
		app.Metrics(),
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, &app, configs.HTTPPort)
}

func mustOpenDatabase(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(gormpg.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error getting database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return gormDB
}

// mustCreatePublisher connects to RabbitMQ when a URL is configured and falls
// back to logging the events otherwise.
func mustCreatePublisher(ctx context.Context, configs cmd.Config, logger *slog.Logger) (ports.EventPublisher, func()) {
	if configs.RabbitMQURL == "" {
		logger.Warn("RABBITMQ_URL is not set, outbox events are only logged")
		return eventlog.NewPublisher(logger), func() {}
	}

	publisher, err := rabbitmq.NewPublisher(ctx, configs.RabbitMQURL, configs.RabbitMQQueue, logger)
	if err != nil {
		log.Fatalf("Error connecting to RabbitMQ: %v", err)
	}
	return publisher, func() {
		if closeErr := publisher.Close(); closeErr != nil {
			logger.Error("failed to close RabbitMQ publisher", "error", closeErr)
		}
	}
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string) {
	server := httpin.NewServer(
		app.CreateValidator(),
		app.CreateCreateOrderCommandHandler(),
		app.CreateUpdateOrderStatusCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetStatusesQueryHandler(),
		app.Metrics(),
		app.Logger(),
	)

	e, err := httpin.NewRouter(ctx, server, app.Metrics(), app.Logger())
	if err != nil {
		log.Fatalf("Error building router: %v", err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			app.Logger().Error("failed to shut down HTTP server", "error", shutdownErr)
		}
	}()

	if err = e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}
