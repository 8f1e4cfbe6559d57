package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"crmsync/internal/pkg/errs"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	DBAutoMigrate bool

	RabbitMQURL   string
	RabbitMQQueue string

	OutboxRelaySchedule   string
	OutboxCleanupSchedule string
	OutboxRetention       time.Duration
	OutboxBatchSize       int

	SelectionsFile string
	LogLevel       slog.Level
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

// LoadConfig reads the configuration from the environment after loading envFile,
// when it exists. Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	config := Config{
		HTTPPort:              envOr("HTTP_PORT", "8080"),
		DBHost:                envOr("DB_HOST", "localhost"),
		DBPort:                envOr("DB_PORT", "5432"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                envOr("DB_NAME", "crmsync"),
		DBSslMode:             envOr("DB_SSLMODE", "disable"),
		RabbitMQURL:           os.Getenv("RABBITMQ_URL"),
		RabbitMQQueue:         envOr("RABBITMQ_QUEUE", "crm.order-status"),
		OutboxRelaySchedule:   envOr("OUTBOX_RELAY_SCHEDULE", "*/5 * * * * *"),
		OutboxCleanupSchedule: envOr("OUTBOX_CLEANUP_SCHEDULE", "0 0 3 * * *"),
		SelectionsFile:        os.Getenv("SELECTIONS_FILE"),
	}

	var err error
	var errList []error

	if config.DBAutoMigrate, err = boolOr("DB_AUTO_MIGRATE", false); err != nil {
		errList = append(errList, err)
	}
	if config.OutboxRetention, err = durationOr("OUTBOX_RETENTION", 7*24*time.Hour); err != nil {
		errList = append(errList, err)
	}
	if config.OutboxBatchSize, err = intOr("OUTBOX_BATCH_SIZE", 100); err != nil {
		errList = append(errList, err)
	}
	if err = config.LogLevel.UnmarshalText([]byte(envOr("LOG_LEVEL", "info"))); err != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("LOG_LEVEL", err))
	}
	if config.DBUser == "" {
		errList = append(errList, errs.NewValueIsRequiredError("DB_USER"))
	}

	if len(errList) > 0 {
		return Config{}, errors.Join(errList...)
	}
	return config, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func boolOr(key string, fallback bool) (bool, error) {
	raw := envOr(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	return v, nil
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	raw := envOr(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	if v <= 0 {
		return 0, errs.NewValueIsOutOfRangeError(key, v, "1ns", "unbounded")
	}
	return v, nil
}

func intOr(key string, fallback int) (int, error) {
	raw := envOr(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	if v <= 0 {
		return 0, errs.NewValueIsOutOfRangeError(key, v, 1, "unbounded")
	}
	return v, nil
}
