package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Kafka struct {
		Broker          string
		ConsumableTopic string
		DrivingTopic    string
		GroupID         string
	}
	DB struct {
		DSN string
	}
	API struct {
		Port string
	}
	Stream struct {
		Timeout time.Duration
	}
	Schedule struct {
		Timezone string
	}
	Logging struct {
		Dir   string
		Level string
	}
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	// Kafka settings
	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.ConsumableTopic = os.Getenv("KAFKA_CONSUMABLE_TOPIC")
	cfg.Kafka.DrivingTopic = os.Getenv("KAFKA_DRIVING_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	// Database DSN
	cfg.DB.DSN = os.Getenv("DB_DSN")

	// API settings
	cfg.API.Port = os.Getenv("API_PORT")

	// Streaming connection lifetime ceiling
	if d, err := time.ParseDuration(os.Getenv("STREAM_TIMEOUT")); err == nil {
		cfg.Stream.Timeout = d
	}

	// Scheduler time zone
	cfg.Schedule.Timezone = os.Getenv("SCHEDULE_TZ")

	// Logging settings
	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Validate required settings
	missing := []string{}
	if cfg.Kafka.Broker == "" {
		missing = append(missing, "KAFKA_BROKER")
	}
	if cfg.DB.DSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Apply defaults
	if cfg.Kafka.ConsumableTopic == "" {
		cfg.Kafka.ConsumableTopic = "vehicle.consumables"
	}
	if cfg.Kafka.DrivingTopic == "" {
		cfg.Kafka.DrivingTopic = "vehicle.driving-pattern"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "alert-service"
	}
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if cfg.Stream.Timeout == 0 {
		cfg.Stream.Timeout = 6 * time.Hour
	}
	if cfg.Schedule.Timezone == "" {
		cfg.Schedule.Timezone = "Asia/Seoul"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}
