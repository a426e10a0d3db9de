package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is loaded once in main and injected; nothing reads the environment
// after startup.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	JWT          JWTConfig
	SMTP         SMTPConfig
	Kafka        KafkaConfig
	Notification NotificationConfig
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// NotificationConfig carries the deadline windows. Each call site gets its
// own knob: the results view, the sweep's closing-soon pass, the tiered
// deadline reminders and the saved-only reminder are independent policies.
type NotificationConfig struct {
	SweepInterval time.Duration

	// ClosingSoonDays is the [0, n] window for the results view and the
	// sweep's closing-soon email.
	ClosingSoonDays int

	// ReminderDays are the exact days-left values that trigger a tiered
	// deadline reminder.
	ReminderDays []int

	// SavedReminderDays is the [0, n] window for the saved-only reminder.
	SavedReminderDays int

	// NewScholarshipWindow bounds how far back "recently added" reaches.
	NewScholarshipWindow time.Duration
}

// LoadConfig reads .env (if present) and the environment.
func LoadConfig() (*Config, error) {
	// Missing .env is fine; containers set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			TTL:    getDuration("JWT_TTL", 24*time.Hour),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", os.Getenv("SMTP_USERNAME")),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "scholarship-events"),
		},
		Notification: NotificationConfig{
			SweepInterval:        getDuration("SWEEP_INTERVAL", 24*time.Hour),
			ClosingSoonDays:      getInt("CLOSING_SOON_DAYS", 7),
			ReminderDays:         getIntList("REMINDER_DAYS", []int{10, 5, 1}),
			SavedReminderDays:    getInt("SAVED_REMINDER_DAYS", 3),
			NewScholarshipWindow: getDuration("NEW_SCHOLARSHIP_WINDOW", 24*time.Hour),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getIntList(key string, def []int) []int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return def
		}
		out = append(out, n)
	}
	return out
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLogLevel(v string) slog.Level {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
