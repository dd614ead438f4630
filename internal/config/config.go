package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Telegram TelegramConfig
	Uploads  UploadsConfig
	Janitor  JanitorConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// DBConfig holds PostgreSQL connection parameters.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the connection string expected by the postgres driver.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// TelegramConfig contains bot credentials and the location→topic routing table.
// Topic ids ≤ 0 are treated as unset, meaning the chat's default stream.
type TelegramConfig struct {
	BotToken   string
	ChatID     string
	MiniAppURL string
	WebhookURL string

	// Topics maps a location label to the forum topic id notifications for
	// that location should be routed to.
	Topics map[string]int
}

// UploadsConfig holds settings for persisted photo attachments.
type UploadsConfig struct {
	Dir string
}

// JanitorConfig holds settings for the orphaned-upload sweep.
type JanitorConfig struct {
	CronSchedule  string
	RetentionDays int
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	retention, err := strconv.Atoi(getenvWithDefault("JANITOR_RETENTION_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid JANITOR_RETENTION_DAYS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		DB: DBConfig{
			Host:     getenvWithDefault("DB_HOST", "localhost"),
			Port:     getenvWithDefault("DB_PORT", "5432"),
			User:     getenvWithDefault("DB_USER", "reportbot"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getenvWithDefault("DB_NAME", "reportbot"),
			SSLMode:  getenvWithDefault("DB_SSLMODE", "disable"),
		},
		Telegram: TelegramConfig{
			BotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:     os.Getenv("TELEGRAM_CHAT_ID"),
			MiniAppURL: os.Getenv("MINI_APP_URL"),
			WebhookURL: os.Getenv("WEBHOOK_URL"),
			Topics:     loadTopics(),
		},
		Uploads: UploadsConfig{
			Dir: getenvWithDefault("UPLOAD_DIR", "./uploads"),
		},
		Janitor: JanitorConfig{
			CronSchedule:  getenvWithDefault("JANITOR_SCHEDULE", "0 4 * * *"),
			RetentionDays: retention,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadTopics assembles the location→topic table from the per-location env
// vars. The keys double as match targets for substring resolution, so they
// carry the same labels the mini-app submits.
func loadTopics() map[string]int {
	return map[string]int{
		"Касса - Гагарина 48/1":            getenvInt("KASSA_GAGARINA_48_TOPIC_ID"),
		"Касса - Абдулхакима Исмаилова 51": getenvInt("KASSA_ABDULHAMID_51_TOPIC_ID"),
		"Касса - Гайдара Гаджиева 7Б":      getenvInt("KASSA_GAIDAR_7B_TOPIC_ID"),
		"Отчет - Гагарина 48/1":            getenvInt("OTCHET_GAGARINA_48_TOPIC_ID"),
		"Отчет - Абдулхакима Исмаилова 51": getenvInt("OTCHET_ABDULHAMID_51_TOPIC_ID"),
		"Отчет - Гайдара Гаджиева 7Б":      getenvInt("OTCHET_GAIDAR_7B_TOPIC_ID"),
		"Перемещения":                      getenvInt("PEREMESHENIYA_TOPIC_ID"),
	}
}

// Validate ensures that required configuration fields are populated. Telegram
// credentials are intentionally not required: without them the dispatcher runs
// disabled and reports stay in the database only.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.DB.Host == "":
		return errors.New("DB_HOST must be provided")
	case c.DB.User == "":
		return errors.New("DB_USER must be provided")
	case c.DB.Name == "":
		return errors.New("DB_NAME must be provided")
	}

	if c.Uploads.Dir == "" {
		return errors.New("UPLOAD_DIR must not be empty")
	}

	if c.Janitor.RetentionDays < 1 {
		return errors.New("JANITOR_RETENTION_DAYS must be at least 1")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0
	}
	return value
}
