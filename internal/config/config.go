package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port         string
	DBConn       string
	LogLevel     string
	RedisAddr    string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	ReminderCron string
	ReminderDays int
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	reminderDays, err := strconv.Atoi(getEnv("REMINDER_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_DAYS: %w", err)
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DBConn:       getEnv("DB_CONN", "host=localhost port=5432 user=credit password=credit dbname=credit sslmode=disable"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "noreply@credit-service.local"),
		ReminderCron: getEnv("REMINDER_CRON", "0 8 * * *"),
		ReminderDays: reminderDays,
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.ReminderDays <= 0 {
		return nil, fmt.Errorf("REMINDER_DAYS must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
