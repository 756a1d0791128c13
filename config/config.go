package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Switch   SwitchConfig
	Mailgun  MailgunConfig
	Uploads  UploadsConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// SwitchConfig holds the Switch Payments API credentials. When Enabled is
// false the webhook endpoint rejects all provider events.
type SwitchConfig struct {
	Enabled    bool
	BaseURL    string
	AccountID  string
	PrivateKey string
}

type MailgunConfig struct {
	Domain    string
	APIKey    string
	FromName  string
	FromEmail string
}

type UploadsConfig struct {
	Dir string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			TTL:    getEnvDuration("JWT_TTL", 24*time.Hour),
		},
		Switch: SwitchConfig{
			Enabled:    getEnvBool("SWITCH_ENABLED", false),
			BaseURL:    getEnv("SWITCH_BASE_URL", "https://api.switchpayments.com/v2"),
			AccountID:  getEnv("SWITCH_ACCOUNT_ID", ""),
			PrivateKey: getEnv("SWITCH_PRIVATE_KEY", ""),
		},
		Mailgun: MailgunConfig{
			Domain:    getEnv("MAILGUN_DOMAIN", ""),
			APIKey:    getEnv("MAILGUN_API_KEY", ""),
			FromName:  getEnv("EMAIL_FROM_NAME", "Atlas Store"),
			FromEmail: getEnv("EMAIL_FROM_EMAIL", "no-reply@localhost"),
		},
		Uploads: UploadsConfig{
			Dir: getEnv("UPLOADS_DIR", "uploads"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
