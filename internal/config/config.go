package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Auth    AuthConfig
	Notion  NotionConfig
	YouTube YouTubeConfig
	Gemini  GeminiConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type AuthConfig struct {
	SitePassword    string
	TokenSecret     string
	SessionMaxAge   time.Duration
	MaxAttempts     int
	LockoutDuration time.Duration
}

type NotionConfig struct {
	APIKey     string
	DatabaseID string
	Category   string
}

type YouTubeConfig struct {
	ChannelID         string
	TranscriptScript  string
	TranscriptTimeout time.Duration
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load reads configuration from the environment (and an optional .env file).
// SITE_PASSWORD is the only required variable: without it the whole site is
// inaccessible, so startup fails fast. Missing upstream credentials only
// disable the corresponding live data path.
func Load() (*Config, error) {
	_ = godotenv.Load()

	sitePassword := getEnv("SITE_PASSWORD", "")
	if sitePassword == "" {
		return nil, fmt.Errorf("SITE_PASSWORD is required")
	}

	env := getEnv("ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:     getEnv("PORT", "8080"),
			Env:      env,
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			SitePassword:    sitePassword,
			TokenSecret:     getEnv("AUTH_SECRET", "bk-investment-hmac-secret"),
			SessionMaxAge:   getEnvAsDuration("SESSION_MAX_AGE", 30*24*time.Hour),
			MaxAttempts:     getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
			LockoutDuration: getEnvAsDuration("LOGIN_LOCKOUT_DURATION", 60*time.Second),
		},
		Notion: NotionConfig{
			APIKey:     getEnv("NOTION_API_KEY", ""),
			DatabaseID: getEnv("NOTION_DATABASE_ID", ""),
			Category:   getEnv("NOTION_CATEGORY", "Video"),
		},
		YouTube: YouTubeConfig{
			ChannelID:         getEnv("YOUTUBE_CHANNEL_ID", "UCRvqjQPSeaWn-uEx-w0XOIg"),
			TranscriptScript:  getEnv("TRANSCRIPT_SCRIPT", "scripts/fetch_transcript.py"),
			TranscriptTimeout: getEnvAsDuration("TRANSCRIPT_TIMEOUT", 30*time.Second),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
	}

	if err := validateTokenSecret(cfg.Auth.TokenSecret, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateTokenSecret enforces minimum strength for the HMAC signing secret
func validateTokenSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("AUTH_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("AUTH_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
