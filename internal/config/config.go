package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Redis, used for sessions and onboarding flags when set
	RedisURL string

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string

	// OIDC
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// External AI / Reddit backend
	BackendURL     string
	BackendAPIKey  string
	BackendTimeout time.Duration

	// Jobs
	StatsRefreshInterval time.Duration // 0 disables the keyword stats refresher

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "Plum"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
	SiteLogoURL string // env: SITE_LOGO_URL, default: "" (no logo, text only)
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:                  getEnv("ENV", "development"),
		ServerAddr:           getEnv("SERVER_ADDR", ":3000"),
		BaseURL:              getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL:          getEnv("DATABASE_URL", "postgres://localhost:5432/plum?sslmode=disable"),
		RedisURL:             getEnv("REDIS_URL", ""),
		TLSEnabled:           getEnv("TLS_ENABLED", "") != "",
		TLSCertFile:          getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:           getEnv("TLS_KEY_FILE", ""),
		OIDCIssuer:           getEnv("OIDC_ISSUER", ""),
		OIDCClientID:         getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret:     getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:      getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		SessionSecret:        getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:          getEnv("CORS_ORIGINS", ""),
		BackendURL:           getEnv("BACKEND_URL", "http://localhost:8000"),
		BackendAPIKey:        getEnv("BACKEND_API_KEY", ""),
		BackendTimeout:       getDuration("BACKEND_TIMEOUT", 30*time.Second),
		StatsRefreshInterval: getDuration("STATS_REFRESH_INTERVAL", time.Hour),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "text"),

		SiteTitle:   getEnv("SITE_TITLE", "Plum"),
		SiteTagline: getEnv("SITE_TAGLINE", "Find the conversations your customers are already having"),
		SiteFooter:  getEnv("SITE_FOOTER", "Plum - social engagement for brands"),
		SiteLogoURL: getEnv("SITE_LOGO_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getDuration parses a Go duration string ("90s", "1h"). Invalid values fall back.
func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsRedisEnabled returns true if a Redis URL is configured.
func (c *Config) IsRedisEnabled() bool {
	return c.RedisURL != ""
}
