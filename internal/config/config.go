package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
)

// DefaultSessionSecret is only fit for local development.
const DefaultSessionSecret = "dev-secret-key-change-in-production"

var ErrInsecureSessionSecret = errors.New("SESSION_SECRET must be set in release mode")

type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	DatabaseURL     string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	SQLMigrations   bool
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	SessionSecret   string
	AppURL          string
	GoogleClientID  string
	GoogleSecret    string
	OAuthLinkPolicy string
	EnableTestLogin bool
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	MediaPublicURL  string
}

func Load() *Config {
	cfg := &Config{
		Port:            getEnv("PORT", "5000"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DBHost:          getEnv("DB_HOST", ""),
		DBPort:          getEnv("DB_PORT", "3306"),
		DBUser:          getEnv("DB_USER", "circleone"),
		DBPassword:      getEnv("DB_PASSWORD", ""),
		DBName:          getEnv("DB_NAME", "circleone"),
		SQLMigrations:   parseBool("SQL_MIGRATIONS", false),
		RedisHost:       getEnv("REDIS_HOST", ""),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		SessionSecret:   getEnv("SESSION_SECRET", DefaultSessionSecret),
		GoogleClientID:  getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthLinkPolicy: getEnv("OAUTH_LINK_POLICY", "merge"),
		EnableTestLogin: parseBool("ENABLE_TEST_LOGIN", false),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		MediaPublicURL:  getEnv("MEDIA_PUBLIC_URL", ""),
	}
	cfg.AppURL = normalizeAppURL(getEnv("APP_URL", getEnv("RAILWAY_PUBLIC_DOMAIN", "http://localhost:5000")))
	return cfg
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// Validate refuses settings that are unsafe to serve with. The session secret
// signs both the session cookie and the OAuth state.
func (c *Config) Validate() error {
	if c.IsProduction() && (c.SessionSecret == "" || c.SessionSecret == DefaultSessionSecret) {
		return ErrInsecureSessionSecret
	}
	return nil
}

// GoogleConfigured reports whether real Google credentials were provided.
func (c *Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientID != "your-google-client-id"
}

// MediaConfigured reports whether uploads can be sent to object storage.
func (c *Config) MediaConfigured() bool {
	return c.S3Bucket != "" && c.MediaPublicURL != ""
}

// OAuthRedirectURL is the callback registered with the provider.
func (c *Config) OAuthRedirectURL(provider string) string {
	return c.AppURL + "/auth/" + provider + "/callback"
}

func normalizeAppURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u != "" && !strings.HasPrefix(u, "http") {
		u = "https://" + u
	}
	return u
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid boolean for %s: %s", key, v)
		return def
	}
	return b
}
