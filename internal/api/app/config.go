package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sicc-salud/siccapi/pkg/jwtx"
)

type Config struct {
	JWTSecret      string        // Required: base64 HMAC key for session tokens
	AccessTTL      time.Duration // Optional: access token lifetime (default: 30m)
	RefreshTTL     time.Duration // Optional: refresh token lifetime (default: 720h)
	AllowedOrigins []string      // Browser origins allowed to send credentials (required in prod)
	DatabaseFile   string        // Optional: path to SQLite database file (default: ./sicc.db)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		JWTSecret:           os.Getenv("SICC_JWT_SECRET"),
		AccessTTL:           getEnvDurationOrDefault("SICC_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:          getEnvDurationOrDefault("SICC_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		AllowedOrigins:      splitCommaList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		DatabaseFile:        getEnvOrDefault("SICC_DATABASE_FILE", "sicc.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// IsProd reports whether the config targets the production environment,
// which hardens cookie attributes and makes the CORS allow-list mandatory.
func (c Config) IsProd() bool {
	return strings.EqualFold(c.Env, "prod")
}

func splitCommaList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are read as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
