package app

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Region         string // Required: AWS region of the user pool
	UserPoolID     string // Required: Cognito user pool id
	ClientID       string // Required: public (no secret) app client id
	ServerClientID string // Optional: confidential app client id for fallback
	ClientSecret   string // Optional: secret for the confidential client
	Issuer         string // Optional: derived from region + pool id when empty

	DownstreamBaseURL   string        // Optional: content API root; content proxy disabled when empty
	DownstreamClientID  string        // Optional: audience the content API accepts (default: ServerClientID)
	DatabaseFile        string        // Optional: path to SQLite audit database (empty disables auditing)
	CookieSecure        bool          // Secure flag on session cookies (default: true outside dev)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Region:         os.Getenv("COGNITO_REGION"),
		UserPoolID:     os.Getenv("COGNITO_USER_POOL_ID"),
		ClientID:       os.Getenv("COGNITO_CLIENT_ID"),
		ServerClientID: os.Getenv("COGNITO_SERVER_CLIENT_ID"),
		ClientSecret:   os.Getenv("COGNITO_CLIENT_SECRET"),
		Issuer:         os.Getenv("COGNITO_ISSUER"),

		DownstreamBaseURL:  os.Getenv("DOWNSTREAM_API_BASE"),
		DownstreamClientID: os.Getenv("DOWNSTREAM_CLIENT_ID"),
		DatabaseFile:       getEnvOrDefault("AUDIT_DATABASE_FILE", "authgate.db"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	// Cognito's issuer is fully determined by region and pool id.
	if cfg.Issuer == "" && cfg.Region != "" && cfg.UserPoolID != "" {
		cfg.Issuer = fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", cfg.Region, cfg.UserPoolID)
	}

	if cfg.DownstreamClientID == "" {
		cfg.DownstreamClientID = cfg.ServerClientID
	}

	cfg.CookieSecure = cfg.Env != "dev"
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		if secure, err := strconv.ParseBool(v); err == nil {
			cfg.CookieSecure = secure
		}
	}

	return cfg
}

// Validate reports the first missing required setting.
func (cfg Config) Validate() error {
	switch {
	case cfg.Region == "":
		return fmt.Errorf("COGNITO_REGION is required")
	case cfg.UserPoolID == "":
		return fmt.Errorf("COGNITO_USER_POOL_ID is required")
	case cfg.ClientID == "":
		return fmt.Errorf("COGNITO_CLIENT_ID is required")
	case cfg.ServerClientID != "" && cfg.ClientSecret == "":
		return fmt.Errorf("COGNITO_CLIENT_SECRET is required when COGNITO_SERVER_CLIENT_ID is set")
	}
	return nil
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

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
