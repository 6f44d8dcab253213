package configs

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	PriceFeed  PriceFeedConfig
	Realtime   RealtimeConfig
	Protection ProtectionConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// PriceFeedConfig holds market-data polling configuration
type PriceFeedConfig struct {
	APIURL         string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	FallbackPrice  string
}

// RealtimeConfig holds push-channel configuration
type RealtimeConfig struct {
	BroadcastInterval time.Duration
}

// ProtectionConfig holds auto top-up and risk trigger configuration
type ProtectionConfig struct {
	AutoTopUpAmount    string
	TriggerWindow      time.Duration
	RiskSampleInterval time.Duration
	RiskWindowSize     int
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		PriceFeed: PriceFeedConfig{
			APIURL:         getEnv("PRICE_API_URL", "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=usd"),
			PollInterval:   getEnvDuration("PRICE_POLL_INTERVAL", 30*time.Second),
			RequestTimeout: getEnvDuration("PRICE_REQUEST_TIMEOUT", 10*time.Second),
			FallbackPrice:  getEnv("PRICE_FALLBACK", "31247.82"),
		},
		Realtime: RealtimeConfig{
			BroadcastInterval: getEnvDuration("BROADCAST_INTERVAL", 5*time.Second),
		},
		Protection: ProtectionConfig{
			AutoTopUpAmount:    getEnv("AUTO_TOPUP_AMOUNT", "1000"),
			TriggerWindow:      getEnvDuration("TRIGGER_WINDOW", 10*time.Second),
			RiskSampleInterval: getEnvDuration("RISK_SAMPLE_INTERVAL", 60*time.Second),
			RiskWindowSize:     getEnvInt("RISK_WINDOW_SIZE", 24),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
