package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Ceilings on the search budgets a request may ask for
const (
	DefaultMaxNodesCap = 100000
	DefaultMaxTimeCap  = 30 * time.Second
)

// ServerConfig holds everything the HTTP server reads from the environment
type ServerConfig struct {
	Port          string
	DatabaseURL   string
	DataPath      string
	JWTSecret     string
	MasterSecret  string
	AdminUsername string
	AdminPassword string
	LogLevel      string
	LogPretty     bool
	GinMode       string
	// PlannerConfig is an optional YAML file with planner defaults
	PlannerConfig string
	// KeyRatePerSec caps burst traffic per API key; 0 disables it.
	KeyRatePerSec int
	// MaxNodesCap and MaxTimeCap bound request budgets; 0 disables a cap.
	MaxNodesCap int
	MaxTimeCap  time.Duration
}

// ServerFromEnv reads the server settings, filling in the defaults the API has always used
func ServerFromEnv() ServerConfig {
	cfg := ServerConfig{
		Port:          getenv("PORT", "8000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DataPath:      getenv("DATA_PATH", "api_keys.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		MasterSecret:  os.Getenv("API_MASTER_SECRET"),
		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		GinMode:       os.Getenv("GIN_MODE"),
		PlannerConfig: os.Getenv("PLANNER_CONFIG"),
		KeyRatePerSec: 5,
		MaxNodesCap:   DefaultMaxNodesCap,
		MaxTimeCap:    DefaultMaxTimeCap,
	}
	if v := strings.ToLower(os.Getenv("LOG_PRETTY")); v == "1" || v == "true" {
		cfg.LogPretty = true
	}
	if n, ok := nonNegative("API_KEY_RATE_PER_SEC"); ok {
		cfg.KeyRatePerSec = n
	}
	if n, ok := nonNegative("PLANNER_MAX_NODES_CAP"); ok {
		cfg.MaxNodesCap = n
	}
	if n, ok := nonNegative("PLANNER_MAX_TIME_MS_CAP"); ok {
		cfg.MaxTimeCap = time.Duration(n) * time.Millisecond
	}
	return cfg
}

func nonNegative(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
