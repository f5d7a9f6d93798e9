package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment      string
	AppName          string
	Port             string
	LogLevel         slog.Level
	LogFormat        string
	HiAnimeAPIURL    string
	GatewayTimeout   time.Duration
	SeedPath         string
	CORSAllowOrigins string
	ShutdownTimeout  time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:      getEnv("APP_ENV", "development"),
		AppName:          getEnv("APP_NAME", "kitsune"),
		Port:             getEnv("APP_PORT", "8080"),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "json")),
		HiAnimeAPIURL:    getEnv("HIANIME_API_URL", "http://localhost:4000"),
		GatewayTimeout:   getEnvAsDuration("GATEWAY_TIMEOUT", 10*time.Second),
		SeedPath:         getEnv("SEED_PATH", "./seeds"),
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		ShutdownTimeout:  getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = 10 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return Config{}, fmt.Errorf("invalid LOG_FORMAT %q, expected json|text", cfg.LogFormat)
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "INFO"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q, expected DEBUG|INFO|WARN|ERROR", raw)
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvAsDuration accepts Go durations ("15s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if seconds := getEnvAsInt(key, -1); seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
