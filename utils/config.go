package utils

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything main needs to wire the service.
type Config struct {
	Port           string
	AllowedOrigins []string
	DatabaseURL    string
	SeedFile       string
	GatewayToken   string

	IntentionHold        time.Duration
	SessionIdleTTL       time.Duration
	SessionSweepInterval time.Duration

	Log LogConfig
}

// LoadConfig reads .env (if present) and then the process environment.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return ConfigFromEnv(os.Getenv)
}

// ConfigFromEnv builds a Config from getenv, applying defaults for unset or
// malformed values.
func ConfigFromEnv(getenv func(string) string) Config {
	cfg := Config{
		Port:                 getenv("PORT"),
		DatabaseURL:          getenv("DATABASE_URL"),
		SeedFile:             getenv("SEED_FILE"),
		GatewayToken:         getenv("GATEWAY_TOKEN"),
		IntentionHold:        durationMS(getenv("INTENTION_HOLD_MS"), 1500*time.Millisecond),
		SessionIdleTTL:       duration(getenv("SESSION_IDLE_TTL"), 12*time.Hour),
		SessionSweepInterval: duration(getenv("SESSION_SWEEP_INTERVAL"), 10*time.Minute),
	}
	if cfg.Port == "" {
		cfg.Port = "5200"
	}

	origins := getenv("ALLOWED_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	cfg.Log.Dev = getenv("LOG_DEV") == "1"
	cfg.Log.Level = getenv("LOG_LEVEL")
	if cfg.Log.Level == "" {
		if cfg.Log.Dev {
			cfg.Log.Level = "debug"
		} else {
			cfg.Log.Level = "info"
		}
	}
	return cfg
}

func durationMS(raw string, fallback time.Duration) time.Duration {
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func duration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
