// Package config provides runtime configuration values for the UI and the API simulator.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds configuration knobs for both binaries.
type Config struct {
	HTTPAddr             string
	APIURL               string
	APIAddr              string
	APITimeout           time.Duration
	ShutdownTimeout      time.Duration
	SessionIdleTimeout   time.Duration
	SessionSweepInterval time.Duration
	CORSAllowOrigin      string
	SeedDemo             bool

	OrderCompletionDelay    time.Duration
	OrderWorkers            int
	OrderQueueHighWatermark int

	LogLevel slog.Level
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func posatoienv(key string, def int) int {
	if n := atoienv(key, def); n > 0 {
		return n
	}
	return def
}

// durenvms and durenvs read positive durations; zero or negative values fall
// back to the default.
func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	if ms <= 0 {
		ms = defMs
	}
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	if sec <= 0 {
		sec = defSec
	}
	return time.Duration(sec) * time.Second
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func levelenv(key string, def slog.Level) slog.Level {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		return def
	}
	return l
}

// loadDotenv merges a dotenv file into the process environment. Variables
// already set win; a missing file is not an error.
func loadDotenv() {
	path := getenv("ENV_FILE", ".env")
	_ = godotenv.Load(path)
}

// Load collects configuration from the environment with defaults.
func Load() Config {
	loadDotenv()
	return Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":3000"),
		APIURL:               strings.TrimRight(getenv("API_URL", "http://localhost:8000"), "/"),
		APIAddr:              getenv("API_ADDR", ":8000"),
		APITimeout:           durenvms("API_TIMEOUT_MS", 5000),
		ShutdownTimeout:      durenvs("SHUTDOWN_TIMEOUT", 15),
		SessionIdleTimeout:   durenvs("SESSION_IDLE_TIMEOUT", 1800),
		SessionSweepInterval: durenvs("SESSION_SWEEP_INTERVAL", 60),
		CORSAllowOrigin:      getenv("CORS_ALLOW_ORIGIN", "http://localhost:3000"),
		SeedDemo:             boolenv("API_SEED_DEMO", false),

		OrderCompletionDelay:    durenvms("ORDER_COMPLETION_DELAY_MS", 5000),
		OrderWorkers:            posatoienv("ORDER_WORKERS", 2),
		OrderQueueHighWatermark: atoienv("ORDER_QUEUE_HIGH_WATERMARK", 1000),

		LogLevel: levelenv("LOG_LEVEL", slog.LevelInfo),
	}
}
