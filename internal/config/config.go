// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes settings for logging,
// the database connection, metrics output, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DBConfig defines the persistence backend.
type DBConfig struct {
	Driver        string        // DB_DRIVER: sqlite|postgres
	Path          string        // DB_PATH: SQLite file
	URL           string        // DATABASE_URL: PostgreSQL DSN
	MaxOpenConns  int           // DB_MAX_OPEN_CONNS
	SlowThreshold time.Duration // DB_SLOW_QUERY: queries slower than this log at warn
	RedactSQL     bool          // DB_LOG_REDACT: scrub phone numbers and emails from traced SQL
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-blog-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// Persistence
	DB DBConfig

	// Metrics
	MetricsTextfile string // optional *.prom path for the node-exporter textfile collector

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := FromEnv()
	if err := cfg.Normalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FromEnv reads the environment and applies defaults without validating.
func FromEnv() Config {
	return Config{
		// Logging
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogPretty: getbool("LOG_PRETTY", false),

		// Persistence
		DB: DBConfig{
			Driver:        getenv("DB_DRIVER", DriverSQLite),
			Path:          getenv("DB_PATH", "blog.db"),
			URL:           getenv("DATABASE_URL", ""),
			MaxOpenConns:  getint("DB_MAX_OPEN_CONNS", 10),
			SlowThreshold: getdur("DB_SLOW_QUERY", 200*time.Millisecond),
			RedactSQL:     getbool("DB_LOG_REDACT", true),
		},

		// Metrics
		MetricsTextfile: getenv("METRICS_TEXTFILE", ""),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-blog-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}
}

// Normalize canonicalizes spellings and validates the result. Load calls it;
// callers that override fields after Load (CLI flags) call it again.
func (c *Config) Normalize() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))

	// --- normalization ---
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	if c.DB.Driver == "postgresql" || c.DB.Driver == "pgx" {
		c.DB.Driver = DriverPostgres
	}

	// --- validation ---
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	switch c.DB.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.DB.Path) == "" {
			return errors.New("DB_PATH must not be empty")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DB.URL) == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if c.DB.MaxOpenConns < 1 {
		return errors.New("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if c.DB.SlowThreshold < 0 {
		return errors.New("DB_SLOW_QUERY must be >= 0")
	}
	if c.MetricsTextfile != "" && !strings.HasSuffix(c.MetricsTextfile, ".prom") {
		return errors.New("METRICS_TEXTFILE must end in .prom")
	}
	if c.OTEL.SampleRatio < 0 || c.OTEL.SampleRatio > 1 {
		return errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
