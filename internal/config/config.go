package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Camera sources.
const (
	CameraRelay = "relay"
	CameraFile  = "file"
	CameraNone  = "none"
)

// Config holds all configuration for the aura server.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"aura-server"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8190"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	IDStrategy      string        `env:"ID_STRATEGY" envDefault:"ulid"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// OpenTelemetry
	EnableTracing bool          `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	SampleRatio   float64       `env:"OTEL_TRACES_SAMPLE_RATIO" envDefault:"1"`
	MetricPeriod  time.Duration `env:"OTEL_METRIC_EXPORT_INTERVAL" envDefault:"30s"`

	// Persisted store
	StoreBackend   string `env:"STORE_BACKEND" envDefault:"file"`
	StoreDir       string `env:"STORE_DIR" envDefault:"./data"`
	StoreNamespace string `env:"STORE_NAMESPACE" envDefault:"aura"`
	StoreCacheSize int    `env:"STORE_CACHE_SIZE" envDefault:"0"`
	RedisURL       string `env:"REDIS_URL"`
	DatabaseURL    string `env:"DATABASE_URL"`
	MongoURI       string `env:"MONGODB_URI"`
	MongoDatabase  string `env:"MONGODB_DATABASE" envDefault:"aura"`
	SeedFile       string `env:"SEED_FILE"`

	// Advisory service (OpenAI-compatible chat completions)
	AdvisoryAPIKey  string        `env:"ADVISORY_API_KEY"`
	AdvisoryBaseURL string        `env:"ADVISORY_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai"`
	AdvisoryModel   string        `env:"ADVISORY_MODEL" envDefault:"gemini-3-flash-preview"`
	AdvisoryTimeout time.Duration `env:"ADVISORY_TIMEOUT" envDefault:"20s"`

	// Background message audit
	AuditDrainTimeout time.Duration `env:"AUDIT_DRAIN_TIMEOUT" envDefault:"5s"`

	// Camera
	CameraSource   string `env:"CAMERA_SOURCE" envDefault:"relay"`
	CameraFilePath string `env:"CAMERA_FILE_PATH"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend-specific requirements.
// A missing advisory key is allowed: advisory calls degrade to their defaults.
func (c *Config) Validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	switch c.StoreBackend {
	case StoreMemory:
	case StoreFile:
		if strings.TrimSpace(c.StoreDir) == "" {
			return fmt.Errorf("STORE_DIR is required when STORE_BACKEND is file")
		}
	case StoreRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("REDIS_URL is required when STORE_BACKEND is redis")
		}
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is postgres")
		}
	case StoreMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("MONGODB_URI is required when STORE_BACKEND is mongo")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}

	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("OTEL_TRACES_SAMPLE_RATIO must be between 0 and 1")
	}

	if c.StoreCacheSize < 0 {
		return fmt.Errorf("STORE_CACHE_SIZE must not be negative")
	}

	c.CameraSource = strings.ToLower(strings.TrimSpace(c.CameraSource))
	switch c.CameraSource {
	case CameraRelay, CameraNone:
	case CameraFile:
		if strings.TrimSpace(c.CameraFilePath) == "" {
			return fmt.Errorf("CAMERA_FILE_PATH is required when CAMERA_SOURCE is file")
		}
	default:
		return fmt.Errorf("unsupported CAMERA_SOURCE %q", c.CameraSource)
	}

	return nil
}

// AdvisoryEnabled reports whether an advisory credential is configured.
func (c *Config) AdvisoryEnabled() bool {
	return strings.TrimSpace(c.AdvisoryAPIKey) != ""
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
