package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORE_BACKEND", "ADVISORY_API_KEY", "HTTP_PORT", "CAMERA_SOURCE", "ADVISORY_TIMEOUT", "SERVICE_NAME", "CORS_ALLOWED_ORIGINS", "OTEL_TRACES_SAMPLE_RATIO"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "aura-server", cfg.ServiceName)
	assert.Equal(t, StoreFile, cfg.StoreBackend)
	assert.Equal(t, CameraRelay, cfg.CameraSource)
	assert.Equal(t, 20*time.Second, cfg.AdvisoryTimeout)
	assert.Equal(t, ":8190", cfg.Addr())
	assert.False(t, cfg.AdvisoryEnabled(), "missing advisory key must not fail startup")
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 1.0, cfg.SampleRatio)
}

func TestLoadCORSOrigins(t *testing.T) {
	t.Setenv("STORE_BACKEND", StoreMemory)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "memory backend",
			mutate: func(c *Config) { c.StoreBackend = "Memory" },
		},
		{
			name:    "redis without url",
			mutate:  func(c *Config) { c.StoreBackend = StoreRedis },
			wantErr: "REDIS_URL",
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *Config) { c.StoreBackend = StorePostgres },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "mongo without uri",
			mutate:  func(c *Config) { c.StoreBackend = StoreMongo },
			wantErr: "MONGODB_URI",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.StoreBackend = "sqlite" },
			wantErr: "unsupported STORE_BACKEND",
		},
		{
			name:    "file camera without path",
			mutate:  func(c *Config) { c.CameraSource = CameraFile },
			wantErr: "CAMERA_FILE_PATH",
		},
		{
			name:    "sample ratio above one",
			mutate:  func(c *Config) { c.SampleRatio = 1.5 },
			wantErr: "OTEL_TRACES_SAMPLE_RATIO",
		},
		{
			name:    "negative cache size",
			mutate:  func(c *Config) { c.StoreCacheSize = -1 },
			wantErr: "STORE_CACHE_SIZE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{StoreBackend: StoreFile, StoreDir: "./data", CameraSource: CameraRelay}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
