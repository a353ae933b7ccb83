package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "CANVAS_WIDTH", "CANVAS_HEIGHT", "GENERATION_TIMEOUT", "COMPOSITE_CONCURRENCY",
		"CACHE_BACKEND", "CACHE_DIR", "GCS_BUCKET", "TEMPLATE_DIR", "PLACEMENT_TABLE", "FALLBACK_IMAGE",
		"DESIGN_SOURCE", "MIN_DESIGN_BYTES", "FETCH_RATE_PER_SECOND", "GOOGLE_APPLICATION_CREDENTIALS",
		"DATABASE_URL", "DB_HOST", "DB_USER", "DB_NAME",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("DESIGN_URL_PATTERN", "https://designs.example.com/%s.png")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 826, cfg.Canvas.Width)
	assert.Equal(t, 1011, cfg.Canvas.Height)
	assert.Equal(t, 12*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, 2, cfg.CompositeConcurrency)
	assert.Equal(t, CacheBackendDisk, cfg.CacheBackend)
	assert.Equal(t, "cache", cfg.CacheDir)
	assert.Equal(t, "templates", cfg.TemplateDir)
	assert.Equal(t, DesignSourceHTTP, cfg.DesignSource)
	assert.Equal(t, 7000, cfg.MinDesignBytes)
	assert.Equal(t, 5.0, cfg.FetchRatePerSecond)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", ":9090")
	t.Setenv("GENERATION_TIMEOUT", "3s")
	t.Setenv("COMPOSITE_CONCURRENCY", "6")
	t.Setenv("CACHE_BACKEND", "GCS")
	t.Setenv("GCS_BUCKET", "mockups")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, 6, cfg.CompositeConcurrency)
	assert.Equal(t, CacheBackendGCS, cfg.CacheBackend)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad width", map[string]string{"CANVAS_WIDTH": "wide"}},
		{"bad timeout", map[string]string{"GENERATION_TIMEOUT": "12"}},
		{"zero concurrency", map[string]string{"COMPOSITE_CONCURRENCY": "0"}},
		{"unknown backend", map[string]string{"CACHE_BACKEND": "redis"}},
		{"gcs without bucket", map[string]string{"CACHE_BACKEND": "gcs"}},
		{"http without pattern", map[string]string{"DESIGN_URL_PATTERN": ""}},
		{"drive without credentials", map[string]string{"DESIGN_SOURCE": "drive"}},
		{"drive without database", map[string]string{"DESIGN_SOURCE": "drive", "GOOGLE_APPLICATION_CREDENTIALS": "creds.json"}},
		{"bad rate", map[string]string{"FETCH_RATE_PER_SECOND": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_DriveSource(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DESIGN_SOURCE", "drive")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "creds.json")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/mockups")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DesignSourceDrive, cfg.DesignSource)
}
