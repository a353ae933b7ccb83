package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"armario-mascota-mockups/db"
	"armario-mascota-mockups/models"
	"armario-mascota-mockups/service"
)

// Cache backends
const (
	CacheBackendDisk   = "disk"
	CacheBackendGCS    = "gcs"
	CacheBackendMemory = "memory"
)

// Design sources
const (
	DesignSourceDrive = "drive"
	DesignSourceHTTP  = "http"
)

// Config holds the service configuration read from the environment
type Config struct {
	Port                 string
	Canvas               models.Canvas
	GenerationTimeout    time.Duration
	CompositeConcurrency int
	CacheBackend         string
	CacheDir             string
	GCSBucket            string
	TemplateDir          string
	PlacementTable       string
	FallbackImage        string
	DesignSource         string
	DesignURLPattern     string
	MinDesignBytes       int
	FetchRatePerSecond   float64
	CredentialsPath      string
}

// LoadConfig reads the configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             strings.TrimPrefix(getEnv("PORT", "8080"), ":"),
		CacheBackend:     strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendDisk)),
		CacheDir:         getEnv("CACHE_DIR", "cache"),
		GCSBucket:        os.Getenv("GCS_BUCKET"),
		TemplateDir:      getEnv("TEMPLATE_DIR", "templates"),
		PlacementTable:   os.Getenv("PLACEMENT_TABLE"),
		FallbackImage:    getEnv("FALLBACK_IMAGE", "static/fallback.png"),
		DesignSource:     strings.ToLower(getEnv("DESIGN_SOURCE", DesignSourceHTTP)),
		DesignURLPattern: os.Getenv("DESIGN_URL_PATTERN"),
		CredentialsPath:  os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	}

	var err error
	if cfg.Canvas.Width, err = getInt("CANVAS_WIDTH", models.DefaultCanvas.Width); err != nil {
		return nil, err
	}
	if cfg.Canvas.Height, err = getInt("CANVAS_HEIGHT", models.DefaultCanvas.Height); err != nil {
		return nil, err
	}
	if cfg.CompositeConcurrency, err = getInt("COMPOSITE_CONCURRENCY", 2); err != nil {
		return nil, err
	}
	if cfg.MinDesignBytes, err = getInt("MIN_DESIGN_BYTES", service.MinDesignBytes); err != nil {
		return nil, err
	}
	if cfg.FetchRatePerSecond, err = getFloat("FETCH_RATE_PER_SECOND", 5); err != nil {
		return nil, err
	}
	if cfg.GenerationTimeout, err = getDuration("GENERATION_TIMEOUT", service.DefaultGenerationTimeout); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and backend-specific requirements
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.CompositeConcurrency < 1 {
		return fmt.Errorf("COMPOSITE_CONCURRENCY must be at least 1, got %d", c.CompositeConcurrency)
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive, got %s", c.GenerationTimeout)
	}
	if c.MinDesignBytes < 0 {
		return fmt.Errorf("MIN_DESIGN_BYTES must not be negative, got %d", c.MinDesignBytes)
	}
	if c.FetchRatePerSecond <= 0 {
		return fmt.Errorf("FETCH_RATE_PER_SECOND must be positive, got %v", c.FetchRatePerSecond)
	}

	switch c.CacheBackend {
	case CacheBackendDisk, CacheBackendMemory:
	case CacheBackendGCS:
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when CACHE_BACKEND=gcs")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q (want disk, gcs or memory)", c.CacheBackend)
	}

	switch c.DesignSource {
	case DesignSourceHTTP:
		if c.DesignURLPattern == "" {
			return fmt.Errorf("DESIGN_URL_PATTERN is required when DESIGN_SOURCE=http")
		}
	case DesignSourceDrive:
		if c.CredentialsPath == "" {
			return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS is required when DESIGN_SOURCE=drive")
		}
		if _, err := db.ConnectionString(); err != nil {
			return fmt.Errorf("DESIGN_SOURCE=drive needs PostgreSQL: %w", err)
		}
	default:
		return fmt.Errorf("unknown DESIGN_SOURCE %q (want drive or http)", c.DesignSource)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
