package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"

	"armario-mascota-mockups/app/controller"
	"armario-mascota-mockups/app/router"
	"armario-mascota-mockups/db"
	"armario-mascota-mockups/repository"
	"armario-mascota-mockups/service"
)

// App is the wired application
type App struct {
	Config *Config
	Engine *gin.Engine

	closers []func() error
}

// Initialize initializes the application
func Initialize(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	a := &App{Config: cfg}

	// Placement registry (built-in table unless overridden)
	registry := service.NewDefaultPlacementRegistry()
	if cfg.PlacementTable != "" {
		registry, err = service.LoadPlacementTable(cfg.PlacementTable, cfg.Canvas)
		if err != nil {
			return nil, fmt.Errorf("failed to load placement table: %w", err)
		}
		log.Printf("✓ Placement table %s loaded from %s", registry.Version(), cfg.PlacementTable)
	} else if cfg.Canvas != registry.Canvas() {
		registry, err = service.NewPlacementRegistry(service.PlacementTableVersion, cfg.Canvas, service.DefaultPlacementTable)
		if err != nil {
			return nil, fmt.Errorf("built-in placement table does not fit canvas %dx%d: %w", cfg.Canvas.Width, cfg.Canvas.Height, err)
		}
	}

	cacheStore, err := a.cacheStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	templateStore, err := repository.NewDiskArtifactStore(cfg.TemplateDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open template directory: %w", err)
	}

	fetcher, err := a.designFetcher(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	fallback, err := loadFallbackImage(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	templates := service.NewTemplateLoader(templateStore)
	cache := service.NewCacheCoordinator(cacheStore)
	limiter := service.NewWorkLimiter(cfg.CompositeConcurrency)
	mockupService := service.NewMockupService(service.MockupServiceDeps{
		Classifier: service.NewDefaultProductClassifier(),
		Registry:   registry,
		Extractor:  service.NewDesignExtractor(),
		Positioner: service.NewPositioner(),
		Compositor: service.NewCompositor(cfg.Canvas, limiter),
		Templates:  templates,
		Fetcher:    fetcher,
		Cache:      cache,
		Limiter:    limiter,
	}, fallback, cfg.GenerationTimeout)

	controllers := &router.Controllers{
		Mockup:    controller.NewMockupController(mockupService, service.NewWarmService(mockupService, templates, cache)),
		Placement: controller.NewPlacementController(registry),
	}
	a.Engine = router.SetupRoutes(controllers)

	log.Printf("✓ Mockup service ready (cache=%s, source=%s, canvas=%dx%d, timeout=%s, concurrency=%d)",
		cfg.CacheBackend, cfg.DesignSource, cfg.Canvas.Width, cfg.Canvas.Height, cfg.GenerationTimeout, cfg.CompositeConcurrency)
	return a, nil
}

// Close releases external clients opened during Initialize
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) cacheStore(ctx context.Context) (repository.ArtifactStore, error) {
	cfg := a.Config
	switch cfg.CacheBackend {
	case CacheBackendMemory:
		log.Printf("⚠️  Using in-memory cache; artifacts are lost on restart")
		return repository.NewMemoryArtifactStore(), nil
	case CacheBackendGCS:
		var opts []option.ClientOption
		if cfg.CredentialsPath != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
		}
		client, err := storage.NewClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		log.Printf("✓ Using GCS cache bucket %s", cfg.GCSBucket)
		return repository.NewGCSArtifactStore(client, cfg.GCSBucket, ""), nil
	default:
		store, err := repository.NewDiskArtifactStore(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache directory: %w", err)
		}
		log.Printf("✓ Using disk cache at %s", cfg.CacheDir)
		return store, nil
	}
}

func (a *App) designFetcher(ctx context.Context) (*service.DesignAssetFetcher, error) {
	cfg := a.Config
	switch cfg.DesignSource {
	case DesignSourceDrive:
		conn, err := db.Open(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, conn.Close)

		driveService, err := service.NewDriveService(ctx, cfg.CredentialsPath)
		if err != nil {
			return nil, err
		}
		resolver := service.NewDriveSourceResolver(repository.NewDesignSourceRepository(conn))
		return service.NewDesignAssetFetcher(resolver, driveService, cfg.FetchRatePerSecond, cfg.MinDesignBytes), nil
	default:
		resolver, err := service.NewURLPatternResolver(cfg.DesignURLPattern)
		if err != nil {
			return nil, err
		}
		client := service.NewHTTPAssetClient(cfg.GenerationTimeout)
		return service.NewDesignAssetFetcher(resolver, client, cfg.FetchRatePerSecond, cfg.MinDesignBytes), nil
	}
}

// loadFallbackImage reads the configured fallback image, rendering a plain
// placeholder when the file does not exist
func loadFallbackImage(cfg *Config) ([]byte, error) {
	data, err := os.ReadFile(cfg.FallbackImage)
	if err == nil {
		if _, decErr := service.DecodeImage(data); decErr != nil {
			return nil, fmt.Errorf("fallback image %s is not a valid image: %w", cfg.FallbackImage, decErr)
		}
		log.Printf("✓ Fallback image loaded from %s", cfg.FallbackImage)
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read fallback image: %w", err)
	}
	log.Printf("⚠️  Fallback image %s not found, rendering placeholder", cfg.FallbackImage)
	return service.RenderPlaceholder(cfg.Canvas)
}
