package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"armario-mascota-mockups/models"
	"armario-mascota-mockups/utils"
)

// DefaultGenerationTimeout bounds one generation attempt
const DefaultGenerationTimeout = 12 * time.Second

// MockupService runs the mockup pipeline:
// parse -> classify -> placement lookup -> cached composite? -> design asset ->
// cached intermediate? or extract + scale -> composite -> cache.
// Concurrent requests for the same composite share one generation.
// Implements MockupServiceInterface
type MockupService struct {
	classifier ProductClassifierInterface
	registry   PlacementRegistryInterface
	extractor  DesignExtractorInterface
	positioner PositionerInterface
	compositor CompositorInterface
	templates  TemplateLoaderInterface
	fetcher    DesignAssetFetcherInterface
	cache      CacheCoordinatorInterface
	limiter    *WorkLimiter

	fallback            []byte
	fallbackContentType string
	timeout             time.Duration
	inflight            singleflight.Group
}

// Ensure MockupService implements MockupServiceInterface
var _ MockupServiceInterface = (*MockupService)(nil)

// MockupServiceDeps groups the pipeline collaborators
type MockupServiceDeps struct {
	Classifier ProductClassifierInterface
	Registry   PlacementRegistryInterface
	Extractor  DesignExtractorInterface
	Positioner PositionerInterface
	Compositor CompositorInterface
	Templates  TemplateLoaderInterface
	Fetcher    DesignAssetFetcherInterface
	Cache      CacheCoordinatorInterface
	// Limiter bounds image decode, trim and resize work; pass the compositor's limiter
	Limiter *WorkLimiter
}

// NewMockupService creates a new MockupService. fallback is the image served whenever
// generation fails; timeout <= 0 selects DefaultGenerationTimeout.
func NewMockupService(deps MockupServiceDeps, fallback []byte, timeout time.Duration) *MockupService {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	limiter := deps.Limiter
	if limiter == nil {
		limiter = NewWorkLimiter(1)
	}
	return &MockupService{
		classifier: deps.Classifier,
		registry:   deps.Registry,
		extractor:  deps.Extractor,
		positioner: deps.Positioner,
		compositor: deps.Compositor,
		templates:  deps.Templates,
		fetcher:    deps.Fetcher,
		cache:      deps.Cache,
		limiter:    limiter,
		fallback:   fallback,
		timeout:    timeout,

		fallbackContentType: http.DetectContentType(fallback),
	}
}

// Generate returns the composite for request, from cache when present.
// It never fails: every error is logged and turned into the fallback image.
func (s *MockupService) Generate(ctx context.Context, request string) models.CompositeResult {
	id, err := utils.ParseRequestIdentifier(request)
	if err != nil {
		return s.fallbackResult(request, err)
	}

	key := s.cache.CompositeCacheKey(id.TemplateID, id.DesignNumber, id.Extension)
	contentType := utils.MapExtensionToContentType(id.Extension)

	if data, found, err := s.cache.Lookup(ctx, key); err != nil {
		log.Printf("⚠️  Cache lookup failed for %s, regenerating: %v", key, err)
	} else if found {
		log.Printf("✓ Cache hit: %s", key)
		return models.CompositeResult{Data: data, ContentType: contentType, CacheHit: true}
	}

	ch := s.inflight.DoChan(key, func() (interface{}, error) {
		// the generation outlives any single caller; it is bounded by its own timeout
		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		data, err := s.generate(genCtx, *id, key)
		if err != nil && genCtx.Err() != nil && !errors.Is(err, models.ErrGenerationTimeout) {
			err = fmt.Errorf("%w: %v", models.ErrGenerationTimeout, err)
		}
		return data, err
	})

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.Err != nil {
			return s.fallbackResult(request, res.Err)
		}
		return models.CompositeResult{Data: res.Val.([]byte), ContentType: contentType}
	case <-timer.C:
		return s.fallbackResult(request, fmt.Errorf("%w after %s", models.ErrGenerationTimeout, s.timeout))
	case <-ctx.Done():
		return s.fallbackResult(request, fmt.Errorf("%w: %v", models.ErrGenerationTimeout, ctx.Err()))
	}
}

func (s *MockupService) generate(ctx context.Context, id models.RequestIdentifier, key string) ([]byte, error) {
	start := time.Now()

	productType, ok := s.classifier.Classify(id.TemplateID)
	if !ok {
		log.Printf("⚠️  %v: %s, using the base product type", models.ErrClassificationAmbiguous, id.TemplateID)
	}
	spec := s.registry.Lookup(productType)
	canvas := s.registry.Canvas()
	log.Printf("🔍 %s classified as %s (reposition=%v)", id.TemplateID, productType, spec.RepositionRequired)

	var base image.Image
	err := s.limiter.Do(ctx, func() error {
		var err error
		base, err = s.templates.Load(ctx, id.TemplateID)
		return err
	})
	if err != nil {
		return nil, err
	}

	overlay, pos, err := s.prepareOverlay(ctx, id.DesignNumber, productType, spec, canvas)
	if err != nil {
		return nil, err
	}

	if err := checkTimeout(ctx); err != nil {
		return nil, err
	}

	data, err := s.compositor.Composite(ctx, base, overlay, pos, id.Extension)
	if err != nil {
		return nil, err
	}

	if err := checkTimeout(ctx); err != nil {
		return nil, err
	}
	if err := s.cache.Store(ctx, key, data); err != nil {
		log.Printf("⚠️  Serving uncached composite %s: %v", key, err)
	}

	log.Printf("✅ Generated %s in %s", key, time.Since(start).Round(time.Millisecond))
	return data, nil
}

// prepareOverlay returns the design image to overlay and its position. For repositioned
// product types the scaled design is cached per (designNumber, productType, placement version).
func (s *MockupService) prepareOverlay(ctx context.Context, designNumber string, productType models.ProductType, spec models.PlacementSpec, canvas models.Canvas) (image.Image, models.Position, error) {
	intermediateKey := s.cache.IntermediateCacheKey(designNumber, productType, s.registry.Version())
	if spec.RepositionRequired {
		data, found, err := s.cache.Lookup(ctx, intermediateKey)
		if err != nil {
			log.Printf("⚠️  Cache lookup failed for %s: %v", intermediateKey, err)
		}
		if found {
			var img image.Image
			err := s.limiter.Do(ctx, func() error {
				var err error
				img, err = DecodeImage(data)
				return err
			})
			if err == nil {
				b := img.Bounds()
				log.Printf("✓ Cache hit: %s", intermediateKey)
				return img, s.positioner.Anchor(b.Dx(), b.Dy(), spec, canvas), nil
			}
			if errors.Is(err, models.ErrGenerationTimeout) {
				return nil, models.Position{}, err
			}
			log.Printf("⚠️  Cached intermediate %s is unreadable, rebuilding: %v", intermediateKey, err)
		}
	}

	asset, err := s.designAsset(ctx, designNumber)
	if err != nil {
		return nil, models.Position{}, err
	}
	if err := checkTimeout(ctx); err != nil {
		return nil, models.Position{}, err
	}

	var (
		overlay      image.Image
		pos          models.Position
		intermediate []byte
	)
	err = s.limiter.Do(ctx, func() error {
		var err error
		overlay, pos, intermediate, err = s.placeDesign(*asset, spec, canvas)
		return err
	})
	if err != nil {
		return nil, models.Position{}, err
	}

	if intermediate != nil {
		_ = s.cache.Store(ctx, intermediateKey, intermediate)
	}
	return overlay, pos, nil
}

// placeDesign decodes the design and, for repositioned product types, trims and scales
// it into the placement box. The returned PNG is the intermediate to cache, or nil.
// Callers hold a WorkLimiter slot.
func (s *MockupService) placeDesign(asset models.DesignAsset, spec models.PlacementSpec, canvas models.Canvas) (image.Image, models.Position, []byte, error) {
	if !spec.RepositionRequired {
		img, err := DecodeImage(asset.Data)
		if err != nil {
			return nil, models.Position{}, nil, fmt.Errorf("%w: design %s: %v", models.ErrAssetFetchFailed, asset.Number, err)
		}
		b := img.Bounds()
		pos, err := s.positioner.PlaceOn(b.Dx(), b.Dy(), spec, canvas)
		if err != nil {
			return nil, models.Position{}, nil, err
		}
		return img, pos, nil, nil
	}

	var img image.Image
	extracted, err := s.extractor.Extract(asset)
	if err != nil {
		log.Printf("⚠️  %v, using the untrimmed design", err)
		img, err = DecodeImage(asset.Data)
		if err != nil {
			return nil, models.Position{}, nil, fmt.Errorf("%w: design %s: %v", models.ErrAssetFetchFailed, asset.Number, err)
		}
	} else {
		img = extracted.Image
	}

	b := img.Bounds()
	pos, err := s.positioner.PlaceOn(b.Dx(), b.Dy(), spec, canvas)
	if err != nil {
		return nil, models.Position{}, nil, err
	}

	scaled := ResizeDesign(img, pos.Width, pos.Height)
	encoded, err := EncodeImage(scaled, "png")
	if err != nil {
		log.Printf("⚠️  Could not encode intermediate for design %s: %v", asset.Number, err)
		encoded = nil
	}
	return scaled, pos, encoded, nil
}

// designAsset returns the cached design asset or fetches and caches it
func (s *MockupService) designAsset(ctx context.Context, designNumber string) (*models.DesignAsset, error) {
	key := s.cache.DesignAssetCacheKey(designNumber)
	data, found, err := s.cache.Lookup(ctx, key)
	if err != nil {
		log.Printf("⚠️  Cache lookup failed for %s: %v", key, err)
	}
	if found {
		img, err := DecodeImage(data)
		if err == nil {
			b := img.Bounds()
			return &models.DesignAsset{Number: designNumber, Data: data, Width: b.Dx(), Height: b.Dy()}, nil
		}
		log.Printf("⚠️  Cached design %s is unreadable, fetching again: %v", key, err)
	}

	asset, err := s.fetcher.Fetch(ctx, designNumber)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Store(ctx, key, asset.Data)
	return asset, nil
}

// BustTemplate invalidates the template's composites of the design in every format
// plus the design's shared artifacts
func (s *MockupService) BustTemplate(ctx context.Context, request string) (models.BustResult, error) {
	id, err := utils.ParseRequestIdentifier(request)
	if err != nil {
		return models.BustResult{}, err
	}
	return s.cache.Invalidate(ctx, id.TemplateID, id.DesignNumber), nil
}

// BustDesign invalidates every artifact of designNumber across all templates
func (s *MockupService) BustDesign(ctx context.Context, designNumber string) (models.BustResult, error) {
	if err := utils.ValidateDesignNumber(designNumber); err != nil {
		return models.BustResult{}, err
	}
	return s.cache.InvalidateAll(ctx, designNumber), nil
}

func (s *MockupService) fallbackResult(request string, err error) models.CompositeResult {
	log.Printf("❌ Generation failed for %s, serving fallback: %v", request, err)
	return models.CompositeResult{
		Data:        s.fallback,
		ContentType: s.fallbackContentType,
		Fallback:    true,
		Reason:      reasonFor(err),
	}
}

func reasonFor(err error) string {
	for _, sentinel := range []error{
		models.ErrMalformedRequest,
		models.ErrGenerationTimeout,
		models.ErrAssetFetchFailed,
		models.ErrExtractionFailed,
		models.ErrCompositionFailed,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func checkTimeout(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrGenerationTimeout, err)
	}
	return nil
}
