package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"strings"

	"golang.org/x/time/rate"

	"armario-mascota-mockups/models"
	"armario-mascota-mockups/repository"
)

// MinDesignBytes is the smallest plausible design download; anything smaller is
// treated as an empty or corrupt asset
const MinDesignBytes = 7000

// DriveSourceResolver resolves design numbers to Drive file IDs through the design_assets table
// Implements DesignSourceResolver
type DriveSourceResolver struct {
	repository repository.DesignSourceRepositoryInterface
}

// Ensure DriveSourceResolver implements DesignSourceResolver
var _ DesignSourceResolver = (*DriveSourceResolver)(nil)

func NewDriveSourceResolver(repo repository.DesignSourceRepositoryInterface) *DriveSourceResolver {
	return &DriveSourceResolver{repository: repo}
}

func (r *DriveSourceResolver) Resolve(ctx context.Context, designNumber string) (string, error) {
	src, err := r.repository.GetByDesignNumber(ctx, designNumber)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(src.DriveFileID) == "" {
		return "", fmt.Errorf("%w: design %s has no drive_file_id", models.ErrAssetFetchFailed, designNumber)
	}
	return src.DriveFileID, nil
}

// URLPatternResolver formats design numbers into download URLs, e.g.
// "https://assets.example.com/designs/%s.png"
// Implements DesignSourceResolver
type URLPatternResolver struct {
	pattern string
}

// Ensure URLPatternResolver implements DesignSourceResolver
var _ DesignSourceResolver = (*URLPatternResolver)(nil)

func NewURLPatternResolver(pattern string) (*URLPatternResolver, error) {
	if strings.Count(pattern, "%s") != 1 {
		return nil, fmt.Errorf("design URL pattern must contain exactly one %%s, got %q", pattern)
	}
	return &URLPatternResolver{pattern: pattern}, nil
}

func (r *URLPatternResolver) Resolve(ctx context.Context, designNumber string) (string, error) {
	return fmt.Sprintf(r.pattern, designNumber), nil
}

// DesignAssetFetcher downloads design assets from the remote source, rate limited
// and validated against a minimum byte size.
// Implements DesignAssetFetcherInterface
type DesignAssetFetcher struct {
	resolver DesignSourceResolver
	client   RemoteAssetClient
	limiter  *rate.Limiter
	minBytes int
}

// Ensure DesignAssetFetcher implements DesignAssetFetcherInterface
var _ DesignAssetFetcherInterface = (*DesignAssetFetcher)(nil)

// NewDesignAssetFetcher creates a fetcher allowing ratePerSecond downloads per second
// (burst 2). A non-positive rate disables throttling.
func NewDesignAssetFetcher(resolver DesignSourceResolver, client RemoteAssetClient, ratePerSecond float64, minBytes int) *DesignAssetFetcher {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	if minBytes <= 0 {
		minBytes = MinDesignBytes
	}
	return &DesignAssetFetcher{
		resolver: resolver,
		client:   client,
		limiter:  rate.NewLimiter(limit, 2),
		minBytes: minBytes,
	}
}

// Fetch resolves and downloads the design asset for designNumber
func (f *DesignAssetFetcher) Fetch(ctx context.Context, designNumber string) (*models.DesignAsset, error) {
	remoteKey, err := f.resolver.Resolve(ctx, designNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve design %s: %v", models.ErrAssetFetchFailed, designNumber, err)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: waiting to fetch design %s: %v", models.ErrGenerationTimeout, designNumber, err)
	}

	data, err := f.client.Download(ctx, remoteKey)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: fetching design %s: %v", models.ErrGenerationTimeout, designNumber, err)
		}
		return nil, fmt.Errorf("%w: design %s: %v", models.ErrAssetFetchFailed, designNumber, err)
	}

	return f.Validate(designNumber, data)
}

// Validate checks the byte size and decodes the image header of a design asset
func (f *DesignAssetFetcher) Validate(designNumber string, data []byte) (*models.DesignAsset, error) {
	if len(data) < f.minBytes {
		log.Printf("⚠️  Design %s is %d bytes, below the %d byte minimum", designNumber, len(data), f.minBytes)
		return nil, fmt.Errorf("%w: design %s is %d bytes, below %d", models.ErrAssetFetchFailed, designNumber, len(data), f.minBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: design %s is not a decodable image: %v", models.ErrAssetFetchFailed, designNumber, err)
	}

	log.Printf("📸 Design %s fetched: format=%s, %dx%d, %d bytes", designNumber, format, cfg.Width, cfg.Height, len(data))
	return &models.DesignAsset{
		Number: designNumber,
		Data:   data,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
