package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"armario-mascota-mockups/models"
	"armario-mascota-mockups/repository"
	"armario-mascota-mockups/utils"
)

const (
	designsNamespace = "designs"
	outputsNamespace = "outputs"
	designAssetName  = "design.png"
	// bustParallelism bounds concurrent deletes during a bust
	bustParallelism = 8
)

// CacheCoordinator derives cache keys and owns reads, writes and invalidation of
// cached artifacts. Entries are write-once, read-many: a hit is trusted as is.
//
// Layout:
//   - designs/{designNumber}/design.png          raw design asset
//   - designs/{designNumber}/{placementVersion}/{productType}.png   repositioned intermediate
//   - outputs/{designNumber}/{templateID}.{ext}  final composite
//
// Implements CacheCoordinatorInterface
type CacheCoordinator struct {
	store repository.ArtifactStore
}

// Ensure CacheCoordinator implements CacheCoordinatorInterface
var _ CacheCoordinatorInterface = (*CacheCoordinator)(nil)

func NewCacheCoordinator(store repository.ArtifactStore) *CacheCoordinator {
	return &CacheCoordinator{store: store}
}

// CompositeCacheKey is the key of the final composite for (templateID, designNumber)
func (c *CacheCoordinator) CompositeCacheKey(templateID, designNumber, ext string) string {
	return path.Join(outputsNamespace, designNumber, strings.ToLower(templateID)+"."+strings.ToLower(ext))
}

// IntermediateCacheKey is the key of the repositioned design for (designNumber, productType).
// The placement table version is part of the key so a new table never reuses old geometry.
func (c *CacheCoordinator) IntermediateCacheKey(designNumber string, productType models.ProductType, placementVersion string) string {
	return path.Join(designsNamespace, designNumber, versionSegment(placementVersion), productType.String()+".png")
}

// versionSegment turns a placement table version into a single safe path segment
func versionSegment(version string) string {
	v := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		}
		return '_'
	}, strings.TrimSpace(version))
	if v == "" || strings.Trim(v, ".") == "" {
		return "unversioned"
	}
	return v
}

// DesignAssetCacheKey is the key of the raw design asset
func (c *CacheCoordinator) DesignAssetCacheKey(designNumber string) string {
	return path.Join(designsNamespace, designNumber, designAssetName)
}

// Lookup returns the cached bytes for key. found is false on a miss.
func (c *CacheCoordinator) Lookup(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.store.Get(ctx, key)
	if errors.Is(err, models.ErrArtifactNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Store writes an artifact. Content is deterministic per key, so the last writer wins.
func (c *CacheCoordinator) Store(ctx context.Context, key string, data []byte) error {
	if err := c.store.Put(ctx, key, data); err != nil {
		log.Printf("❌ Failed to cache %s: %v", key, err)
		return err
	}
	return nil
}

// Invalidate removes the composites of templateID for designNumber in every output
// format, together with the design asset and every intermediate derived from designNumber.
func (c *CacheCoordinator) Invalidate(ctx context.Context, templateID, designNumber string) models.BustResult {
	keys, listErr := c.designKeys(ctx, designNumber)

	composites, err := c.templateComposites(ctx, templateID, designNumber)
	if err != nil {
		listErr = errors.Join(listErr, err)
	}
	keys = append(keys, composites...)

	result := c.deleteAll(ctx, designNumber, models.BustSingleTemplate, keys)
	if listErr != nil {
		result.Failed++
		result.Errors = append(result.Errors, listErr.Error())
	}
	return result
}

// InvalidateAll removes the design asset, every intermediate and every composite
// across all template identifiers for designNumber.
func (c *CacheCoordinator) InvalidateAll(ctx context.Context, designNumber string) models.BustResult {
	keys, listErr := c.designKeys(ctx, designNumber)

	outputs, err := c.store.List(ctx, path.Join(outputsNamespace, designNumber)+"/")
	if err != nil {
		listErr = errors.Join(listErr, fmt.Errorf("failed to list composites for design %s: %w", designNumber, err))
	}
	keys = append(keys, outputs...)

	result := c.deleteAll(ctx, designNumber, models.BustAllTemplates, keys)
	if listErr != nil {
		result.Failed++
		result.Errors = append(result.Errors, listErr.Error())
	}
	return result
}

func (c *CacheCoordinator) designKeys(ctx context.Context, designNumber string) ([]string, error) {
	keys, err := c.store.List(ctx, path.Join(designsNamespace, designNumber)+"/")
	if err != nil {
		return nil, fmt.Errorf("failed to list design artifacts for %s: %w", designNumber, err)
	}
	return keys, nil
}

// templateComposites lists outputs/{designNumber}/{templateID}.{ext} for every supported ext
func (c *CacheCoordinator) templateComposites(ctx context.Context, templateID, designNumber string) ([]string, error) {
	prefix := path.Join(outputsNamespace, designNumber, strings.ToLower(templateID)) + "."
	candidates, err := c.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list composites of %s for design %s: %w", templateID, designNumber, err)
	}

	var keys []string
	for _, key := range candidates {
		if _, ok := utils.MapExtensionToFormat(strings.TrimPrefix(key, prefix)); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (c *CacheCoordinator) deleteAll(ctx context.Context, designNumber string, scope models.BustScope, keys []string) models.BustResult {
	result := models.BustResult{DesignNumber: designNumber, Scope: scope}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bustParallelism)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			err := c.store.Delete(gctx, key)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("❌ Failed to delete %s: %v", key, err)
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", key, err))
				return nil
			}
			result.Removed++
			return nil
		})
	}
	_ = g.Wait()

	log.Printf("🧹 Bust %s for design %s: %d removed, %d failed", scope, designNumber, result.Removed, result.Failed)
	return result
}
