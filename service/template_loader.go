package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"path"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"armario-mascota-mockups/models"
	"armario-mascota-mockups/repository"
)

const (
	templateCacheExpiration = 30 * time.Minute
	templateCleanupInterval = 1 * time.Hour
)

var templateExtensions = []string{".png", ".jpg", ".jpeg"}

// TemplateLoader reads template photos from the read-only template namespace and
// keeps decoded templates in memory.
// Implements TemplateLoaderInterface
type TemplateLoader struct {
	store   repository.ArtifactStore
	decoded *cache.Cache
}

// Ensure TemplateLoader implements TemplateLoaderInterface
var _ TemplateLoaderInterface = (*TemplateLoader)(nil)

func NewTemplateLoader(store repository.ArtifactStore) *TemplateLoader {
	return &TemplateLoader{
		store:   store,
		decoded: cache.New(templateCacheExpiration, templateCleanupInterval),
	}
}

// Load returns the decoded template for templateID
func (l *TemplateLoader) Load(ctx context.Context, templateID string) (image.Image, error) {
	if v, found := l.decoded.Get(templateID); found {
		return v.(image.Image), nil
	}

	for _, ext := range templateExtensions {
		data, err := l.store.Get(ctx, templateID+ext)
		if errors.Is(err, models.ErrArtifactNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read template %s: %v", models.ErrCompositionFailed, templateID, err)
		}

		img, err := DecodeImage(data)
		if err != nil {
			return nil, fmt.Errorf("%w: template %s: %v", models.ErrCompositionFailed, templateID, err)
		}

		log.Printf("✓ Template loaded: %s%s (%dx%d)", templateID, ext, img.Bounds().Dx(), img.Bounds().Dy())
		l.decoded.Set(templateID, img, cache.DefaultExpiration)
		return img, nil
	}

	return nil, fmt.Errorf("%w: template %s not found", models.ErrCompositionFailed, templateID)
}

// List returns the identifiers of every available template, sorted
func (l *TemplateLoader) List(ctx context.Context) ([]string, error) {
	keys, err := l.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, key := range keys {
		if strings.Contains(key, "/") {
			continue
		}
		ext := strings.ToLower(path.Ext(key))
		if !slices.Contains(templateExtensions, ext) {
			continue
		}
		id := strings.TrimSuffix(key, path.Ext(key))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
