package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/patrickmn/go-cache"

	"armario-mascota-mockups/models"
)

// MemoryArtifactStore keeps artifacts in process memory. Entries never expire;
// only Delete removes them, matching the write-once cache policy.
// Implements ArtifactStore
type MemoryArtifactStore struct {
	items *cache.Cache
}

// Ensure MemoryArtifactStore implements ArtifactStore
var _ ArtifactStore = (*MemoryArtifactStore)(nil)

// NewMemoryArtifactStore creates an empty in-memory store
func NewMemoryArtifactStore() *MemoryArtifactStore {
	return &MemoryArtifactStore{
		items: cache.New(cache.NoExpiration, 0),
	}
}

func (s *MemoryArtifactStore) Exists(ctx context.Context, key string) (bool, error) {
	_, found := s.items.Get(key)
	return found, nil
}

func (s *MemoryArtifactStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, found := s.items.Get(key)
	if !found {
		return nil, fmt.Errorf("%w: %s", models.ErrArtifactNotFound, key)
	}
	data := v.([]byte)
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryArtifactStore) Put(ctx context.Context, key string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)
	s.items.Set(key, stored, cache.NoExpiration)
	return nil
}

func (s *MemoryArtifactStore) Delete(ctx context.Context, key string) error {
	s.items.Delete(key)
	return nil
}

func (s *MemoryArtifactStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range s.items.Items() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
