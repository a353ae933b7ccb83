package repository

import (
	"context"

	"armario-mascota-mockups/models"
)

// ArtifactStore defines the contract for the cache storage backends.
// Keys are slash-separated paths; Get returns models.ErrArtifactNotFound on a miss.
type ArtifactStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// DesignSourceRepositoryInterface defines the contract for resolving design numbers to remote files
type DesignSourceRepositoryInterface interface {
	GetByDesignNumber(ctx context.Context, designNumber string) (*models.DesignSource, error)
}
