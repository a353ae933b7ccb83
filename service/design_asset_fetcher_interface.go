package service

import (
	"context"

	"armario-mascota-mockups/models"
)

// DesignAssetFetcherInterface defines the contract for fetching design assets
type DesignAssetFetcherInterface interface {
	Fetch(ctx context.Context, designNumber string) (*models.DesignAsset, error)
}

// DesignSourceResolver maps a design number to the remote key of its file
type DesignSourceResolver interface {
	Resolve(ctx context.Context, designNumber string) (string, error)
}

// RemoteAssetClient downloads a remote file by key
type RemoteAssetClient interface {
	Download(ctx context.Context, remoteKey string) ([]byte, error)
}
