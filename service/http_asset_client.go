package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPAssetClient downloads design files over plain HTTP(S)
// Implements RemoteAssetClient
type HTTPAssetClient struct {
	client *http.Client
}

// Ensure HTTPAssetClient implements RemoteAssetClient
var _ RemoteAssetClient = (*HTTPAssetClient)(nil)

func NewHTTPAssetClient(timeout time.Duration) *HTTPAssetClient {
	return &HTTPAssetClient{client: &http.Client{Timeout: timeout}}
}

// Download fetches url and returns the body of a 200 response
func (c *HTTPAssetClient) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, nil
}
