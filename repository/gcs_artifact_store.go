package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"armario-mascota-mockups/models"
	"armario-mascota-mockups/utils"
)

// GCSArtifactStore keeps cached artifacts as objects in a Cloud Storage bucket.
//
// Layout mirrors the disk store: objectPath == artifact key, optionally under Prefix.
// Implements ArtifactStore
type GCSArtifactStore struct {
	Client *storage.Client
	Bucket string
	// Optional: object name prefix, e.g. "mockups/"
	Prefix string
}

// Ensure GCSArtifactStore implements ArtifactStore
var _ ArtifactStore = (*GCSArtifactStore)(nil)

func NewGCSArtifactStore(client *storage.Client, bucket, prefix string) *GCSArtifactStore {
	p := strings.TrimSpace(prefix)
	if p != "" && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return &GCSArtifactStore{
		Client: client,
		Bucket: strings.TrimSpace(bucket),
		Prefix: p,
	}
}

func (s *GCSArtifactStore) bucket() (*storage.BucketHandle, error) {
	if s == nil || s.Client == nil {
		return nil, errors.New("gcs_artifact_store: storage client is nil")
	}
	if s.Bucket == "" {
		return nil, errors.New("gcs_artifact_store: bucket is empty")
	}
	return s.Client.Bucket(s.Bucket), nil
}

func (s *GCSArtifactStore) object(key string) (*storage.ObjectHandle, error) {
	bh, err := s.bucket()
	if err != nil {
		return nil, err
	}
	k := strings.TrimSpace(key)
	if k == "" {
		return nil, errors.New("gcs_artifact_store: key is empty")
	}
	return bh.Object(s.Prefix + k), nil
}

func (s *GCSArtifactStore) Exists(ctx context.Context, key string) (bool, error) {
	oh, err := s.object(key)
	if err != nil {
		return false, err
	}
	_, err = oh.Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat object %s: %w", key, err)
}

func (s *GCSArtifactStore) Get(ctx context.Context, key string) ([]byte, error) {
	oh, err := s.object(key)
	if err != nil {
		return nil, err
	}
	r, err := oh.NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", models.ErrArtifactNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open object %s: %w", key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}

func (s *GCSArtifactStore) Put(ctx context.Context, key string, data []byte) error {
	oh, err := s.object(key)
	if err != nil {
		return err
	}
	w := oh.NewWriter(ctx)
	w.ContentType = utils.MapExtensionToContentType(path.Ext(key))
	// Safety: avoid writer hanging forever.
	w.ChunkSize = 0
	w.Metadata = map[string]string{
		"cachedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write object %s: %w", key, err)
	}
	return nil
}

func (s *GCSArtifactStore) Delete(ctx context.Context, key string) error {
	oh, err := s.object(key)
	if err != nil {
		return err
	}
	if err := oh.Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// List returns artifact keys (without the store prefix) starting with prefix
func (s *GCSArtifactStore) List(ctx context.Context, prefix string) ([]string, error) {
	bh, err := s.bucket()
	if err != nil {
		return nil, err
	}

	it := bh.Objects(ctx, &storage.Query{
		Prefix: s.Prefix + prefix,
	})

	var out []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", prefix, err)
		}
		if attrs == nil || strings.TrimSpace(attrs.Name) == "" {
			continue
		}
		out = append(out, strings.TrimPrefix(attrs.Name, s.Prefix))
	}
	return out, nil
}
