package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/pageza/foodgram/backend/config"
)

// MinioStore writes images to a MinIO bucket.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStore(cfg *config.MinioConfig) *MinioStore {
	return &MinioStore{
		client:    cfg.Client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
}

func (s *MinioStore) prefix() string {
	return s.publicURL + "/" + s.bucket + "/"
}

// Upload stores bytes under the given object key.
func (s *MinioStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio put: %w", err)
	}
	return s.prefix() + key, nil
}

// Remove deletes an object.
func (s *MinioStore) Remove(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.prefix())
	if !ok {
		return ErrForeignURL
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

var _ ImageStore = (*MinioStore)(nil)
