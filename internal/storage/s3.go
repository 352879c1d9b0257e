package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/foodgram/backend/config"
)

// S3Store writes images to an S3 bucket.
type S3Store struct {
	cfg *config.S3Config
}

func NewS3Store(cfg *config.S3Config) *S3Store {
	return &S3Store{cfg: cfg}
}

func (s *S3Store) baseURL() string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/", s.cfg.BucketName)
}

// Upload uploads image data to S3 and returns the public URL
func (s *S3Store) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := s.baseURL() + key
	log.Printf("[S3Store] Uploaded image: %s", publicURL)
	return publicURL, nil
}

func (s *S3Store) Remove(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseURL())
	if !ok {
		return ErrForeignURL
	}
	_, err := s.cfg.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(key),
	})
	return err
}

var _ ImageStore = (*S3Store)(nil)
