// Package storage holds the backends recipe images are written to.
package storage

import (
	"context"
	"errors"
)

// ErrForeignURL is returned by Remove for URLs the store did not issue.
var ErrForeignURL = errors.New("url does not belong to this store")

// ImageStore persists image bytes and hands back a public URL.
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Remove deletes the object behind a URL previously returned by Upload.
	Remove(ctx context.Context, url string) error
}
