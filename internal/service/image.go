package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/storage"
)

// Accepted data URI prefixes and the extension stored for each.
var imageTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ImageService decodes base64 data URIs and writes them to an image store.
type ImageService struct {
	store storage.ImageStore
}

func NewImageService(store storage.ImageStore) *ImageService {
	return &ImageService{store: store}
}

// decodeDataURI splits "data:image/png;base64,<payload>" into its content
// type and decoded bytes.
func decodeDataURI(uri string) (string, []byte, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return "", nil, fmt.Errorf("image must be a base64 data URI")
	}
	mediaType, ok := strings.CutPrefix(header, "data:")
	if !ok {
		return "", nil, fmt.Errorf("image must be a base64 data URI")
	}
	mediaType, ok = strings.CutSuffix(mediaType, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("image must be base64 encoded")
	}
	if _, known := imageTypes[mediaType]; !known {
		return "", nil, fmt.Errorf("unsupported image type %q", mediaType)
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 image data")
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("image is empty")
	}
	if detected := http.DetectContentType(data); detected != mediaType {
		return "", nil, fmt.Errorf("image content is %s, not %s", detected, mediaType)
	}
	return mediaType, data, nil
}

// Save stores a recipe image and returns its URL. Decoding problems are
// reported as a validation error on the "image" field.
func (s *ImageService) Save(ctx context.Context, dataURI string) (string, error) {
	mediaType, data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", newValidationError("image", err.Error())
	}

	key := fmt.Sprintf("recipes/images/%s.%s", uuid.NewString(), imageTypes[mediaType])
	url, err := s.store.Upload(ctx, key, data, mediaType)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return url, nil
}

// Discard removes an image that is no longer referenced. Failures are only logged.
func (s *ImageService) Discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.store.Remove(ctx, url); err != nil {
		log.Printf("[ImageService] Failed to remove image %s: %v", url, err)
	}
}
