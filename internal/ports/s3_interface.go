package ports

import (
	"context"
	"io"
	"time"
)

// ImageStorage : object storage for board images
type ImageStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
