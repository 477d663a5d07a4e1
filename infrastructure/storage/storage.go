package storage

import (
	"context"
	"errors"

	"github.com/prasetyowira/etiqueta/constant"
)

// ErrNotFound is returned when a stored object does not exist.
var ErrNotFound = errors.New(constant.ErrBlobNotFound)

// ContentTypePNG is the content type of every asset this service stores.
const ContentTypePNG = "image/png"

// BlobStore persists generated asset files under slash-separated paths.
// Implementations: local filesystem and MinIO object storage.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
	Get(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}
