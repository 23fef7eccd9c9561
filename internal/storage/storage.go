// Package storage holds the byte store for uploaded sources and regenerated outputs.
// Keys are slash-separated relative paths such as "uploads/<name>" or "outputs/<name>".
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"translateapi/internal/config"
)

// ErrNotFound is returned when no object exists under a key.
var ErrNotFound = errors.New("storage: object not found")

// ErrInvalidKey is returned for keys that are empty, absolute, or escape the store root.
var ErrInvalidKey = errors.New("storage: invalid key")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1 if unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is implemented by the local filesystem and S3-compatible backends.
// Put must never leave a partially written object visible under key.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get returns ErrNotFound if key does not exist. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by cfg.Storage.Driver.
func New(cfg *config.AppConfig) (Storage, error) {
	switch cfg.Storage.Driver {
	case "local":
		return NewLocal(cfg.Storage.LocalRoot)
	case "minio":
		return NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// Key joins a prefix and a file name into a storage key.
func Key(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
