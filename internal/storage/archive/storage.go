// Package archive persists study results and CSV inputs on a local directory
// or an S3-compatible bucket.
package archive

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/newthinker/trendkit/internal/config"
	"github.com/newthinker/trendkit/internal/core"
)

// Storage is a flat key/value blob store. Keys are slash-separated and
// relative to the backend root.
type Storage interface {
	// Write stores data at key, replacing any previous value
	Write(ctx context.Context, key string, data []byte) error

	// Read returns the data at key or an error matching core.ErrResultNotFound
	Read(ctx context.Context, key string) ([]byte, error)

	// List returns all keys under the directory prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// Backend names the implementation for metrics and logs
	Backend() string
}

// New builds the backend selected by cfg.Type
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "localfs":
		return NewLocalFS(cfg.Path)
	case "s3":
		return NewS3(cfg.S3)
	case "":
		return nil, core.Errorf(core.ErrConfigMissing, "storage.type is not set")
	default:
		return nil, core.Errorf(core.ErrConfigInvalid, "unknown storage type %q", cfg.Type)
	}
}

// cleanKey rejects keys that would escape the backend root
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", core.Errorf(core.ErrInvalidParameter, "empty key")
	}
	cleaned := path.Clean(key)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", core.Errorf(core.ErrInvalidParameter, "key %q escapes the archive root", key)
	}
	return cleaned, nil
}

func notFound(key string) error {
	return core.WrapError(core.ErrResultNotFound, fmt.Errorf("no object at %q", key))
}
