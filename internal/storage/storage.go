// Package storage defines the Provider interface for object storage backends
// and the S3 and local filesystem implementations.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrNotFound is returned by Open when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// ErrInvalidKey is returned for empty keys or keys that escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// Provider abstracts object storage operations.
// Keys are chosen by the caller; providers never generate them.
type Provider interface {
	// Put writes data to storage under the given key with the given content type.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Open returns a reader for the given storage key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// BaseURL returns the public URL prefix objects are reachable under,
	// without a trailing slash.
	BaseURL() string
}

// ObjectURL joins a provider base URL and a storage key.
func ObjectURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(key, "/")
}

func validateKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidKey
		}
	}
	return key, nil
}
