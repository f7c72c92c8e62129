package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/memohai/assetd/internal/config"
)

// Backend names accepted in [storage].backend.
const (
	BackendFS = "fs"
	BackendS3 = "s3"
)

// NewProvider builds the configured storage backend.
func NewProvider(ctx context.Context, cfg config.StorageConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFS:
		baseURL := cfg.BaseURL
		if strings.TrimSpace(baseURL) == "" {
			baseURL = config.DefaultFSBaseURL
		}
		return NewFileStore(cfg.FS.Root, baseURL)
	case BackendS3:
		return NewS3Store(ctx, S3StoreConfig{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			BaseURL:         cfg.BaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
