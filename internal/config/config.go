// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath        = "config.toml"
	DefaultHTTPAddr          = ":8080"
	DefaultJWTExpiresIn      = "24h"
	DefaultPGHost            = "127.0.0.1"
	DefaultPGPort            = 5432
	DefaultPGUser            = "postgres"
	DefaultPGDatabase        = "assetd"
	DefaultPGSSLMode         = "disable"
	DefaultLedgerDriver      = "postgres"
	DefaultSQLitePath        = "data/assets.db"
	DefaultStorageBackend    = "fs"
	DefaultFSRoot            = "data/blobs"
	DefaultFSBaseURL         = "http://localhost:8080/files"
	DefaultS3Region          = "us-east-1"
	DefaultTimeoutSeconds    = 10
	DefaultAssetsNamespace   = "goat"
	DefaultAssetsEnvironment = "dev"
	DefaultMaxFileSizeBytes  = 4 * 1024 * 1024
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
	Postgres PostgresConfig `toml:"postgres"`
	Ledger   LedgerConfig   `toml:"ledger"`
	Storage  StorageConfig  `toml:"storage"`
	Assets   AssetsConfig   `toml:"assets"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address and the per-user upload
// rate limit (disabled when upload_rate_per_second is 0).
type ServerConfig struct {
	Addr                string  `toml:"addr"`
	UploadRatePerSecond float64 `toml:"upload_rate_per_second"`
	UploadBurst         int     `toml:"upload_burst"`
}

// AuthConfig holds JWT secret and token expiry (e.g. 24h).
type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	JWTExpiresIn string `toml:"jwt_expires_in"`
}

// ExpiresIn parses JWTExpiresIn, falling back to the default on bad input.
func (c AuthConfig) ExpiresIn() time.Duration {
	if d, err := time.ParseDuration(c.JWTExpiresIn); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultJWTExpiresIn)
	return d
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// LedgerConfig selects the asset metadata backend ("postgres" or "sqlite").
type LedgerConfig struct {
	Driver         string `toml:"driver"`
	SQLitePath     string `toml:"sqlite_path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-call ledger timeout.
func (c LedgerConfig) Timeout() time.Duration {
	return secondsOrDefault(c.TimeoutSeconds)
}

// StorageConfig selects the object storage backend ("s3" or "fs").
// BaseURL overrides the public URL prefix reported by the backend.
type StorageConfig struct {
	Backend        string          `toml:"backend"`
	BaseURL        string          `toml:"base_url"`
	TimeoutSeconds int             `toml:"timeout_seconds"`
	S3             S3Config        `toml:"s3"`
	FS             FSStorageConfig `toml:"fs"`
}

// Timeout returns the per-call storage timeout.
func (c StorageConfig) Timeout() time.Duration {
	return secondsOrDefault(c.TimeoutSeconds)
}

// S3Config holds bucket, region and optional endpoint/credentials for S3-compatible storage.
type S3Config struct {
	Bucket          string `toml:"bucket"`
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

// FSStorageConfig holds the root directory of the local blob store.
type FSStorageConfig struct {
	Root string `toml:"root"`
}

// AssetsConfig holds the ingestion policy: key namespace, size ceiling and per-type rules.
type AssetsConfig struct {
	Namespace        string                     `toml:"namespace"`
	Environment      string                     `toml:"environment"`
	MaxFileSizeBytes int64                      `toml:"max_file_size_bytes"`
	Types            map[string]AssetTypeConfig `toml:"types"`
}

// AssetTypeConfig is the allow-list and metadata requirement for one asset type.
type AssetTypeConfig struct {
	MimeTypes          []string `toml:"mime_types"`
	RequireDisplayName bool     `toml:"require_display_name"`
}

// DefaultAssetTypes returns the built-in image and icon rules.
func DefaultAssetTypes() map[string]AssetTypeConfig {
	return map[string]AssetTypeConfig{
		"image": {
			MimeTypes: []string{
				"image/jpeg",
				"image/png",
				"image/gif",
				"image/webp",
				"image/bmp",
				"image/tiff",
				"image/svg+xml",
				"image/x-icon",
			},
		},
		"icon": {
			MimeTypes: []string{
				"image/svg+xml",
				"image/jpeg",
				"image/webp",
				"image/x-icon",
				"image/bmp",
				"image/png",
			},
			RequireDisplayName: true,
		},
	}
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Auth: AuthConfig{
			JWTExpiresIn: DefaultJWTExpiresIn,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Ledger: LedgerConfig{
			Driver:         DefaultLedgerDriver,
			SQLitePath:     DefaultSQLitePath,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Storage: StorageConfig{
			Backend:        DefaultStorageBackend,
			TimeoutSeconds: DefaultTimeoutSeconds,
			S3: S3Config{
				Region: DefaultS3Region,
			},
			FS: FSStorageConfig{
				Root: DefaultFSRoot,
			},
		},
		Assets: AssetsConfig{
			Namespace:        DefaultAssetsNamespace,
			Environment:      DefaultAssetsEnvironment,
			MaxFileSizeBytes: DefaultMaxFileSizeBytes,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			cfg.Assets.Types = DefaultAssetTypes()
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	if len(cfg.Assets.Types) == 0 {
		cfg.Assets.Types = DefaultAssetTypes()
	}

	return cfg, nil
}

func secondsOrDefault(seconds int) time.Duration {
	if seconds <= 0 {
		seconds = DefaultTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}
