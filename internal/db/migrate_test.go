package db

import (
	"testing"
	"testing/fstest"

	"github.com/memohai/assetd/internal/config"
)

func testPostgresConfig() config.PostgresConfig {
	return config.PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "assetd",
		Password: "secret",
		Database: "assetd",
		SSLMode:  "disable",
	}
}

func TestRunMigrateUnknownCommand(t *testing.T) {
	err := RunMigrate(nil, testPostgresConfig(), nil, "invalid", nil)
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestRunMigrateForceRequiresVersion(t *testing.T) {
	if err := RunMigrate(nil, testPostgresConfig(), fstest.MapFS{}, "force", nil); err == nil {
		t.Fatal("expected error when force has no version")
	}
	if err := RunMigrate(nil, testPostgresConfig(), fstest.MapFS{}, "force", []string{"abc"}); err == nil {
		t.Fatal("expected error for non-numeric version")
	}
}

func TestRunMigrateRequiresSource(t *testing.T) {
	if err := RunMigrate(nil, testPostgresConfig(), nil, "up", nil); err == nil {
		t.Fatal("expected error for nil migrations source")
	}
}
