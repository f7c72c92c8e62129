package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/memohai/assetd/internal/assets"
	"github.com/memohai/assetd/internal/config"
	"github.com/memohai/assetd/internal/db"
	"github.com/memohai/assetd/internal/db/sqlc"
)

// Driver names accepted in [ledger].driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects the configured ledger. The returned func releases it.
func Open(ctx context.Context, cfg config.Config) (assets.Ledger, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Ledger.Driver)) {
	case "", DriverPostgres:
		pool, err := db.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		return NewPostgres(sqlc.New(pool)), pool.Close, nil
	case DriverSQLite:
		store, err := OpenSQLite(ctx, cfg.Ledger.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported ledger driver: %s", cfg.Ledger.Driver)
	}
}
