// Package ledger provides the durable asset metadata stores: PostgreSQL via
// sqlc for production and SQLite for single-node and test deployments.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/memohai/assetd/internal/assets"
	"github.com/memohai/assetd/internal/db"
	"github.com/memohai/assetd/internal/db/sqlc"
)

// Postgres stores asset records in the uploaded_assets table.
type Postgres struct {
	queries *sqlc.Queries
}

// NewPostgres creates a ledger over sqlc queries.
func NewPostgres(queries *sqlc.Queries) *Postgres {
	return &Postgres{queries: queries}
}

func (p *Postgres) FindByOwnerTypeDigest(ctx context.Context, ownerID string, assetType assets.AssetType, digest string) (assets.Record, error) {
	pgOwner, err := parseOwner(ownerID)
	if err != nil {
		return assets.Record{}, err
	}
	row, err := p.queries.GetUploadedAssetByHash(ctx, sqlc.GetUploadedAssetByHashParams{
		UserID:      pgOwner,
		AssetType:   string(assetType),
		ContentHash: digest,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assets.Record{}, assets.ErrNotFound
		}
		return assets.Record{}, fmt.Errorf("get uploaded asset: %w", err)
	}
	return toRecord(row), nil
}

func (p *Postgres) Create(ctx context.Context, rec assets.Record) (assets.Record, error) {
	pgID, err := db.ParseUUID(rec.ID)
	if err != nil {
		return assets.Record{}, fmt.Errorf("%w: asset id: %v", assets.ErrInvalidRequest, err)
	}
	pgOwner, err := parseOwner(rec.OwnerID)
	if err != nil {
		return assets.Record{}, err
	}
	row, err := p.queries.CreateUploadedAsset(ctx, sqlc.CreateUploadedAssetParams{
		ID:          pgID,
		UserID:      pgOwner,
		AssetType:   string(rec.AssetType),
		S3Key:       rec.StorageKey,
		FileName:    rec.FileName,
		DisplayName: db.TextFromString(rec.DisplayName),
		Category:    db.TextFromString(rec.Category),
		MimeType:    rec.MimeType,
		FileSize:    rec.SizeBytes,
		ContentHash: rec.ContentHash,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return assets.Record{}, assets.ErrConflict
		}
		return assets.Record{}, fmt.Errorf("create uploaded asset: %w", err)
	}
	return toRecord(row), nil
}

func (p *Postgres) UpdateFileName(ctx context.Context, id, fileName string) (assets.Record, error) {
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return assets.Record{}, assets.ErrNotFound
	}
	row, err := p.queries.UpdateUploadedAssetFileName(ctx, sqlc.UpdateUploadedAssetFileNameParams{
		ID:       pgID,
		FileName: fileName,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assets.Record{}, assets.ErrNotFound
		}
		return assets.Record{}, fmt.Errorf("update uploaded asset: %w", err)
	}
	return toRecord(row), nil
}

func (p *Postgres) ListByOwner(ctx context.Context, ownerID string, assetType *assets.AssetType) ([]assets.Record, error) {
	pgOwner, err := parseOwner(ownerID)
	if err != nil {
		return nil, err
	}
	var rows []sqlc.UploadedAsset
	if assetType == nil {
		rows, err = p.queries.ListUploadedAssetsByUser(ctx, pgOwner)
	} else {
		rows, err = p.queries.ListUploadedAssetsByUserAndType(ctx, sqlc.ListUploadedAssetsByUserAndTypeParams{
			UserID:    pgOwner,
			AssetType: string(*assetType),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("list uploaded assets: %w", err)
	}
	items := make([]assets.Record, 0, len(rows))
	for _, row := range rows {
		items = append(items, toRecord(row))
	}
	return items, nil
}

// parseOwner rejects owner ids that are not UUIDs; users are keyed by UUID.
func parseOwner(ownerID string) (pgtype.UUID, error) {
	pgOwner, err := db.ParseUUID(ownerID)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("%w: owner id %q is not a UUID", assets.ErrInvalidRequest, strings.TrimSpace(ownerID))
	}
	return pgOwner, nil
}

func toRecord(row sqlc.UploadedAsset) assets.Record {
	return assets.Record{
		ID:          db.UUIDToString(row.ID),
		OwnerID:     db.UUIDToString(row.UserID),
		AssetType:   assets.AssetType(row.AssetType),
		StorageKey:  row.S3Key,
		FileName:    row.FileName,
		DisplayName: db.TextToString(row.DisplayName),
		Category:    db.TextToString(row.Category),
		MimeType:    row.MimeType,
		SizeBytes:   row.FileSize,
		ContentHash: row.ContentHash,
		CreatedAt:   db.TimeFromPg(row.CreatedAt),
		UpdatedAt:   db.TimeFromPg(row.UpdatedAt),
	}
}
