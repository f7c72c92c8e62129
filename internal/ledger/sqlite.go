package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/memohai/assetd/internal/assets"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS uploaded_assets (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  asset_type TEXT NOT NULL,
  s3_key TEXT NOT NULL UNIQUE,
  file_name TEXT NOT NULL,
  display_name TEXT,
  category TEXT,
  mime_type TEXT NOT NULL,
  file_size INTEGER NOT NULL,
  content_hash TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS uploaded_assets_owner_type_hash
  ON uploaded_assets (user_id, asset_type, content_hash);
CREATE INDEX IF NOT EXISTS uploaded_assets_owner_created
  ON uploaded_assets (user_id, created_at);
`

const sqliteColumns = `id, user_id, asset_type, s3_key, file_name, display_name, category, mime_type, file_size, content_hash, created_at, updated_at`

// SQLite stores asset records in a single SQLite database file.
// Timestamps are kept as unix nanoseconds.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway ledger.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps :memory: databases shared and serialises writers.
	conn.SetMaxOpenConns(1)
	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &SQLite{db: conn, now: time.Now}, nil
}

// Close releases the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) FindByOwnerTypeDigest(ctx context.Context, ownerID string, assetType assets.AssetType, digest string) (assets.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteColumns+` FROM uploaded_assets WHERE user_id = ? AND asset_type = ? AND content_hash = ?`,
		ownerID, string(assetType), digest,
	)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return assets.Record{}, assets.ErrNotFound
		}
		return assets.Record{}, fmt.Errorf("get uploaded asset: %w", err)
	}
	return rec, nil
}

func (s *SQLite) Create(ctx context.Context, rec assets.Record) (assets.Record, error) {
	now := s.now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploaded_assets (`+sqliteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.OwnerID,
		string(rec.AssetType),
		rec.StorageKey,
		rec.FileName,
		nullString(rec.DisplayName),
		nullString(rec.Category),
		rec.MimeType,
		rec.SizeBytes,
		rec.ContentHash,
		now.UnixNano(),
		now.UnixNano(),
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return assets.Record{}, assets.ErrConflict
		}
		return assets.Record{}, fmt.Errorf("create uploaded asset: %w", err)
	}
	rec.DisplayName = strings.TrimSpace(rec.DisplayName)
	rec.Category = strings.TrimSpace(rec.Category)
	return rec, nil
}

func (s *SQLite) UpdateFileName(ctx context.Context, id, fileName string) (assets.Record, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE uploaded_assets SET file_name = ?, updated_at = ? WHERE id = ?`,
		fileName, s.now().UTC().UnixNano(), id,
	)
	if err != nil {
		return assets.Record{}, fmt.Errorf("update uploaded asset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return assets.Record{}, fmt.Errorf("update uploaded asset: %w", err)
	}
	if n == 0 {
		return assets.Record{}, assets.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM uploaded_assets WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return assets.Record{}, assets.ErrNotFound
		}
		return assets.Record{}, fmt.Errorf("get uploaded asset: %w", err)
	}
	return rec, nil
}

func (s *SQLite) ListByOwner(ctx context.Context, ownerID string, assetType *assets.AssetType) ([]assets.Record, error) {
	query := `SELECT ` + sqliteColumns + ` FROM uploaded_assets WHERE user_id = ?`
	args := []any{ownerID}
	if assetType != nil {
		query += ` AND asset_type = ?`
		args = append(args, string(*assetType))
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list uploaded assets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []assets.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan uploaded asset: %w", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list uploaded assets: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (assets.Record, error) {
	var (
		rec                   assets.Record
		assetType             string
		displayName, category sql.NullString
		createdAt, updatedAt  int64
	)
	err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&assetType,
		&rec.StorageKey,
		&rec.FileName,
		&displayName,
		&category,
		&rec.MimeType,
		&rec.SizeBytes,
		&rec.ContentHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return assets.Record{}, err
	}
	rec.AssetType = assets.AssetType(assetType)
	rec.DisplayName = displayName.String
	rec.Category = category.String
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	rec.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return rec, nil
}

func nullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	return sql.NullString{String: value, Valid: value != ""}
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
