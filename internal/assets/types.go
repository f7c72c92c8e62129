package assets

import "time"

// AssetType is the closed classification of an upload. It selects the MIME
// allow-list and metadata requirements, and is part of the dedup key.
type AssetType string

const (
	AssetTypeImage AssetType = "image"
	AssetTypeIcon  AssetType = "icon"
)

// Record is a ledger row describing one stored asset.
// (OwnerID, AssetType, ContentHash) is unique across the ledger.
type Record struct {
	ID          string
	OwnerID     string
	AssetType   AssetType
	StorageKey  string
	FileName    string
	DisplayName string
	Category    string
	MimeType    string
	SizeBytes   int64
	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UploadInput carries one upload request from the transport layer.
type UploadInput struct {
	OwnerID     string
	AssetType   AssetType
	FileName    string
	ContentType string // caller-declared, may be empty
	Data        []byte
	DisplayName string
	Category    string
}

// View is the externally visible form of a Record: the URL is computed and
// the storage key and digest are omitted.
type View struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	DisplayName *string   `json:"display_name"`
	Category    *string   `json:"category"`
	MimeType    string    `json:"mime_type"`
	FileSize    int64     `json:"file_size"`
	AssetType   AssetType `json:"asset_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      string    `json:"user_id"`
	URL         string    `json:"url"`
}
