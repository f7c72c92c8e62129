package assets

import "errors"

var (
	// ErrInvalidRequest marks malformed or incomplete input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnsupportedMediaType marks a MIME type outside the asset type's allow-list.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrPayloadTooLarge marks a payload above the configured ceiling.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrStorageUnavailable marks a failed or timed out blob write.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrLedgerUnavailable marks a failed or timed out metadata call.
	ErrLedgerUnavailable = errors.New("ledger unavailable")
	// ErrConflict is returned by Ledger.Create on a uniqueness violation.
	// Upload resolves it and never returns it.
	ErrConflict = errors.New("asset already exists")
	// ErrNotFound is returned by ledger lookups that match nothing.
	ErrNotFound = errors.New("asset not found")
)
