// Package assets implements content-addressed asset ingestion: validation,
// per-owner deduplication by SHA-256 digest, blob storage and the metadata
// ledger read-back.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memohai/assetd/internal/storage"
)

const defaultCallTimeout = 10 * time.Second

// Options tunes a Service. Zero values select defaults.
type Options struct {
	LedgerTimeout  time.Duration
	StorageTimeout time.Duration
	Hasher         Hasher
	Observer       Observer
	MimeResolvers  []MimeResolver
}

// Service coordinates validation, hashing, blob storage and the ledger.
// It holds no mutable state shared between requests.
type Service struct {
	ledger         Ledger
	provider       storage.Provider
	policy         Policy
	validator      *Validator
	hasher         Hasher
	observer       Observer
	ledgerTimeout  time.Duration
	storageTimeout time.Duration
	newID          func() string
	newKeyPart     func() string
	logger         *slog.Logger
}

// NewService creates an asset service.
func NewService(log *slog.Logger, ledger Ledger, provider storage.Provider, policy Policy, opts Options) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		ledger:         ledger,
		provider:       provider,
		policy:         policy,
		validator:      NewValidator(policy, opts.MimeResolvers...),
		hasher:         opts.Hasher,
		observer:       opts.Observer,
		ledgerTimeout:  opts.LedgerTimeout,
		storageTimeout: opts.StorageTimeout,
		newID:          uuid.NewString,
		newKeyPart:     randomKeyPart,
		logger:         log.With(slog.String("service", "assets")),
	}
	if s.hasher == nil {
		s.hasher = SHA256Hasher{}
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	if s.ledgerTimeout <= 0 {
		s.ledgerTimeout = defaultCallTimeout
	}
	if s.storageTimeout <= 0 {
		s.storageTimeout = defaultCallTimeout
	}
	return s
}

// Upload ingests one asset. Byte-identical content for the same owner and
// asset type always resolves to the same record; a different file name
// only renames it. Errors wrap one of the package sentinels.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Record, error) {
	start := time.Now()
	rec, outcome, err := s.upload(ctx, in)

	var stored int64
	if outcome == OutcomeCreated || outcome == OutcomeRaced {
		stored = int64(len(in.Data))
	}
	s.observer.RecordIngest(s.metricType(in.AssetType), outcome, time.Since(start), stored)

	if err != nil {
		level := slog.LevelWarn
		if outcome == OutcomeRejected {
			level = slog.LevelDebug
		}
		s.logger.Log(ctx, level, "upload failed",
			slog.String("owner_id", in.OwnerID),
			slog.String("asset_type", string(in.AssetType)),
			slog.String("file_name", in.FileName),
			slog.Any("error", err),
		)
		return Record{}, err
	}
	s.logger.Info("upload",
		slog.String("asset_id", rec.ID),
		slog.String("owner_id", rec.OwnerID),
		slog.String("asset_type", string(rec.AssetType)),
		slog.String("outcome", string(outcome)),
	)
	return rec, nil
}

func (s *Service) upload(ctx context.Context, in UploadInput) (Record, Outcome, error) {
	if s.ledger == nil {
		return Record{}, OutcomeFailed, fmt.Errorf("%w: ledger not configured", ErrLedgerUnavailable)
	}
	if s.provider == nil {
		return Record{}, OutcomeFailed, fmt.Errorf("%w: storage provider not configured", ErrStorageUnavailable)
	}
	ownerID := strings.TrimSpace(in.OwnerID)
	if ownerID == "" {
		return Record{}, OutcomeRejected, fmt.Errorf("%w: owner is required", ErrInvalidRequest)
	}
	fileName := strings.TrimSpace(in.FileName)

	validated, err := s.validator.Validate(in)
	if err != nil {
		return Record{}, OutcomeRejected, err
	}

	digest := s.hasher.Sum(in.Data)
	existing, err := s.find(ctx, ownerID, in.AssetType, digest)
	switch {
	case err == nil:
		if existing.FileName == fileName {
			return existing, OutcomeReused, nil
		}
		updated, err := s.rename(ctx, existing.ID, fileName)
		if err != nil {
			return Record{}, OutcomeFailed, err
		}
		return updated, OutcomeRenamed, nil
	case !errors.Is(err, ErrNotFound):
		return Record{}, OutcomeFailed, err
	}

	key := StorageKey(s.policy.Namespace, s.policy.Environment, ownerID, in.AssetType, s.newKeyPart(), validated.Extension)
	if err := s.put(ctx, key, in.Data, validated.MimeType); err != nil {
		return Record{}, OutcomeFailed, err
	}

	created, err := s.create(ctx, Record{
		ID:          s.newID(),
		OwnerID:     ownerID,
		AssetType:   in.AssetType,
		StorageKey:  key,
		FileName:    fileName,
		DisplayName: strings.TrimSpace(in.DisplayName),
		Category:    strings.TrimSpace(in.Category),
		MimeType:    validated.MimeType,
		SizeBytes:   int64(len(in.Data)),
		ContentHash: digest,
	})
	if err == nil {
		return created, OutcomeCreated, nil
	}
	if !errors.Is(err, ErrConflict) {
		return Record{}, OutcomeFailed, err
	}

	// A concurrent upload of the same content won; the blob under key is left unreferenced.
	winner, err := s.find(ctx, ownerID, in.AssetType, digest)
	if errors.Is(err, ErrNotFound) {
		// The conflict came from another unique column, not the content key.
		return Record{}, OutcomeFailed, fmt.Errorf("%w: create conflict without a matching record", ErrLedgerUnavailable)
	}
	if err != nil {
		return Record{}, OutcomeFailed, err
	}
	s.logger.Debug("lost create race, returning existing record",
		slog.String("asset_id", winner.ID),
		slog.String("orphan_key", key),
	)
	return winner, OutcomeRaced, nil
}

// List returns the owner's assets, optionally restricted to one asset type.
func (s *Service) List(ctx context.Context, ownerID string, assetType *AssetType) ([]Record, error) {
	if s.ledger == nil {
		return nil, fmt.Errorf("%w: ledger not configured", ErrLedgerUnavailable)
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidRequest)
	}
	ctx, cancel := context.WithTimeout(ctx, s.ledgerTimeout)
	defer cancel()
	items, err := s.ledger.ListByOwner(ctx, ownerID, assetType)
	if err != nil {
		return nil, ledgerError(err)
	}
	return items, nil
}

// URL returns the public location of rec's blob.
func (s *Service) URL(rec Record) string {
	if s.provider == nil {
		return ""
	}
	return storage.ObjectURL(s.provider.BaseURL(), rec.StorageKey)
}

// View renders rec for API responses.
func (s *Service) View(rec Record) View {
	return View{
		ID:          rec.ID,
		FileName:    rec.FileName,
		DisplayName: optionalString(rec.DisplayName),
		Category:    optionalString(rec.Category),
		MimeType:    rec.MimeType,
		FileSize:    rec.SizeBytes,
		AssetType:   rec.AssetType,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
		UserID:      rec.OwnerID,
		URL:         s.URL(rec),
	}
}

// Policy returns the ingestion policy the service was built with.
func (s *Service) Policy() Policy {
	return s.policy
}

func (s *Service) find(ctx context.Context, ownerID string, assetType AssetType, digest string) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.ledgerTimeout)
	defer cancel()
	rec, err := s.ledger.FindByOwnerTypeDigest(ctx, ownerID, assetType, digest)
	if err != nil {
		return Record{}, ledgerError(err)
	}
	return rec, nil
}

func (s *Service) rename(ctx context.Context, id, fileName string) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.ledgerTimeout)
	defer cancel()
	rec, err := s.ledger.UpdateFileName(ctx, id, fileName)
	if err != nil {
		return Record{}, ledgerError(err)
	}
	return rec, nil
}

func (s *Service) create(ctx context.Context, rec Record) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.ledgerTimeout)
	defer cancel()
	created, err := s.ledger.Create(ctx, rec)
	if err != nil {
		return Record{}, ledgerError(err)
	}
	return created, nil
}

func (s *Service) put(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	if err := s.provider.Put(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrStorageUnavailable, key, err)
	}
	return nil
}

func (s *Service) metricType(t AssetType) string {
	if s.policy.Known(t) {
		return string(t)
	}
	return "unknown"
}

// ledgerError keeps ErrNotFound, ErrConflict and ErrInvalidRequest and maps
// anything else to ErrLedgerUnavailable.
func ledgerError(err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidRequest) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
