package assets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/memohai/assetd/internal/storage"
)

// memLedger enforces the uniqueness key under a mutex, standing in for a
// storage-level unique index.
type memLedger struct {
	mu      sync.Mutex
	records map[string]Record
	clock   time.Time

	createErr error
	findErr   error
	// block makes reads wait for the context to end.
	block   bool
	creates atomic.Int32
	finds   atomic.Int32
	// beforeCreate runs before the uniqueness check; tests use it to inject a racing row.
	beforeCreate func(rec Record)
}

func newMemLedger() *memLedger {
	return &memLedger{
		records: map[string]Record{},
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (l *memLedger) tick() time.Time {
	l.clock = l.clock.Add(time.Second)
	return l.clock
}

func (l *memLedger) FindByOwnerTypeDigest(ctx context.Context, ownerID string, assetType AssetType, digest string) (Record, error) {
	l.finds.Add(1)
	if l.block {
		<-ctx.Done()
		return Record{}, ctx.Err()
	}
	if l.findErr != nil {
		return Record{}, l.findErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rec := range l.records {
		if rec.OwnerID == ownerID && rec.AssetType == assetType && rec.ContentHash == digest {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func (l *memLedger) Create(_ context.Context, rec Record) (Record, error) {
	l.creates.Add(1)
	if l.createErr != nil {
		return Record{}, l.createErr
	}
	if l.beforeCreate != nil {
		l.beforeCreate(rec)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.records {
		if existing.OwnerID == rec.OwnerID && existing.AssetType == rec.AssetType && existing.ContentHash == rec.ContentHash {
			return Record{}, ErrConflict
		}
	}
	now := l.tick()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	l.records[rec.ID] = rec
	return rec, nil
}

func (l *memLedger) UpdateFileName(_ context.Context, id, fileName string) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec.FileName = fileName
	rec.UpdatedAt = l.tick()
	l.records[id] = rec
	return rec, nil
}

func (l *memLedger) ListByOwner(ctx context.Context, ownerID string, assetType *AssetType) ([]Record, error) {
	if l.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Record
	for _, rec := range l.records {
		if rec.OwnerID != ownerID {
			continue
		}
		if assetType != nil && rec.AssetType != *assetType {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (l *memLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// memProvider records puts in memory.
type memProvider struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	puts    atomic.Int32
	putErr  error
	block   bool
}

func newMemProvider() *memProvider {
	return &memProvider{objects: map[string][]byte{}, types: map[string]string{}}
}

func (p *memProvider) Put(ctx context.Context, key string, reader io.Reader, contentType string) error {
	p.puts.Add(1)
	if p.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if p.putErr != nil {
		return p.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objects[key] = data
	p.types[key] = contentType
	return nil
}

func (p *memProvider) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (p *memProvider) BaseURL() string { return "https://assets.example.com" }

type countingHasher struct {
	calls atomic.Int32
}

func (h *countingHasher) Sum(data []byte) string {
	h.calls.Add(1)
	return SHA256Hasher{}.Sum(data)
}

var errBackend = errors.New("backend down")

// pngBytes is a PNG signature followed by a truncated IHDR chunk; enough for signature sniffing.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
