package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is a minimal path-style S3 endpoint holding objects in memory.
type fakeS3 struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		f.objects[r.URL.Path] = data
		f.contentTypes[r.URL.Path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", f.contentTypes[r.URL.Path])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3Store(t *testing.T, fake *fakeS3) *S3Store {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	store, err := NewS3Store(context.Background(), S3StoreConfig{
		Bucket:          "assets",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	})
	require.NoError(t, err)
	return store
}

func TestS3StorePutOpen(t *testing.T) {
	fake := newFakeS3()
	store := newTestS3Store(t, fake)
	ctx := context.Background()

	key := "goat/dev/u1/icon/abc.svg"
	require.NoError(t, store.Put(ctx, key, strings.NewReader("<svg/>"), "image/svg+xml"))

	fake.mu.Lock()
	assert.Equal(t, []byte("<svg/>"), fake.objects["/assets/"+key])
	assert.Equal(t, "image/svg+xml", fake.contentTypes["/assets/"+key])
	fake.mu.Unlock()

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
}

func TestS3StoreOpenMissing(t *testing.T) {
	store := newTestS3Store(t, newFakeS3())
	_, err := store.Open(context.Background(), "missing/key.png")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3StoreConfig{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestS3BaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3StoreConfig
		want string
	}{
		{"explicit", S3StoreConfig{Bucket: "b", BaseURL: "https://cdn.example.com/"}, "https://cdn.example.com"},
		{"endpoint", S3StoreConfig{Bucket: "b", Endpoint: "http://minio:9000/"}, "http://minio:9000/b"},
		{"aws", S3StoreConfig{Bucket: "b", Region: "eu-central-1"}, "https://b.s3.eu-central-1.amazonaws.com"},
		{"aws default region", S3StoreConfig{Bucket: "b"}, "https://b.s3.us-east-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s3BaseURL(tt.cfg))
		})
	}
}
