package assets

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher computes the content digest used in the dedup key.
type Hasher interface {
	Sum(data []byte) string
}

// SHA256Hasher hashes the full payload with SHA-256 and returns lowercase hex.
type SHA256Hasher struct{}

func (SHA256Hasher) Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
