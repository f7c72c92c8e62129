package assets

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// StorageKey builds namespace/environment/owner/type/random+ext. Only the
// random part differs between two uploads with the same inputs.
func StorageKey(namespace, environment, ownerID string, assetType AssetType, random, ext string) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{namespace, environment, ownerID, string(assetType)} {
		if p = strings.Trim(strings.TrimSpace(p), "/"); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, random+ext)
	return path.Join(parts...)
}

func randomKeyPart() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
