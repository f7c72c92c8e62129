package assets

import (
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MimeHint is what a MimeResolver may inspect.
type MimeHint struct {
	FileName string
	Declared string
	Data     []byte
}

// MimeResolver infers a MIME type, returning "" when it cannot tell.
type MimeResolver interface {
	ResolveMime(hint MimeHint) string
}

// MimeResolverFunc adapts a function to MimeResolver.
type MimeResolverFunc func(hint MimeHint) string

func (f MimeResolverFunc) ResolveMime(hint MimeHint) string { return f(hint) }

// DefaultMimeResolvers prefers the file name, then the content signature,
// then whatever the caller declared.
var DefaultMimeResolvers = []MimeResolver{
	MimeResolverFunc(MimeFromFileName),
	MimeResolverFunc(MimeFromSignature),
	MimeResolverFunc(MimeFromDeclared),
}

// ResolveMime walks resolvers in order and returns the first specific answer.
func ResolveMime(resolvers []MimeResolver, hint MimeHint) string {
	for _, r := range resolvers {
		if r == nil {
			continue
		}
		if m := NormalizeMime(r.ResolveMime(hint)); !isGenericMime(m) {
			return m
		}
	}
	return ""
}

// MimeFromFileName maps the file extension to a MIME type.
func MimeFromFileName(hint MimeHint) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(hint.FileName)))
	if ext == "" {
		return ""
	}
	if m, ok := mimeByExtension[ext]; ok {
		return m
	}
	return mime.TypeByExtension(ext)
}

// MimeFromSignature sniffs the leading bytes of the payload.
func MimeFromSignature(hint MimeHint) string {
	if len(hint.Data) == 0 {
		return ""
	}
	return mimetype.Detect(hint.Data).String()
}

// MimeFromDeclared returns the caller-declared content type.
func MimeFromDeclared(hint MimeHint) string {
	return hint.Declared
}

// NormalizeMime normalizes MIME to lowercase token form.
func NormalizeMime(raw string) string {
	m := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.Index(m, ";"); idx >= 0 {
		m = strings.TrimSpace(m[:idx])
	}
	return m
}

// ExtensionForMime returns the file extension used in storage keys, or "".
func ExtensionForMime(mimeType string) string {
	m := NormalizeMime(mimeType)
	if ext, ok := extensionByMime[m]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(m); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

func isGenericMime(m string) bool {
	switch m {
	case "", "application/octet-stream":
		return true
	default:
		return false
	}
}

var mimeByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jpe":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".txt":  "text/plain",
}

var extensionByMime = map[string]string{
	"image/jpeg":               ".jpg",
	"image/jpg":                ".jpg",
	"image/png":                ".png",
	"image/gif":                ".gif",
	"image/webp":               ".webp",
	"image/bmp":                ".bmp",
	"image/tiff":               ".tiff",
	"image/svg+xml":            ".svg",
	"image/x-icon":             ".ico",
	"image/vnd.microsoft.icon": ".ico",
}
