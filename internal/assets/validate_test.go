package assets

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() Policy {
	p := DefaultPolicy()
	p.MaxBytes = 64
	return p
}

func TestValidate(t *testing.T) {
	v := NewValidator(testPolicy())
	tests := []struct {
		name     string
		in       UploadInput
		wantErr  error
		wantMime string
		wantExt  string
	}{
		{
			name:    "missing file name",
			in:      UploadInput{AssetType: AssetTypeImage, Data: pngBytes},
			wantErr: ErrInvalidRequest,
		},
		{
			name:     "png by extension",
			in:       UploadInput{AssetType: AssetTypeImage, FileName: "a.png", Data: pngBytes},
			wantMime: "image/png",
			wantExt:  ".png",
		},
		{
			name:     "extension wins over declared",
			in:       UploadInput{AssetType: AssetTypeImage, FileName: "a.JPG", ContentType: "image/png", Data: pngBytes},
			wantMime: "image/jpeg",
			wantExt:  ".jpg",
		},
		{
			name:     "signature when name has no extension",
			in:       UploadInput{AssetType: AssetTypeImage, FileName: "upload", ContentType: "application/octet-stream", Data: pngBytes},
			wantMime: "image/png",
			wantExt:  ".png",
		},
		{
			name:     "declared as last resort",
			in:       UploadInput{AssetType: AssetTypeImage, FileName: "upload", ContentType: "image/webp; q=1", Data: []byte{0x00, 0x9f, 0x13, 0x37, 0x00, 0xfe}},
			wantMime: "image/webp",
			wantExt:  ".webp",
		},
		{
			name:    "text file declared as image",
			in:      UploadInput{AssetType: AssetTypeImage, FileName: "notes.txt", ContentType: "image/png", Data: []byte("just some plain text")},
			wantErr: ErrUnsupportedMediaType,
		},
		{
			name:    "not allowed for type",
			in:      UploadInput{AssetType: AssetTypeImage, FileName: "doc.pdf", Data: []byte("%PDF-1.4")},
			wantErr: ErrUnsupportedMediaType,
		},
		{
			name:    "gif allowed for image but not icon",
			in:      UploadInput{AssetType: AssetTypeIcon, FileName: "a.gif", DisplayName: "Pin", Data: []byte("GIF89a")},
			wantErr: ErrUnsupportedMediaType,
		},
		{
			name:    "unknown asset type rejects everything",
			in:      UploadInput{AssetType: "video", FileName: "a.png", Data: pngBytes},
			wantErr: ErrUnsupportedMediaType,
		},
		{
			name:    "nothing resolvable",
			in:      UploadInput{AssetType: AssetTypeImage, FileName: "upload", Data: []byte("plain words")},
			wantErr: ErrUnsupportedMediaType,
		},
		{
			name:    "icon requires display name",
			in:      UploadInput{AssetType: AssetTypeIcon, FileName: "pin.svg", Data: []byte("<svg/>")},
			wantErr: ErrInvalidRequest,
		},
		{
			name:     "icon with display name",
			in:       UploadInput{AssetType: AssetTypeIcon, FileName: "pin.svg", DisplayName: "Pin", Data: []byte("<svg/>")},
			wantMime: "image/svg+xml",
			wantExt:  ".svg",
		},
		{
			name:     "ico maps to x-icon",
			in:       UploadInput{AssetType: AssetTypeIcon, FileName: "fav.ico", DisplayName: "Fav", Data: []byte{0, 0, 1, 0}},
			wantMime: "image/x-icon",
			wantExt:  ".ico",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.in)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "error = %v, want %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMime, got.MimeType)
			assert.Equal(t, tt.wantExt, got.Extension)
		})
	}
}

func TestValidateSizeCeiling(t *testing.T) {
	v := NewValidator(testPolicy())

	atLimit := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, 64-len(pngBytes))...)
	require.Len(t, atLimit, 64)
	_, err := v.Validate(UploadInput{AssetType: AssetTypeImage, FileName: "a.png", Data: atLimit})
	assert.NoError(t, err)

	overLimit := append(atLimit, 0)
	_, err = v.Validate(UploadInput{AssetType: AssetTypeImage, FileName: "a.png", Data: overLimit})
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestValidateMissingExtension(t *testing.T) {
	policy := testPolicy()
	policy.Types["doc"] = TypeRule{MimeTypes: []string{"application/x-made-up"}}
	v := NewValidator(policy, MimeResolverFunc(MimeFromDeclared))
	_, err := v.Validate(UploadInput{AssetType: "doc", FileName: "x", ContentType: "application/x-made-up", Data: []byte("x")})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestResolveMimeOrder(t *testing.T) {
	fixed := func(m string) MimeResolver {
		return MimeResolverFunc(func(MimeHint) string { return m })
	}
	assert.Equal(t, "image/png", ResolveMime([]MimeResolver{fixed(""), fixed("application/octet-stream"), fixed("IMAGE/PNG"), fixed("image/gif")}, MimeHint{}))
	assert.Equal(t, "text/plain", ResolveMime([]MimeResolver{nil, fixed("text/plain; charset=utf-8"), fixed("image/png")}, MimeHint{}))
	assert.Equal(t, "", ResolveMime([]MimeResolver{nil, fixed(" ")}, MimeHint{}))
}

func TestDeclaredTypeDoesNotOverrideInference(t *testing.T) {
	hint := MimeHint{FileName: "notes.txt", Declared: "image/png", Data: []byte("just some plain text")}
	assert.Equal(t, "text/plain", ResolveMime(DefaultMimeResolvers, hint))

	hint.FileName = "notes"
	assert.Equal(t, "text/plain", ResolveMime(DefaultMimeResolvers, hint))
}

func TestPolicyFromConfigNormalizes(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.Known(AssetTypeImage))
	assert.True(t, p.Known(AssetTypeIcon))
	assert.False(t, p.Known("video"))
	assert.Equal(t, "goat", p.Namespace)
	assert.Contains(t, p.Types[AssetTypeIcon].MimeTypes, "image/svg+xml")
	assert.NotContains(t, p.Types[AssetTypeIcon].MimeTypes, "image/gif")
}

func TestExtensionForMime(t *testing.T) {
	assert.Equal(t, ".jpg", ExtensionForMime("image/jpeg"))
	assert.Equal(t, ".svg", ExtensionForMime("Image/SVG+XML"))
	assert.Equal(t, "", ExtensionForMime("application/x-made-up"))
}
