package assets

import (
	"fmt"
	"slices"
	"strings"

	"github.com/memohai/assetd/internal/config"
)

// Policy is the ingestion configuration passed to the service at construction.
type Policy struct {
	Namespace   string
	Environment string
	MaxBytes    int64
	Types       map[AssetType]TypeRule
}

// TypeRule is the allow-list and metadata requirement of one asset type.
type TypeRule struct {
	MimeTypes          []string
	RequireDisplayName bool
}

// DefaultPolicy mirrors config defaults.
func DefaultPolicy() Policy {
	return PolicyFromConfig(config.AssetsConfig{
		Namespace:        config.DefaultAssetsNamespace,
		Environment:      config.DefaultAssetsEnvironment,
		MaxFileSizeBytes: config.DefaultMaxFileSizeBytes,
		Types:            config.DefaultAssetTypes(),
	})
}

// PolicyFromConfig converts the [assets] config section.
func PolicyFromConfig(cfg config.AssetsConfig) Policy {
	types := make(map[AssetType]TypeRule, len(cfg.Types))
	for name, rule := range cfg.Types {
		mimes := make([]string, 0, len(rule.MimeTypes))
		for _, m := range rule.MimeTypes {
			if m = NormalizeMime(m); m != "" {
				mimes = append(mimes, m)
			}
		}
		types[AssetType(strings.ToLower(strings.TrimSpace(name)))] = TypeRule{
			MimeTypes:          mimes,
			RequireDisplayName: rule.RequireDisplayName,
		}
	}
	return Policy{
		Namespace:   strings.TrimSpace(cfg.Namespace),
		Environment: strings.TrimSpace(cfg.Environment),
		MaxBytes:    cfg.MaxFileSizeBytes,
		Types:       types,
	}
}

// Known reports whether t has a rule. Unknown types have an empty allow-list.
func (p Policy) Known(t AssetType) bool {
	_, ok := p.Types[t]
	return ok
}

// Validated is the outcome of a successful validation.
type Validated struct {
	MimeType  string
	Extension string
}

// Validator checks uploads against a Policy. It performs no I/O.
type Validator struct {
	policy    Policy
	resolvers []MimeResolver
}

// NewValidator uses DefaultMimeResolvers when none are given.
func NewValidator(policy Policy, resolvers ...MimeResolver) *Validator {
	if len(resolvers) == 0 {
		resolvers = DefaultMimeResolvers
	}
	return &Validator{policy: policy, resolvers: resolvers}
}

// Validate runs, in order: file name present, MIME resolution, allow-list,
// size ceiling, required display name, extension lookup.
func (v *Validator) Validate(in UploadInput) (Validated, error) {
	fileName := strings.TrimSpace(in.FileName)
	if fileName == "" {
		return Validated{}, fmt.Errorf("%w: no file selected", ErrInvalidRequest)
	}

	actual := ResolveMime(v.resolvers, MimeHint{
		FileName: fileName,
		Declared: in.ContentType,
		Data:     in.Data,
	})
	rule := v.policy.Types[in.AssetType]
	if actual == "" || !slices.Contains(rule.MimeTypes, actual) {
		received := actual
		if received == "" {
			received = "unknown"
		}
		return Validated{}, fmt.Errorf("%w: asset type %q allows %s, received %s",
			ErrUnsupportedMediaType, in.AssetType, strings.Join(rule.MimeTypes, ", "), received)
	}

	if limit := v.policy.MaxBytes; limit > 0 && int64(len(in.Data)) > limit {
		return Validated{}, fmt.Errorf("%w: max %d bytes", ErrPayloadTooLarge, limit)
	}

	if rule.RequireDisplayName && strings.TrimSpace(in.DisplayName) == "" {
		return Validated{}, fmt.Errorf("%w: display_name is required for %s uploads", ErrInvalidRequest, in.AssetType)
	}

	ext := ExtensionForMime(actual)
	if ext == "" {
		return Validated{}, fmt.Errorf("%w: no file extension for MIME type %q", ErrInvalidRequest, actual)
	}
	return Validated{MimeType: actual, Extension: ext}, nil
}
