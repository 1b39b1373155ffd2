// Package cache provides byte-oriented caching for the layout pipeline.
//
// The pipeline caches per stage: computed layouts and rendered artifacts are
// stored under content-derived keys so identical inputs never recompute them.
// The Keyer also derives keys for parsed trees; the pipeline does not store
// parsed trees. Backends are pluggable through the Cache
// interface; the CLI uses the file backend, tests and one-shot runs the null
// backend.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key; absent keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Hash computes the SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a cache key "prefix:sha256(parts)".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// LayoutKeyOpts are the layout inputs that must distinguish cache entries.
type LayoutKeyOpts struct {
	Algorithm            string  `json:"algorithm"`
	TranslateWraps       bool    `json:"translate_wraps"`
	IdealLeading         float64 `json:"ideal_leading"`
	EnableSimplification bool    `json:"enable_simplification"`
}

// ArtifactKeyOpts are the render inputs that must distinguish cache entries.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Margin float64 `json:"margin"`
}

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// TreeKey keys a parsed tree by the source document's content hash.
	TreeKey(sourceHash string) string

	// LayoutKey keys a computed layout by tree hash and layout options.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by layout hash and render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer derives unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TreeKey implements Keyer.
func (DefaultKeyer) TreeKey(sourceHash string) string {
	return "tree:" + sourceHash
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// ScopedKeyer prefixes another keyer's keys, isolating namespaces when one
// backend serves several contexts (for example per-store documents on the
// HTTP server).
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner so every key gains the prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TreeKey implements Keyer.
func (k *ScopedKeyer) TreeKey(sourceHash string) string {
	return k.prefix + k.inner.TreeKey(sourceHash)
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
