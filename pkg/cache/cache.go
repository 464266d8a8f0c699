// Package cache stores rendered artifacts keyed by the content they were
// rendered from.
//
// Rendering through Graphviz dominates a batch run, and most definitions do
// not change between runs. The orchestrator hashes each graph's DOT source
// and looks up the SVG, PNG and image map under that hash before rendering.
//
// # Backends
//
//   - [FileCache]: one file per artifact under a directory, for local use
//   - [RedisCache]: a shared Redis instance, for CI runners that build the
//     same project repeatedly
//   - [NullCache]: disables caching
//
// Keys come from a [Keyer]; [NewScopedKeyer] prefixes them so several
// projects can share one Redis database.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// DefaultTTL is the artifact lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// NullCache never stores anything. It backs the --no-cache flag and the
// "none" backend.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
