// Package cache stores built scenes and rendered artifacts.
//
// Every backend implements [Cache]: a byte store keyed by strings with an
// optional TTL. Keys come from a [Keyer] so that the CLI, the HTTP server
// and batch runs agree on what identifies a scene:
//
//	key := keyer.SceneKey(cache.HashText(text), cache.SceneKeyOpts{Hint: "flowchart"})
//	data, hit, err := c.Get(ctx, key)
//
// Backends:
//
//   - [NullCache] stores nothing (--no-cache)
//   - [MemoryCache] keeps entries in process (server default, tests)
//   - [FileCache] writes one JSON file per entry (CLI default)
//   - [RedisCache] and [MongoCache] share entries between server replicas
package cache

import (
	"context"
	"time"
)

// TTLs per entry type. Scenes are pure functions of their inputs, so they
// live long; artifacts depend on renderer versions and expire sooner.
const (
	TTLScene    = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store. Get reports a miss with hit == false and a nil
// error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SceneKeyOpts is everything besides the source text that changes a scene.
type SceneKeyOpts struct {
	Hint            string `json:"hint,omitempty"`
	ThemeHash       string `json:"theme,omitempty"`
	FallbackOnEmpty bool   `json:"fallback,omitempty"`
}

// ArtifactKeyOpts identifies one rendering of a scene.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Scale    float64 `json:"scale,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	SceneKey(textHash string, opts SceneKeyOpts) string
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key material into "scene:<sha256>" and
// "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SceneKey returns the key of the scene built from text with opts.
func (DefaultKeyer) SceneKey(textHash string, opts SceneKeyOpts) string {
	return hashKey("scene", textHash, opts)
}

// ArtifactKey returns the key of one rendered artifact of a scene.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
