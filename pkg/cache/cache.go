// Package cache provides content-addressed cache backends and keyers.
// Within this repository its one user is pkg/registry, which caches the
// protocol and subscription documents it fetches; analysis results
// themselves are not cached, and every check re-runs the analysis engine.
//
// Grounded on pkg/cache/{file,null,scoped,hash,errors}.go: the ctx-based
// byte-slice Cache interface, the directory-sharded FileCache layout, and
// the Retryable/RetryWithBackoff helpers carry over verbatim in shape.
// The teacher's Keyer (GraphKey/LayoutKey/ArtifactKey, keyed to dependency
// graphs and tower renders) has no referent here and is replaced by
// SwarmKey/ProjectionKey, keyed to protocol/subscription/role content.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache stores and retrieves opaque byte slices under string keys, with
// optional expiration.
type Cache interface {
	// Get retrieves a value from the cache. ok is false on a miss.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores a value under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value from the cache, if present.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

// Keyer derives stable cache keys from the content being cached, so that
// two calls with identical inputs always hash to the same key regardless
// of call order or map iteration order.
type Keyer interface {
	// SwarmKey derives a key for a check_swarm result from the protocol
	// and subscriptions that produced it.
	SwarmKey(protocolJSON, subscriptionsJSON string) string
	// ProjectionKey derives a key for a check_projection result.
	ProjectionKey(protocolJSON, subscriptionsJSON, role, machineJSON string) string
}

// DefaultKeyer hashes its inputs with SHA-256 and renders a namespaced
// hex key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default content-addressed keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SwarmKey implements Keyer.
func (DefaultKeyer) SwarmKey(protocolJSON, subscriptionsJSON string) string {
	return hashKey("swarm", protocolJSON, subscriptionsJSON)
}

// ProjectionKey implements Keyer.
func (DefaultKeyer) ProjectionKey(protocolJSON, subscriptionsJSON, role, machineJSON string) string {
	return hashKey("projection", protocolJSON, subscriptionsJSON, role, machineJSON)
}

// hashKey hashes parts together under a namespacing prefix, the same
// "prefix:hash(parts...)" shape the teacher's cache package uses.
func hashKey(prefix string, parts ...string) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the hex SHA-256 digest of data, used by FileCache to shard
// entries across subdirectories.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
