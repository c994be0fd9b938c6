// Package cache wraps a Clerk dispatcher with a read-through cache in
// front of its hottest read paths. Templates are immutable once added
// and rigid-body/object-state reads are the highest-QPS path from a
// physics client, exactly the shape ristretto is built for.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/azrael-sim/clerk/pkg/clerk"
	"github.com/dgraph-io/ristretto/v2"
)

// cachedReads lists the commands this layer may serve from cache.
var cachedReads = map[string]bool{
	"get_templates":     true,
	"get_rigid_bodies":  true,
	"get_object_states": true,
}

// invalidatingWrites lists the commands whose success invalidates the
// whole cache. Azrael's mutation set is small enough that a full
// clear on any successful write is simpler and cheap enough than
// tracking per-object dependency keys.
var invalidatingWrites = map[string]bool{
	"add_templates":         true,
	"spawn":                 true,
	"remove":                true,
	"set_rigid_bodies":      true,
	"set_fragments":         true,
	"set_force":             true,
	"control_parts":         true,
	"update_booster_forces": true,
	"add_constraints":       true,
	"delete_constraints":    true,
	"set_custom":            true,
}

// Config sizes the underlying ristretto cache.
type Config struct {
	NumCounters int64
	MaxCost     int64
	TTL         time.Duration
}

// CachedClerk decorates a *clerk.Clerk with read-through caching. It
// satisfies pkg/wire.Dispatcher, so a server can be pointed at either
// a bare Clerk or a CachedClerk interchangeably.
type CachedClerk struct {
	clerk *clerk.Clerk
	cache *ristretto.Cache[string, clerk.Response]
	ttl   time.Duration
}

// New wraps c with a cache sized by cfg.
func New(c *clerk.Clerk, cfg Config) (*CachedClerk, error) {
	rc, err := ristretto.NewCache(&ristretto.Config[string, clerk.Response]{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: new ristretto cache: %w", err)
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 2 * time.Second
	}
	return &CachedClerk{clerk: c, cache: rc, ttl: ttl}, nil
}

// Dispatch serves cacheable reads from cache when present, and clears
// the cache after any successful mutating command.
func (cc *CachedClerk) Dispatch(cmd string, data map[string]interface{}) clerk.Response {
	if cachedReads[cmd] {
		key := cacheKey(cmd, data)
		if resp, hit := cc.cache.Get(key); hit {
			return resp
		}
		resp := cc.clerk.Dispatch(cmd, data)
		if resp.OK {
			cc.cache.SetWithTTL(key, resp, 1, cc.ttl)
		}
		return resp
	}

	resp := cc.clerk.Dispatch(cmd, data)
	if invalidatingWrites[cmd] && resp.OK {
		cc.cache.Clear()
	}
	return resp
}

// Close releases the underlying cache's background goroutines.
func (cc *CachedClerk) Close() {
	cc.cache.Close()
}

func cacheKey(cmd string, data map[string]interface{}) string {
	raw, err := json.Marshal(data)
	if err != nil {
		// Unmarshalable request data never hits the store either;
		// fall back to a key that simply never matches.
		return cmd
	}
	return cmd + ":" + string(raw)
}
