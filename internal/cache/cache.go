// Package cache provides a fixed-TTL response cache for todo endpoints.
//
// Keys are derived from (route, owner, normalized parameters), so two
// users never share an entry. Invalidation is owner-scoped and
// best-effort: it is called synchronously after a committed mutation, and
// a crash between commit and invalidation leaves a stale entry until
// natural expiry.
package cache

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// listParams are the query parameters that participate in a list cache
// key. Anything else (e.g. a client-supplied per_page) is ignored, which
// also keeps unknown parameters from fragmenting the cache.
var listParams = []string{"page", "completed", "deadline", "description", "title"}

// ResponseCache memoizes serialized todo responses for a fixed TTL.
// Safe for concurrent use; readers may observe entries up to TTL stale.
type ResponseCache struct {
	entries *gocache.Cache
}

// New creates a ResponseCache whose entries expire after ttl.
func New(ttl time.Duration) *ResponseCache {
	// Expired entries are swept at twice the TTL; lookups already treat
	// expired entries as absent, the sweep only reclaims memory.
	return &ResponseCache{
		entries: gocache.New(ttl, 2*ttl),
	}
}

// ListKey builds the cache key for a todo listing from the owner and the
// raw query parameters, normalized to a sorted, fixed parameter set.
func ListKey(userID uuid.UUID, query url.Values) string {
	parts := make([]string, 0, len(listParams))
	for _, p := range listParams {
		if v := query.Get(p); v != "" {
			parts = append(parts, p+"="+url.QueryEscape(v))
		}
	}
	sort.Strings(parts)
	return "todos:" + userID.String() + ":list:" + strings.Join(parts, "&")
}

// ItemKey builds the cache key for a single todo response.
func ItemKey(userID, todoID uuid.UUID) string {
	return "todos:" + userID.String() + ":item:" + todoID.String()
}

// Get returns the cached payload for key, if present and unexpired.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	v, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	payload, ok := v.([]byte)
	return payload, ok
}

// Set stores a payload under key for the configured TTL.
func (c *ResponseCache) Set(key string, payload []byte) {
	c.entries.Set(key, payload, gocache.DefaultExpiration)
}

// InvalidateOwner drops every cached entry belonging to the given user:
// all list pages and all single-item responses. Called after create,
// update and delete alike.
func (c *ResponseCache) InvalidateOwner(userID uuid.UUID) {
	prefix := "todos:" + userID.String() + ":"
	for key := range c.entries.Items() {
		if strings.HasPrefix(key, prefix) {
			c.entries.Delete(key)
		}
	}
}
