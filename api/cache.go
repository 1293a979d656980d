package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/warp/vacation-engine/vacation"
)

// ResultCache memoizes calendar and ledger responses. Keys hash the full
// plan content plus the query, so any edit produces a new key and stale
// entries simply age out.
type ResultCache struct {
	c *gocache.Cache
}

// NewResultCache creates a cache. A zero ttl disables caching.
func NewResultCache(ttl, cleanup time.Duration) *ResultCache {
	if ttl <= 0 {
		return nil
	}
	return &ResultCache{c: gocache.New(ttl, cleanup)}
}

// Get returns a cached value. Safe on a nil cache; an empty key never hits.
func (rc *ResultCache) Get(key string) (any, bool) {
	if rc == nil || key == "" {
		return nil, false
	}
	return rc.c.Get(key)
}

// Set stores a value with the default expiration. Safe on a nil cache; an
// empty key is not stored.
func (rc *ResultCache) Set(key string, v any) {
	if rc == nil || key == "" {
		return
	}
	rc.c.SetDefault(key, v)
}

// Len reports the number of live entries.
func (rc *ResultCache) Len() int {
	if rc == nil {
		return 0
	}
	return rc.c.ItemCount()
}

// planKey hashes settings, taken days, enabled holidays and the query. It
// returns "" when the settings cannot be encoded, which leaves the result
// uncached.
func planKey(plan *vacation.Plan, query string) string {
	cfg, err := json.Marshal(plan.Profile.Config)
	if err != nil {
		return ""
	}
	h := sha256.New()
	h.Write(cfg)
	h.Write([]byte{'|'})
	for _, d := range plan.Days.Sorted() {
		h.Write([]byte(d.String()))
	}
	h.Write([]byte{'|'})
	for _, d := range plan.EnabledHolidays().Sorted() {
		h.Write([]byte(d.String()))
	}
	h.Write([]byte{'|'})
	h.Write([]byte(query))
	return hex.EncodeToString(h.Sum(nil))
}
