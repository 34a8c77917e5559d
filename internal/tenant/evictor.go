// evictor.go houses the eviction loop for Cache.  Every EvictInterval it
// scans the map and removes:
//
//   - tenants idle longer than idleTTL
//   - least-recently-used tenants when map size exceeds maxEntries
//
// Each eviction event is logged and updates Prometheus counters.
package tenant

import (
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/sitebuilder/internal/metrics"
)

func (c *Cache) evictLoop() {
	defer close(c.done)
	for {
		select {
		case <-c.stop:
			return
		case <-c.evictTicker.C:
			c.evict(c.now())
		}
	}
}

// evict runs one idle pass and one LRU pass.
func (c *Cache) evict(at time.Time) {
	now := at.UnixNano()
	var count int

	// ----------------------------------------------------------------
	// Idle eviction pass
	// ----------------------------------------------------------------
	c.m.Range(func(key, value any) bool {
		ent := value.(*entry)
		idle := time.Duration(now - atomic.LoadInt64(&ent.lastSeen))
		if idle > c.idleTTL {
			if _, ok := c.m.LoadAndDelete(key); ok {
				c.log.Info("tenant evicted",
					zap.Any("host", key),
					zap.Duration("idle", idle.Truncate(time.Second)))
				metrics.TenantEvictTotal.Inc()
				metrics.ActiveTenants.Dec()
			}
			return true
		}
		count++
		return true
	})

	// ----------------------------------------------------------------
	// LRU eviction pass
	// ----------------------------------------------------------------
	if c.maxEntries <= 0 || count <= c.maxEntries {
		return
	}
	type kv struct {
		key string
		at  int64
	}
	var all []kv
	c.m.Range(func(key, value any) bool {
		ent := value.(*entry)
		all = append(all, kv{key: key.(string), at: atomic.LoadInt64(&ent.lastSeen)})
		return true
	})
	sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
	for i := 0; i < len(all)-c.maxEntries; i++ {
		if _, ok := c.m.LoadAndDelete(all[i].key); ok {
			c.log.Info("tenant evicted (LRU pressure)", zap.String("host", all[i].key))
			metrics.TenantEvictTotal.Inc()
			metrics.ActiveTenants.Dec()
		}
	}
}
