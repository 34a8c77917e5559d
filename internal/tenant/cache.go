package tenant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/sitebuilder/internal/metrics"
)

// Static defaults, used when an Options field is zero.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 100
	EvictInterval = 5 * time.Minute
	RetryTTL      = 30 * time.Second
)

// ErrNotFound is returned when a host is not present in the site table.
var ErrNotFound = errors.New("tenant not found")

// Options tunes a Cache.
type Options struct {
	IdleTTL        time.Duration
	MaxEntries     int
	EvictInterval  time.Duration
	RetryTTL       time.Duration // lifetime of an entry whose theme failed to load
	LocalhostAlias string
	Logger         *zap.Logger
}

// Cache lazily loads tenants, stores them in a sync.Map, and evicts them on
// idle TTL or LRU pressure.
type Cache struct {
	src        Source
	sfg        singleflight.Group
	m          sync.Map
	idleTTL    time.Duration
	maxEntries int
	retryTTL   time.Duration
	alias      string
	log        *zap.Logger
	now        func() time.Time

	evictTicker *time.Ticker
	stop        chan struct{}
	stopOnce    sync.Once
	done        chan struct{}
}

// New constructs a Cache and starts the background evictor.  Call Close
// to stop it.
func New(src Source, o Options) *Cache {
	if o.IdleTTL <= 0 {
		o.IdleTTL = IdleTTL
	}
	if o.MaxEntries <= 0 {
		o.MaxEntries = MaxEntries
	}
	if o.EvictInterval <= 0 {
		o.EvictInterval = EvictInterval
	}
	if o.RetryTTL <= 0 {
		o.RetryTTL = RetryTTL
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	c := &Cache{
		src:        src,
		idleTTL:    o.IdleTTL,
		maxEntries: o.MaxEntries,
		retryTTL:   o.RetryTTL,
		alias:      o.LocalhostAlias,
		log:        o.Logger,
		now:        time.Now,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	c.evictTicker = time.NewTicker(o.EvictInterval)
	go c.evictLoop()
	return c
}

// Get returns the Tenant for host, loading it on demand.  Concurrent
// misses for the same host share one load.
func (c *Cache) Get(ctx context.Context, host string) (*Tenant, error) {
	key := lookupHost(host, c.alias)
	if key == "" {
		return nil, ErrNotFound
	}
	if t, ok := c.touch(key); ok {
		return t, nil
	}

	ch := c.sfg.DoChan(key, func() (any, error) {
		// Double-check after singleflight barrier.
		if t, ok := c.touch(key); ok {
			return t, nil
		}
		// One caller's cancellation must not fail the others sharing
		// this load.
		ten, err := c.load(context.WithoutCancel(ctx), key)
		if err != nil {
			metrics.TenantLoadErrorsTotal.Inc()
			return nil, err
		}
		now := c.now()
		ent := &entry{tenant: ten, lastSeen: now.UnixNano()}
		if ten.themeFailed {
			ent.expiresAt = now.Add(c.retryTTL).UnixNano()
		}
		c.m.Store(key, ent)
		metrics.TenantLoadTotal.Inc()
		metrics.ActiveTenants.Inc()
		c.log.Info("tenant loaded", zap.String("host", key), zap.String("site_id", ten.Site.ID))
		return ten, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Tenant), nil
	}
}

func (c *Cache) touch(key string) (*Tenant, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	ent := v.(*entry)
	now := c.now().UnixNano()
	if ent.expiresAt != 0 && now >= ent.expiresAt {
		if c.m.CompareAndDelete(key, ent) {
			metrics.ActiveTenants.Dec()
		}
		return nil, false
	}
	atomic.StoreInt64(&ent.lastSeen, now)
	return ent.tenant, true
}

// Invalidate drops host so the next Get reloads it.  The editor calls it
// after a site's theme or chrome changes.
func (c *Cache) Invalidate(host string) {
	key := lookupHost(host, c.alias)
	if _, ok := c.m.LoadAndDelete(key); ok {
		metrics.ActiveTenants.Dec()
		c.log.Debug("tenant invalidated", zap.String("host", key))
	}
}

// InvalidateSite drops every cached host serving siteID.
func (c *Cache) InvalidateSite(siteID string) {
	c.m.Range(func(key, value any) bool {
		if value.(*entry).tenant.Site.ID == siteID {
			if _, ok := c.m.LoadAndDelete(key); ok {
				metrics.ActiveTenants.Dec()
			}
		}
		return true
	})
}

// Len reports the number of cached tenants.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(any, any) bool { n++; return true })
	return n
}

// Close stops the evictor and waits for it to exit.
func (c *Cache) Close() {
	c.stopOnce.Do(func() {
		c.evictTicker.Stop()
		close(c.stop)
	})
	<-c.done
}
