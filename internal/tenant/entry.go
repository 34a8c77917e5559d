// internal/tenant/entry.go
//
// Tenant cache entry and aggregate.
//
// Context
// -------
// A live Tenant aggregates what the public and editor handlers need to
// serve a single site: its `site` row and its active Theme.  The cache
// stores a pointer to Tenant inside `entry`, along with a `lastSeen`
// UnixNano timestamp used by the evictor for idle and LRU eviction.
//
// Notes
// -----
//   - Theme is nil when the site has no theme or its theme row could not
//     be read.  Renderers substitute the built-in theme in that case.  A
//     failed theme read gets an `expiresAt` of RetryTTL so the next
//     request after it reloads the tenant.
//   - Handlers must treat Tenant as immutable after load.  Content edits
//     do not touch it; a theme change calls Cache.Invalidate.
package tenant

import (
	"time"

	"github.com/yanizio/sitebuilder/internal/content"
	"github.com/yanizio/sitebuilder/internal/theme"
)

type entry struct {
	tenant    *Tenant
	lastSeen  int64 // UnixNano
	expiresAt int64 // UnixNano; 0 means until evicted
}

// Tenant groups the per-site runtime assets needed by request handlers.
type Tenant struct {
	Site     content.Site
	Theme    *theme.Theme
	LoadedAt time.Time

	themeFailed bool
}

// Mode is the site's parsed color-mode policy.
func (t *Tenant) Mode() theme.ColorMode { return theme.ParseColorMode(t.Site.ColorMode) }
