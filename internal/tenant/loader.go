package tenant

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yanizio/sitebuilder/internal/content"
	"github.com/yanizio/sitebuilder/internal/site"
	"github.com/yanizio/sitebuilder/internal/theme"
)

// Source is the storage the cache loads from.  *site.Store satisfies it.
type Source interface {
	SiteByHost(ctx context.Context, host string) (*content.Site, error)
	ThemeByID(ctx context.Context, id string) (*theme.Theme, error)
}

// load turns host → *Tenant.  Steps:
//
//  1. Fetch site row.
//  2. Fetch the active theme, if the site names one.
//
// A theme that cannot be read is logged and left nil so the site still
// renders with the built-in theme.  The tenant is marked so the cache
// keeps it only for RetryTTL.
func (c *Cache) load(ctx context.Context, host string) (*Tenant, error) {
	// 1. site row
	rec, err := c.src.SiteByHost(ctx, host)
	if errors.Is(err, site.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tenant %s: %w", host, err)
	}

	// 2. theme
	var (
		th     *theme.Theme
		failed bool
	)
	if rec.ThemeID != "" {
		th, err = c.src.ThemeByID(ctx, rec.ThemeID)
		if err != nil {
			c.log.Warn("theme unavailable, using built-in",
				zap.String("host", host),
				zap.String("theme_id", rec.ThemeID),
				zap.Error(err))
			th, failed = nil, true
		}
	}

	return &Tenant{Site: *rec, Theme: th, LoadedAt: c.now(), themeFailed: failed}, nil
}
