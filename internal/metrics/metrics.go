// Package metrics holds Prometheus instruments that are used across the
// site builder.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Surface labels for PagesRenderedTotal.
const (
	SurfacePublic  = "public"
	SurfacePreview = "preview"
)

var (
	ActiveTenants = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_tenants",
			Help: "Number of tenants currently loaded in memory.",
		})

	TenantLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_load_total",
			Help: "Cumulative number of tenants successfully loaded.",
		})

	TenantLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_load_errors_total",
			Help: "Cumulative number of tenant load errors.",
		})

	TenantEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_evict_total",
			Help: "Cumulative number of tenants evicted from the cache.",
		})

	PagesRenderedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pages_rendered_total",
			Help: "Pages rendered, by surface and client class.",
		}, []string{"surface", "client"})

	PlaceholderBlocksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placeholder_blocks_total",
			Help: "Sections rendered as a placeholder because no renderer matched.",
		}, []string{"primitive"})

	DegradedBlocksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "degraded_blocks_total",
			Help: "Sections rendered degraded after a decode or renderer failure.",
		}, []string{"primitive"})

	DefaultThemeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "default_theme_substitutions_total",
			Help: "Renders that fell back to the built-in theme.",
		})
)

func init() {
	prometheus.MustRegister(
		ActiveTenants,
		TenantLoadTotal,
		TenantLoadErrorsTotal,
		TenantEvictTotal,
		PagesRenderedTotal,
		PlaceholderBlocksTotal,
		DegradedBlocksTotal,
		DefaultThemeTotal,
	)
}
