// cmd/web/main.go
//
// Site builder – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load config (.env → conf/global.yaml → SITEBUILDER_* env), resolving
//     `vault:` references through a Vault client when the YAML has any.
//
//  2. Start daily rotating logger (tees to console when configured or when
//     running in a TTY).
//
//  3. Open the database and log active-site count.
//
//  4. Build the render stack: block registry, theme engine, pipeline.
//
//  5. Build tenant cache and editor session registry.
//
//  6. Expose Prometheus /metrics on its own listener.
//
//  7. Serve public pages and the editor API until SIGINT/SIGTERM, wrapped
//     with ForceHTTPS when enabled.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/sitebuilder/internal/block"
	"github.com/yanizio/sitebuilder/internal/config"
	"github.com/yanizio/sitebuilder/internal/database"
	"github.com/yanizio/sitebuilder/internal/logger"
	"github.com/yanizio/sitebuilder/internal/middleware"
	"github.com/yanizio/sitebuilder/internal/render"
	"github.com/yanizio/sitebuilder/internal/selection"
	"github.com/yanizio/sitebuilder/internal/server"
	"github.com/yanizio/sitebuilder/internal/site"
	"github.com/yanizio/sitebuilder/internal/tenant"
	"github.com/yanizio/sitebuilder/internal/theme"
	"github.com/yanizio/sitebuilder/internal/vault"
	"github.com/yanizio/sitebuilder/internal/web"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("sitebuilder: %v", err)
	}
}

func run(ctx context.Context) error {
	//
	// ── 1.  Config (Vault only when the YAML references it) ─────────────
	//
	root := config.RootDir()
	opts := config.Options{Root: root}
	if config.HasVaultRefs(root) {
		vc, err := vault.New(ctx, zap.L())
		if err != nil {
			return err
		}
		opts.Resolver = vc
	}
	cfg, err := config.Load(ctx, opts)
	if err != nil {
		return err
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	zl, err := logger.New(logger.Options{
		Dir:        cfg.Log.Dir,
		Level:      cfg.Log.Level,
		Tee:        cfg.Log.Tee || runningInTTY(),
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	//
	// ── 3.  Database ────────────────────────────────────────────────────
	//
	zl.Info("connecting to database")
	db, err := database.OpenWithOptions(ctx, cfg.Database.ConnString(), database.Options{
		MaxOpen:     cfg.Database.MaxOpen,
		MaxIdle:     cfg.Database.MaxIdle,
		MaxLifetime: cfg.Database.MaxLifetime,
		PingRetries: cfg.Database.PingRetries,
		PingBackoff: cfg.Database.PingBackoff,
	})
	if err != nil {
		zl.Error("database connect failed", zap.Error(err))
		return err
	}
	defer db.Close()
	store := site.NewStore(db, site.WithLogger(zl.Named("site")))

	// Early sanity check.
	if n, err := store.ActiveSites(ctx); err == nil {
		zl.Info("database online", zap.Int("active_sites", n))
	} else {
		zl.Warn("active site count failed", zap.Error(err))
	}

	//
	// ── 4.  Render stack ────────────────────────────────────────────────
	//
	reg, err := block.New(
		block.WithTemplateDir(cfg.Render.TemplateDir),
		block.WithLogger(zl.Named("block")),
	)
	if err != nil {
		return err
	}
	pipe := render.New(reg, theme.NewEngine(cfg.Render.ThemeCacheSize, zl.Named("theme")), zl.Named("render"))

	//
	// ── 5.  Tenant cache and editor sessions ────────────────────────────
	//
	tenants := tenant.New(store, tenant.Options{
		IdleTTL:        cfg.Tenant.IdleTTL,
		MaxEntries:     cfg.Tenant.MaxEntries,
		EvictInterval:  cfg.Tenant.EvictInterval,
		RetryTTL:       cfg.Tenant.RetryTTL,
		LocalhostAlias: cfg.Tenant.LocalhostAlias,
		Logger:         zl.Named("tenant"),
	})
	defer tenants.Close()

	sessions := selection.NewSessions(selection.WithDelay(cfg.Editor.ScrollDelay))
	defer sessions.CloseAll()
	go sweepSessions(ctx, sessions, cfg.Editor, zl)

	//
	// ── 6.  Metrics endpoint ────────────────────────────────────────────
	//
	if cfg.HTTP.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		msrv := server.New(cfg.HTTP, mux, zl.Named("metrics"))
		mln, err := net.Listen("tcp", cfg.HTTP.MetricsAddr)
		if err != nil {
			return err
		}
		go func() {
			if err := server.Serve(ctx, msrv, mln, cfg.HTTP.ShutdownTimeout); err != nil {
				zl.Error("metrics server", zap.Error(err))
			}
		}()
	}

	//
	// ── 7.  Public site and editor API ──────────────────────────────────
	//
	var handler http.Handler = web.New(web.Deps{
		Store:    store,
		Tenants:  tenants,
		Pipeline: pipe,
		Sessions: sessions,
		Log:      zl.Named("web"),
	}).Routes()
	if cfg.HTTP.ForceHTTPS {
		handler = middleware.ForceHTTPS(tenants, handler)
	}

	ln, err := net.Listen("tcp", cfg.HTTP.ListenAddr)
	if err != nil {
		return err
	}
	zl.Info("listening", zap.String("addr", ln.Addr().String()))
	err = server.Serve(ctx, server.New(cfg.HTTP, handler, zl), ln, cfg.HTTP.ShutdownTimeout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	zl.Info("shut down")
	return nil
}

// sweepSessions closes editor sessions that have not been polled within
// the configured TTL.
func sweepSessions(ctx context.Context, s *selection.Sessions, c config.Editor, zl *zap.Logger) {
	t := time.NewTicker(c.SweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(c.SessionTTL); n > 0 {
				zl.Debug("editor sessions swept", zap.Int("closed", n))
			}
		}
	}
}
