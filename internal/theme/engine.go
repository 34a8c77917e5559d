package theme

import (
	"go.uber.org/zap"

	"github.com/yanizio/sitebuilder/internal/cache"
	"github.com/yanizio/sitebuilder/internal/metrics"
)

// Engine memoizes Materialize.  Entries are keyed by theme identity
// (ID, version, generation time) and color mode, so a regenerated theme
// gets a fresh entry and modes never share one.  Themes without an ID are
// materialized on every call.
type Engine struct {
	lru *cache.LRU[engineKey, Declarations]
	log *zap.Logger
}

type engineKey struct {
	id        string
	version   int
	generated int64
	mode      ColorMode
}

// NewEngine returns an Engine holding up to size entries.  log may be nil.
func NewEngine(size int, log *zap.Logger) *Engine {
	if size < 1 {
		size = 256
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{lru: cache.New[engineKey, Declarations](size), log: log}
}

// Declarations returns the materialized declarations for t in mode.
func (e *Engine) Declarations(t *Theme, mode ColorMode) Declarations {
	mode = ParseColorMode(string(mode))
	if t == nil {
		metrics.DefaultThemeTotal.Inc()
	}

	key, ok := keyFor(t, mode)
	if ok {
		if d, hit := e.lru.Get(key); hit {
			return d
		}
	}

	d := Materialize(t, mode)
	if d.Substituted {
		e.log.Debug("theme missing, using built-in default", zap.String("mode", string(mode)))
	}
	if ok {
		e.lru.Add(key, d)
	}
	return d
}

func keyFor(t *Theme, mode ColorMode) (engineKey, bool) {
	if t == nil {
		return engineKey{id: "\x00builtin", mode: mode}, true
	}
	if t.ID == "" {
		return engineKey{}, false
	}
	return engineKey{id: t.ID, version: t.Version, generated: t.GeneratedAt.UnixNano(), mode: mode}, true
}
