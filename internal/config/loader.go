// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `<root>/conf/.env` file.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `SITEBUILDER_`, where `__` maps to “.”
     (e.g., `SITEBUILDER_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, `vault:` references are resolved, the tree is unmarshalled
into strongly-typed structs, defaulted, validated, enriched with the
runtime root path, and cached in an `atomic.Pointer` for lock-free reads.

Instrumentation
---------------
  - DEBUG spans: root discovery, YAML read, env overlay.
  - ERROR spans: YAML parse, env overlay, vault, unmarshal, validation.
  - INFO  span:  final “config loaded” with key highlights.
  - Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  - `RootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/sitebuilder/internal/vault"
)

// EnvPrefix is the prefix of overriding environment variables.
const EnvPrefix = "SITEBUILDER_"

var current atomic.Pointer[Config]

// Resolver turns a `vault:` reference into its secret.  *vault.Client
// satisfies it.
type Resolver interface {
	ResolveRef(ctx context.Context, ref string) (string, error)
}

// Options controls a Load.  Zero value discovers the root and refuses
// `vault:` references.
type Options struct {
	Root     string
	Resolver Resolver
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// RootDir resolves SITEBUILDER_ROOT or climbs directories until
// conf/global.yaml is found.  Falls back to executable heuristic for
// production layout.
func RootDir() string {
	if r := os.Getenv(EnvPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves vault references,
// validates, and caches Config.
func Load(ctx context.Context, o Options) (*Config, error) {
	root := o.Root
	if root == "" {
		root = RootDir()
	}
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing).  Existing env vars win.
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, fmt.Errorf("config: %w", err)
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: SITEBUILDER_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := resolveRefs(ctx, k, o.Resolver); err != nil {
		zap.S().Errorw("config vault resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.applyDefaults()
	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, fmt.Errorf("config: %w", err)
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// envKey maps SITEBUILDER_HTTP__LISTEN_ADDR to http.listen_addr.
func envKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, EnvPrefix), "__", "."))
}

// errNoResolver is returned when the tree holds a `vault:` value but no
// Resolver was supplied.
var errNoResolver = errors.New("config: vault reference found but vault is not configured")

// resolveRefs replaces every `vault:` string in k with its secret.
func resolveRefs(ctx context.Context, k *koanf.Koanf, r Resolver) error {
	keys := k.Keys()
	sort.Strings(keys)
	for _, key := range keys {
		s, ok := k.Get(key).(string)
		if !ok || !strings.HasPrefix(s, vault.RefPrefix) {
			continue
		}
		if r == nil {
			return fmt.Errorf("%w (%s)", errNoResolver, key)
		}
		val, err := r.ResolveRef(ctx, s)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		zap.S().Debugw("config vault reference resolved", "key", key)
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the most recently loaded Config, or nil.
func Get() *Config { return current.Load() }

// HasVaultRefs reports whether the YAML at root mentions a `vault:` value.
// Boot uses it to decide whether a Vault client is needed at all.
func HasVaultRefs(root string) bool {
	b, err := os.ReadFile(filepath.Join(root, "conf", "global.yaml"))
	if err != nil {
		return false
	}
	return strings.Contains(string(b), vault.RefPrefix)
}
