// internal/config/model.go
//
// Typed configuration model for the site builder.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   - optional `.env`                               dotenv values,
//   - `conf/global.yaml`                            primary static file,
//   - `SITEBUILDER_`-prefixed environment overrides highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml`
//     tags unless configured otherwise.
//   - Durations are written as Go duration strings ("10s", "30m").
//   - The `Paths` block is filled at runtime; YAML must not try to set it.
package config

import (
	"strings"
	"time"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr        string        `koanf:"listen_addr"         validate:"required,hostname_port"`
	MetricsAddr       string        `koanf:"metrics_addr"        validate:"omitempty,hostname_port"`
	ForceHTTPS        bool          `koanf:"force_https"`
	ReadTimeout       time.Duration `koanf:"read_timeout"        validate:"gte=0"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"gte=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout"       validate:"gte=0"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"        validate:"gte=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"    validate:"gte=0"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The *template* (`DSN`) is kept in YAML so operators can tweak host,
// port, or flags without touching Vault.  The *secret* portion
// (`Password`) is usually a `vault:` reference and is substituted for the
// `{password}` placeholder at connect time.
type Database struct {
	DSN         string        `koanf:"dsn"          validate:"required"`
	Password    string        `koanf:"password"`
	MaxOpen     int           `koanf:"max_open"     validate:"gte=0"`
	MaxIdle     int           `koanf:"max_idle"     validate:"gte=0"`
	MaxLifetime time.Duration `koanf:"max_lifetime" validate:"gte=0"`
	PingRetries int           `koanf:"ping_retries" validate:"gte=0"`
	PingBackoff time.Duration `koanf:"ping_backoff" validate:"gte=0"`
}

// ConnString returns DSN with the password substituted.
func (d Database) ConnString() string {
	return strings.ReplaceAll(d.DSN, "{password}", d.Password)
}

//
// Render section
//

// Render tunes block rendering and theme materialization.
type Render struct {
	TemplateDir    string `koanf:"template_dir"`
	ThemeCacheSize int    `koanf:"theme_cache_size" validate:"gte=0"`
}

//
// Editor section
//

// Editor tunes the preview and selection surfaces.
type Editor struct {
	ScrollDelay   time.Duration `koanf:"scroll_delay"   validate:"gte=0"`
	SessionTTL    time.Duration `koanf:"session_ttl"    validate:"gte=0"`
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"gte=0"`
}

//
// Tenant section
//

// Tenant tunes the host-keyed site cache.
type Tenant struct {
	IdleTTL        time.Duration `koanf:"idle_ttl"        validate:"gte=0"`
	MaxEntries     int           `koanf:"max_entries"     validate:"gte=0"`
	EvictInterval  time.Duration `koanf:"evict_interval"  validate:"gte=0"`
	RetryTTL       time.Duration `koanf:"retry_ttl"       validate:"gte=0"`
	LocalhostAlias string        `koanf:"localhost_alias" validate:"omitempty,hostname"`
}

//
// Log section
//

// Log selects the log sink.
type Log struct {
	Dir        string `koanf:"dir"`
	Level      string `koanf:"level"        validate:"omitempty,oneof=debug info warn error"`
	Tee        bool   `koanf:"tee"`
	MaxSizeMB  int    `koanf:"max_size_mb"  validate:"gte=0"`
	MaxBackups int    `koanf:"max_backups"  validate:"gte=0"`
	MaxAgeDays int    `koanf:"max_age_days" validate:"gte=0"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.  The loader
// discovers `Root` (repo root or SITEBUILDER_ROOT override) so later code
// can build absolute file paths.
type Paths struct {
	Root string
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Render   Render   `koanf:"render"`
	Editor   Editor   `koanf:"editor"`
	Tenant   Tenant   `koanf:"tenant"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}

// applyDefaults fills zero values.  Zero is never a useful setting for
// these fields.
func (c *Config) applyDefaults() {
	setDur := func(d *time.Duration, v time.Duration) {
		if *d == 0 {
			*d = v
		}
	}
	setInt := func(i *int, v int) {
		if *i == 0 {
			*i = v
		}
	}
	setStr := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}

	setDur(&c.HTTP.ReadTimeout, 10*time.Second)
	setDur(&c.HTTP.ReadHeaderTimeout, 5*time.Second)
	setDur(&c.HTTP.WriteTimeout, 15*time.Second)
	setDur(&c.HTTP.IdleTimeout, 60*time.Second)
	setDur(&c.HTTP.ShutdownTimeout, 10*time.Second)

	setInt(&c.Database.MaxOpen, 15)
	setInt(&c.Database.MaxIdle, 5)
	setDur(&c.Database.MaxLifetime, 30*time.Minute)
	setInt(&c.Database.PingRetries, 3)
	setDur(&c.Database.PingBackoff, time.Second)

	setInt(&c.Render.ThemeCacheSize, 256)

	setDur(&c.Editor.ScrollDelay, 150*time.Millisecond)
	setDur(&c.Editor.SessionTTL, 30*time.Minute)
	setDur(&c.Editor.SweepInterval, time.Minute)

	setDur(&c.Tenant.IdleTTL, 30*time.Minute)
	setInt(&c.Tenant.MaxEntries, 100)
	setDur(&c.Tenant.EvictInterval, 5*time.Minute)
	setDur(&c.Tenant.RetryTTL, 30*time.Second)

	setStr(&c.Log.Dir, "logs")
	setStr(&c.Log.Level, "info")
}
