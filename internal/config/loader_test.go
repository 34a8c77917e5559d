package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
http:
  listen_addr: ":8080"
database:
  dsn: "app:{password}@tcp(db:3306)/app?parseTime=true"
  password: "vault:kv/app/db#password"
editor:
  scroll_delay: 200ms
`

func writeRoot(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644))
	return root
}

type fakeResolver map[string]string

func (f fakeResolver) ResolveRef(_ context.Context, ref string) (string, error) {
	v, ok := f[ref]
	if !ok {
		return "", errors.New("no such secret")
	}
	return v, nil
}

func TestLoad_LayersAndDefaults(t *testing.T) {
	root := writeRoot(t, minimalYAML)
	t.Setenv("SITEBUILDER_HTTP__FORCE_HTTPS", "true")
	t.Setenv("SITEBUILDER_TENANT__MAX_ENTRIES", "7")

	cfg, err := Load(context.Background(), Options{
		Root:     root,
		Resolver: fakeResolver{"vault:kv/app/db#password": "pw"},
	})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.ListenAddr)
	assert.True(t, cfg.HTTP.ForceHTTPS)
	assert.Equal(t, 7, cfg.Tenant.MaxEntries)
	assert.Equal(t, 200*time.Millisecond, cfg.Editor.ScrollDelay)
	assert.Equal(t, 30*time.Minute, cfg.Editor.SessionTTL, "default")
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout, "default")
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "app:pw@tcp(db:3306)/app?parseTime=true", cfg.Database.ConnString())
	assert.Equal(t, root, cfg.Paths.Root)
	assert.Same(t, cfg, Get())
}

func TestLoad_DotEnv(t *testing.T) {
	root := writeRoot(t, minimalYAML)
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", ".env"),
		[]byte("SITEBUILDER_LOG__LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SITEBUILDER_LOG__LEVEL") })

	cfg, err := Load(context.Background(), Options{Root: root, Resolver: fakeResolver{"vault:kv/app/db#password": "pw"}})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_VaultRefWithoutResolver(t *testing.T) {
	root := writeRoot(t, minimalYAML)

	_, err := Load(context.Background(), Options{Root: root})
	assert.ErrorIs(t, err, errNoResolver)
	assert.ErrorContains(t, err, "database.password")
	assert.True(t, HasVaultRefs(root))
}

func TestLoad_VaultFailure(t *testing.T) {
	root := writeRoot(t, minimalYAML)

	_, err := Load(context.Background(), Options{Root: root, Resolver: fakeResolver{}})
	assert.ErrorContains(t, err, "no such secret")
}

func TestLoad_ValidationUsesKoanfNames(t *testing.T) {
	root := writeRoot(t, `
http:
  listen_addr: "not a port"
database:
  dsn: "x"
log:
  level: loud
`)
	_, err := Load(context.Background(), Options{Root: root})
	require.Error(t, err)
	assert.ErrorContains(t, err, "listen_addr")
	assert.ErrorContains(t, err, "level")
	assert.False(t, HasVaultRefs(root))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), Options{Root: t.TempDir()})
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "http.listen_addr", envKey("SITEBUILDER_HTTP__LISTEN_ADDR"))
	assert.Equal(t, "log.max_size_mb", envKey("SITEBUILDER_LOG__MAX_SIZE_MB"))
}
