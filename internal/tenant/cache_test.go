package tenant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yanizio/sitebuilder/internal/content"
	"github.com/yanizio/sitebuilder/internal/site"
	"github.com/yanizio/sitebuilder/internal/theme"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	mu       sync.Mutex
	sites    map[string]content.Site
	themes   map[string]*theme.Theme
	siteErr  error
	themeErr error
	loads    atomic.Int32
	gate     chan struct{}
}

func (f *fakeSource) SiteByHost(_ context.Context, host string) (*content.Site, error) {
	f.loads.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.siteErr != nil {
		return nil, f.siteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sites[host]
	if !ok {
		return nil, site.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSource) ThemeByID(_ context.Context, id string) (*theme.Theme, error) {
	if f.themeErr != nil {
		return nil, f.themeErr
	}
	t, ok := f.themes[id]
	if !ok {
		return nil, site.ErrNotFound
	}
	return t, nil
}

func newSource() *fakeSource {
	return &fakeSource{
		sites: map[string]content.Site{
			"acme.example.com": {ID: "s1", Host: "acme.example.com", ColorMode: "user_choice", ThemeID: "t1"},
			"bare.example.com": {ID: "s2", Host: "bare.example.com"},
		},
		themes: map[string]*theme.Theme{"t1": {ID: "t1", Version: 2}},
	}
}

func newCache(t *testing.T, src Source, o Options) *Cache {
	t.Helper()
	c := New(src, o)
	t.Cleanup(c.Close)
	return c
}

func TestGet_LoadsOnceAndCaches(t *testing.T) {
	src := newSource()
	c := newCache(t, src, Options{})

	ten, err := c.Get(context.Background(), "ACME.example.com:8443")
	require.NoError(t, err)
	assert.Equal(t, "s1", ten.Site.ID)
	require.NotNil(t, ten.Theme)
	assert.Equal(t, 2, ten.Theme.Version)
	assert.Equal(t, theme.ModeUserChoice, ten.Mode())

	again, err := c.Get(context.Background(), "acme.example.com")
	require.NoError(t, err)
	assert.Same(t, ten, again)
	assert.EqualValues(t, 1, src.loads.Load())
	assert.Equal(t, 1, c.Len())
}

func TestGet_ConcurrentMissesShareOneLoad(t *testing.T) {
	src := newSource()
	src.gate = make(chan struct{})
	c := newCache(t, src, Options{})

	var wg sync.WaitGroup
	results := make([]*Tenant, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ten, err := c.Get(context.Background(), "acme.example.com")
			assert.NoError(t, err)
			results[i] = ten
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.EqualValues(t, 1, src.loads.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestGet_NotFoundIsNotCached(t *testing.T) {
	src := newSource()
	c := newCache(t, src, Options{})

	_, err := c.Get(context.Background(), "nobody.example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Get(context.Background(), "nobody.example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualValues(t, 2, src.loads.Load())
	assert.Zero(t, c.Len())

	_, err = c.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_StorageErrorIsWrapped(t *testing.T) {
	src := newSource()
	src.siteErr = errors.New("db down")
	c := newCache(t, src, Options{})

	_, err := c.Get(context.Background(), "acme.example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, src.siteErr)
}

func TestGet_ThemeFailureFallsBackToNil(t *testing.T) {
	src := newSource()
	src.themeErr = errors.New("corrupt tokens")
	c := newCache(t, src, Options{})

	ten, err := c.Get(context.Background(), "acme.example.com")
	require.NoError(t, err)
	assert.Nil(t, ten.Theme)

	bare, err := c.Get(context.Background(), "bare.example.com")
	require.NoError(t, err)
	assert.Nil(t, bare.Theme)
	assert.Equal(t, theme.ModeLight, bare.Mode())
}

func TestGet_ThemeFailureRetriesAfterRetryTTL(t *testing.T) {
	src := newSource()
	src.themeErr = errors.New("connection reset")
	c := newCache(t, src, Options{RetryTTL: 30 * time.Second})

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	ten, err := c.Get(context.Background(), "acme.example.com")
	require.NoError(t, err)
	assert.Nil(t, ten.Theme)

	// Within the retry window the degraded tenant is served from cache.
	clock = clock.Add(10 * time.Second)
	_, err = c.Get(context.Background(), "acme.example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 1, src.loads.Load())

	src.themeErr = nil
	clock = clock.Add(30 * time.Second)
	ten, err = c.Get(context.Background(), "acme.example.com")
	require.NoError(t, err)
	require.NotNil(t, ten.Theme)
	assert.Equal(t, "t1", ten.Theme.ID)
	assert.EqualValues(t, 2, src.loads.Load())

	// A healthy tenant stays cached past the retry window.
	clock = clock.Add(time.Hour)
	_, err = c.Get(context.Background(), "acme.example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.loads.Load())
	assert.Equal(t, 1, c.Len())
}

func TestGet_LocalhostAlias(t *testing.T) {
	c := newCache(t, newSource(), Options{LocalhostAlias: "bare.example.com"})

	ten, err := c.Get(context.Background(), "localhost:8080")
	require.NoError(t, err)
	assert.Equal(t, "s2", ten.Site.ID)
}

func TestGet_CancelledContext(t *testing.T) {
	src := newSource()
	src.gate = make(chan struct{})
	c := newCache(t, src, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx, "acme.example.com")
	assert.ErrorIs(t, err, context.Canceled)

	// The shared load still completes for later callers.
	close(src.gate)
	ten, err := c.Get(context.Background(), "acme.example.com")
	require.NoError(t, err)
	assert.Equal(t, "s1", ten.Site.ID)
}

func TestInvalidate(t *testing.T) {
	src := newSource()
	c := newCache(t, src, Options{})

	_, err := c.Get(context.Background(), "acme.example.com")
	require.NoError(t, err)
	c.Invalidate("acme.example.com")
	assert.Zero(t, c.Len())

	_, err = c.Get(context.Background(), "acme.example.com")
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "bare.example.com")
	require.NoError(t, err)
	c.InvalidateSite("s1")
	assert.Equal(t, 1, c.Len())
	assert.EqualValues(t, 3, src.loads.Load())
}

func TestEvict_IdleAndLRU(t *testing.T) {
	src := newSource()
	src.sites["c.example.com"] = content.Site{ID: "s3"}
	c := newCache(t, src, Options{IdleTTL: time.Minute, MaxEntries: 1})

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	c.now = func() time.Time { return clock }

	for _, h := range []string{"acme.example.com", "bare.example.com", "c.example.com"} {
		_, err := c.Get(context.Background(), h)
		require.NoError(t, err)
		clock = clock.Add(10 * time.Second)
	}

	// acme is idle past the TTL; of the two left, bare is least recent.
	c.evict(base.Add(65 * time.Second))
	assert.Equal(t, 1, c.Len())
	_, ok := c.m.Load("c.example.com")
	assert.True(t, ok)
}

func TestMiddleware(t *testing.T) {
	src := newSource()
	c := newCache(t, src, Options{})
	h := Middleware(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(FromContext(r.Context()).Site.ID))
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://acme.example.com/", nil)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://missing.example.com/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	src.siteErr = errors.New("db down")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://other.example.com/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLookupHost(t *testing.T) {
	cases := map[string]string{
		"Example.COM":       "example.com",
		"example.com:443":   "example.com",
		"example.com.":      "example.com",
		"[::1]:8080":        "[::1]",
		"localhost":         "alias.test",
		"127.0.0.1:3000":    "alias.test",
		" shop.example.io ": "shop.example.io",
	}
	for in, want := range cases {
		assert.Equal(t, want, lookupHost(in, "alias.test"), in)
	}
	assert.Equal(t, "localhost", lookupHost("localhost", ""))
}
