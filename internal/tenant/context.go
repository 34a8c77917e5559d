// context.go carries the resolved Tenant through a request and provides
// the middleware that resolves it from the Host header.
package tenant

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type ctxKey struct{}

// WithTenant returns a copy of ctx carrying t.
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext returns the request's Tenant, or nil.
func FromContext(ctx context.Context) *Tenant {
	t, _ := ctx.Value(ctxKey{}).(*Tenant)
	return t
}

// Middleware resolves the tenant for r.Host.  Unknown hosts get 404; a
// storage failure gets 503 so load balancers retry elsewhere.
func Middleware(c *Cache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t, err := c.Get(r.Context(), r.Host)
			switch {
			case errors.Is(err, ErrNotFound):
				http.NotFound(w, r)
				return
			case err != nil:
				c.log.Error("tenant lookup", zap.String("host", r.Host), zap.Error(err))
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), t)))
		})
	}
}
