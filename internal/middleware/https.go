// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/yanizio/sitebuilder/internal/tenant"
)

// ForceHTTPS wraps h.  If the request is plain HTTP, the host is not a
// loopback name, and cache.Get confirms the site exists, the wrapper
// issues a 308 Permanent Redirect to the HTTPS version of the same URL.
// Otherwise it calls the next handler unchanged.
//
// A TLS-terminating proxy is trusted through X-Forwarded-Proto.
func ForceHTTPS(cache *tenant.Cache, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Already HTTPS or dev host → continue.
		if isHTTPS(r) || isLoopback(r.Host) {
			h.ServeHTTP(w, r)
			return
		}

		// Only redirect if the host exists in the site table.
		if _, err := cache.Get(r.Context(), r.Host); err == nil {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}

		// Unknown host → keep normal flow (likely 404 later).
		h.ServeHTTP(w, r)
	})
}

func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func isLoopback(host string) bool {
	h := stripPort(host)
	return h == "localhost" || h == "127.0.0.1" || h == "[::1]"
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if strings.HasPrefix(h, "[") {
		if i := strings.IndexByte(h, ']'); i != -1 {
			return h[:i+1]
		}
		return h
	}
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
