// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects standard headers on every response:
//
//   - Strict-Transport-Security  forces HTTPS (2 years + preload)
//   - Content-Security-Policy    self-only policy; inline scripts need the
//     per-request nonce
//   - X-Frame-Options            click-jacking defence
//   - X-Content-Type-Options     MIME-sniffing defence
//   - Referrer-Policy            drops path/query from Referer
//   - Permissions-Policy         disables powerful features by default
//
// Notes
// -----
//   - Headers are set *before* next.ServeHTTP; a handler may replace any of
//     them (the editor preview relaxes framing this way).
//   - The nonce is stored in the request context.  Handlers pass it to
//     head.New so the color-mode bootstrap script carries it.
//   - Inline style attributes are allowed.  Block templates use them for
//     aspect ratios and the theme <style> block also carries the nonce.
package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
)

type nonceKey struct{}

// Nonce returns the request's CSP nonce, or "" outside Security.
func Nonce(ctx context.Context) string {
	n, _ := ctx.Value(nonceKey{}).(string)
	return n
}

// newNonce returns 128 random bits, base64 encoded.
func newNonce() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.StdEncoding.EncodeToString(b[:])
}

// CSP builds the policy for nonce.
func CSP(nonce string) string {
	return "default-src 'self'; " +
		"script-src 'self' 'nonce-" + nonce + "'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data: https:; " +
		"media-src 'self' https:; " +
		"frame-src https:; " +
		"object-src 'none'; base-uri 'self'; frame-ancestors 'self'"
}

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	const (
		hsts  = "max-age=63072000; includeSubDomains; preload"
		xfo   = "SAMEORIGIN"
		nosn  = "nosniff"
		refer = "strict-origin-when-cross-origin"
		perm  = "geolocation=(), microphone=(), camera=()"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce := newNonce()

		h := w.Header()
		h.Set("Strict-Transport-Security", hsts)
		h.Set("Content-Security-Policy", CSP(nonce))
		h.Set("X-Frame-Options", xfo)
		h.Set("X-Content-Type-Options", nosn)
		h.Set("Referrer-Policy", refer)
		h.Set("Permissions-Policy", perm)

		ctx := context.WithValue(r.Context(), nonceKey{}, nonce)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
