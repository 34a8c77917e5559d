// internal/tenant/helpers.go
//
// Host normalisation shared by the cache and its middleware.
//
// Context
// -------
//   - `stripPort`   removes the :port suffix from a Host header.
//   - `lookupHost`  lowercases the host and maps the literal "localhost"
//     to the configured alias so dev instances can masquerade as any
//     real site row.
//
// No logging here; caller decides what to log.
package tenant

import (
	"strings"
)

// stripPort removes :port from the Host header when present.  Bracketed
// IPv6 literals keep their brackets.
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

// lookupHost returns the key used when querying the `site` table.
func lookupHost(h, localhostAlias string) string {
	h = strings.ToLower(strings.TrimSuffix(stripPort(strings.TrimSpace(h)), "."))
	if (h == "localhost" || h == "127.0.0.1") && localhostAlias != "" {
		return localhostAlias
	}
	return h
}
