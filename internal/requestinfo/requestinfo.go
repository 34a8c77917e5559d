// internal/requestinfo/requestinfo.go
//
// Lightweight types and helpers that collect per-request metadata
// (user-agent fingerprint, client IP, URL, and timestamp).  These structs
// are inert.  They contain no pointers to database handles or large
// buffers, so they are safe to log or JSON-encode.
//
// The third-party `github.com/avct/uasurfer` API stays inside this file;
// the rest of the codebase never sees its enums or structs.
package requestinfo

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	surfer "github.com/avct/uasurfer"
)

// Client classes used as the `client` label on render metrics.
const (
	ClassBot   = "bot"
	ClassHuman = "human"
)

// UA holds the parsed user-agent properties.
//
// Example (Chrome on macOS):
//
//	Browser   "BrowserChrome"
//	Version   "125.0.6422"
//	OS        "OSMacOSX"
//	OSVersion "14.4"
//	Device    "Desktop"
//	Platform  "PlatformMac"
//	IsBot     false
type UA struct {
	Raw         string
	Browser     string
	Version     string
	OS          string
	OSVersion   string
	Device      string // Desktop, Mobile, Tablet, or Other
	Platform    string
	IsBot       bool
	PrimaryLang string // first tag from Accept-Language ("en", "es", ...)
}

// RequestInfo is stored in the request context by Enrich.
type RequestInfo struct {
	UA        UA
	IP        net.IP
	URL       *url.URL // pointer copy, safe to dereference read-only
	Timestamp time.Time
}

// Class returns ClassBot or ClassHuman.
func (ri *RequestInfo) Class() string {
	if ri != nil && ri.UA.IsBot {
		return ClassBot
	}
	return ClassHuman
}

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich.  It
// returns nil if the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// ClassOf is FromContext(ctx).Class() that tolerates a missing value.
func ClassOf(ctx context.Context) string { return FromContext(ctx).Class() }

// parseUA converts a raw header into a UA using uasurfer.
func parseUA(raw, acceptLang string) UA {
	u := surfer.Parse(raw)

	info := UA{
		Raw:         raw,
		Browser:     u.Browser.Name.String(),
		Version:     versionToString(u.Browser.Version),
		OS:          u.OS.Name.String(),
		OSVersion:   versionToString(u.OS.Version),
		Platform:    u.OS.Platform.String(),
		IsBot:       u.IsBot(),
		PrimaryLang: primaryLang(acceptLang),
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}
	return info
}

// versionToString renders a semantic version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	if v.Minor != 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(int(v.Major))
}

// primaryLang extracts the first language subtag before any ";q=" rule.
func primaryLang(al string) string {
	if al == "" {
		return ""
	}
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.ToLower(strings.TrimSpace(tag))
}
