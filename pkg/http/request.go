package http

import (
	"net/http"
	"strings"
)

// ClientKey derives a best-effort client identifier for login throttling.
// It takes the first entry of X-Forwarded-For, or "unknown" when the header is
// absent. The identifier can collide behind a shared proxy or be spoofed; the
// throttle only needs to slow abuse, not establish identity.
func ClientKey(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		return "unknown"
	}
	first := strings.TrimSpace(strings.Split(xff, ",")[0])
	if first == "" {
		return "unknown"
	}
	return first
}
