package auth

import (
	"net/http"
	"strings"

	pkghttp "github.com/bkinvest/dashboard-api/pkg/http"
)

// Paths exempt from the gate: the login surface, the auth API (otherwise a
// failed login could never be retried) and static assets.
var publicPrefixes = []string{
	"/login",
	"/api/auth",
	"/static/",
	"/favicon.ico",
	"/health",
}

// Gate returns middleware that blocks requests lacking a valid session token.
// Page requests are redirected to /login; API requests receive 401 JSON since
// a fetch caller cannot usefully follow an HTML redirect. Valid requests
// proceed unmodified.
func Gate(codec *Codec) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token, err := GetSessionCookie(r)
			if err != nil || !codec.Verify(token) {
				if strings.HasPrefix(r.URL.Path, "/api/") {
					pkghttp.WriteUnauthorized(w, "authentication required")
					return
				}
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
