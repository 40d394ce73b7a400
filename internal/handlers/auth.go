package handlers

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/bkinvest/dashboard-api/internal/auth"
	"github.com/bkinvest/dashboard-api/internal/services"
	pkghttp "github.com/bkinvest/dashboard-api/pkg/http"
)

// AuthHandler handles the shared-password login and logout endpoints.
type AuthHandler struct {
	codec         *auth.Codec
	throttle      *services.LoginThrottle
	sitePassword  string
	sessionMaxAge int
	cookieConfig  auth.CookieConfig
}

func NewAuthHandler(codec *auth.Codec, throttle *services.LoginThrottle, sitePassword string, sessionMaxAge int, cookieConfig auth.CookieConfig) *AuthHandler {
	return &AuthHandler{
		codec:         codec,
		throttle:      throttle,
		sitePassword:  sitePassword,
		sessionMaxAge: sessionMaxAge,
		cookieConfig:  cookieConfig,
	}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type lockoutResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

// Login verifies the shared site password. Failures count toward a per-client
// lockout; success sets the session cookie and clears the client's record.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	clientKey := pkghttp.ClientKey(r)

	if locked, retryAfter := h.throttle.CheckLockout(clientKey); locked {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		pkghttp.WriteJSON(w, http.StatusTooManyRequests, lockoutResponse{
			Error:      fmt.Sprintf("너무 많은 시도입니다. %d초 후에 다시 시도해주세요.", retryAfter),
			RetryAfter: retryAfter,
		})
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "잘못된 요청입니다.")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "잘못된 요청입니다.")
		return
	}

	// Fails closed when no password is configured: nothing can match.
	if h.sitePassword == "" ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.sitePassword)) != 1 {
		h.throttle.RecordFailure(clientKey)
		pkghttp.WriteUnauthorized(w, "비밀번호가 올바르지 않습니다.")
		return
	}

	h.throttle.RecordSuccess(clientKey)

	token := h.codec.Sign(req.Password)
	auth.SetSessionCookie(w, token, h.sessionMaxAge, h.cookieConfig)

	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout clears the session cookie and sends the client back to the login
// surface.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookieConfig)
	http.Redirect(w, r, "/login", http.StatusFound)
}
