package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/bkinvest/dashboard-api/internal/handlers"
	"github.com/bkinvest/dashboard-api/internal/middleware"
)

// RegisterRoutes registers all application routes. The edge gate runs at the
// router level (see cmd/api), so protected endpoints need no extra wrapping
// here; the login endpoint additionally carries a raw per-IP request limit.
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	cryptoHandler *handlers.CryptoHandler,
	youtubeHandler *handlers.YouTubeHandler,
) {
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Auth endpoints - exempt from the gate by allow-list
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/api/auth/login", authHandler.Login)
	router.Post("/api/auth/logout", authHandler.Logout)

	// Aggregator endpoints - behind the gate
	router.Get("/api/crypto/fear-greed", cryptoHandler.FearGreed)
	router.Get("/api/crypto/fear-greed-history", cryptoHandler.FearGreedHistory)
	router.Get("/api/youtube/latest", youtubeHandler.Latest)
	router.Post("/api/youtube/transcript", youtubeHandler.Transcript)
	router.Post("/api/youtube/summarize", youtubeHandler.Summarize)
}
