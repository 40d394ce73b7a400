package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bkinvest/dashboard-api/internal/auth"
	"github.com/bkinvest/dashboard-api/internal/config"
	"github.com/bkinvest/dashboard-api/internal/handlers"
	middlewareCustom "github.com/bkinvest/dashboard-api/internal/middleware"
	"github.com/bkinvest/dashboard-api/internal/routes"
	"github.com/bkinvest/dashboard-api/internal/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Token codec and login throttle
	codec := auth.NewCodec(cfg.Auth.TokenSecret, cfg.Auth.SitePassword)
	throttle := services.NewLoginThrottle(cfg.Auth.MaxAttempts, cfg.Auth.LockoutDuration, logger)

	// Aggregators
	fearGreedService := services.NewFearGreedService(logger)
	feedService := services.NewFeedService(cfg.Notion, cfg.YouTube.ChannelID, logger)
	videoService := services.NewVideoService(cfg.YouTube.TranscriptScript, cfg.YouTube.TranscriptTimeout, logger)
	summarizeService := services.NewSummarizeService(cfg.Gemini.APIKey, cfg.Gemini.Model, logger)

	if cfg.Notion.APIKey == "" {
		logger.Info("NOTION_API_KEY not set, content feed falls back to the channel feed")
	}
	if cfg.Gemini.APIKey == "" {
		logger.Info("GEMINI_API_KEY not set, summarization endpoint disabled")
	}

	// Initialize handlers
	cookieConfig := auth.CookieConfig{Secure: cfg.Server.Env == "production"}
	authHandler := handlers.NewAuthHandler(codec, throttle, cfg.Auth.SitePassword,
		int(cfg.Auth.SessionMaxAge.Seconds()), cookieConfig)
	cryptoHandler := handlers.NewCryptoHandler(fearGreedService)
	youtubeHandler := handlers.NewYouTubeHandler(feedService, videoService, summarizeService)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Edge gate: everything except the allow-listed login surface and auth API
	router.Use(auth.Gate(codec))

	// Register routes
	routes.RegisterRoutes(router, authHandler, cryptoHandler, youtubeHandler)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
