package handlers

import (
	"context"
	"net/http"

	"github.com/bkinvest/dashboard-api/internal/models"
	pkghttp "github.com/bkinvest/dashboard-api/pkg/http"
)

// FearGreedProvider defines the interface for the sentiment aggregator
type FearGreedProvider interface {
	Current(ctx context.Context) models.FearGreedReading
	History(ctx context.Context) models.FearGreedHistory
}

// CryptoHandler serves the crypto sentiment endpoints.
type CryptoHandler struct {
	fearGreed FearGreedProvider
}

func NewCryptoHandler(fearGreed FearGreedProvider) *CryptoHandler {
	return &CryptoHandler{fearGreed: fearGreed}
}

// FearGreed returns the current index reading. Upstream failures degrade to
// a labeled sample, never an error page, so the handler always responds 200.
func (h *CryptoHandler) FearGreed(w http.ResponseWriter, r *http.Request) {
	reading := h.fearGreed.Current(r.Context())
	w.Header().Set("Cache-Control", "public, s-maxage=300, stale-while-revalidate=600")
	pkghttp.WriteJSON(w, http.StatusOK, reading)
}

// FearGreedHistory returns ~365 days of readings, oldest first.
func (h *CryptoHandler) FearGreedHistory(w http.ResponseWriter, r *http.Request) {
	history := h.fearGreed.History(r.Context())
	w.Header().Set("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=7200")
	pkghttp.WriteJSON(w, http.StatusOK, history)
}
