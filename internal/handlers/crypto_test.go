package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"

	"github.com/bkinvest/dashboard-api/internal/handlers"
	"github.com/bkinvest/dashboard-api/internal/models"
)

type stubFearGreed struct {
	current models.FearGreedReading
	history models.FearGreedHistory
}

func (s *stubFearGreed) Current(context.Context) models.FearGreedReading {
	return s.current
}

func (s *stubFearGreed) History(context.Context) models.FearGreedHistory {
	return s.history
}

func TestFearGreedCurrentResponse(t *testing.T) {
	handler := handlers.NewCryptoHandler(&stubFearGreed{
		current: models.FearGreedReading{
			Source:         "alternative.me",
			Value:          72,
			Classification: "Greed",
			Timestamp:      "2026-08-01T00:00:00Z",
		},
	})

	req := httptest.NewRequest("GET", "/api/crypto/fear-greed", nil)
	rec := httptest.NewRecorder()
	handler.FearGreed(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, s-maxage=300, stale-while-revalidate=600", rec.Header().Get("Cache-Control"))

	var reading models.FearGreedReading
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reading))
	assert.Equal(t, 72, reading.Value)
	assert.Equal(t, "Greed", reading.Classification)
}

func TestFearGreedHistoryResponse(t *testing.T) {
	handler := handlers.NewCryptoHandler(&stubFearGreed{
		history: models.FearGreedHistory{
			Source: "sample",
			Data: []models.FearGreedPoint{
				{Date: "2026-07-31", Value: 30, Classification: "Fear"},
				{Date: "2026-08-01", Value: 45, Classification: "Neutral"},
			},
		},
	})

	req := httptest.NewRequest("GET", "/api/crypto/fear-greed-history", nil)
	rec := httptest.NewRecorder()
	handler.FearGreedHistory(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, s-maxage=3600, stale-while-revalidate=7200", rec.Header().Get("Cache-Control"))

	var history models.FearGreedHistory
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Equal(t, "sample", history.Source)
	assert.Len(t, history.Data, 2)
	assert.Equal(t, "2026-07-31", history.Data[0].Date)
}
