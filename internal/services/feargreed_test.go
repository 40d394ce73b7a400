package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bkinvest/dashboard-api/internal/models"
)

func newTestFearGreed(upstream string) *FearGreedService {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	svc := NewFearGreedService(logger)
	svc.baseURL = upstream
	svc.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestFearGreedCurrentLive(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fng/", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{"data":[{"value":"72","value_classification":"Greed","timestamp":"1767225600"}]}`)
	}))
	defer upstream.Close()

	svc := newTestFearGreed(upstream.URL)
	reading := svc.Current(context.Background())

	assert.Equal(t, SourceAlternativeMe, reading.Source)
	assert.Equal(t, 72, reading.Value)
	assert.Equal(t, "Greed", reading.Classification)
	assert.Equal(t, "2026-01-01T00:00:00Z", reading.Timestamp)
}

func TestFearGreedCurrentFallsBackToSample(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	svc := newTestFearGreed(upstream.URL)
	reading := svc.Current(context.Background())

	assert.Equal(t, SourceSample, reading.Source)
	assert.Equal(t, 35, reading.Value)
	assert.Equal(t, "Fear", reading.Classification)
}

func TestFearGreedHistoryLiveIsOldestFirst(t *testing.T) {
	// API returns newest first.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[
			{"value":"55","value_classification":"Neutral","timestamp":"1767312000"},
			{"value":"30","value_classification":"Fear","timestamp":"1767225600"}
		]}`)
	}))
	defer upstream.Close()

	svc := newTestFearGreed(upstream.URL)
	history := svc.History(context.Background())

	assert.Equal(t, SourceAlternativeMe, history.Source)
	assert.Len(t, history.Data, 2)
	assert.Equal(t, "2026-01-01", history.Data[0].Date)
	assert.Equal(t, 30, history.Data[0].Value)
	assert.Equal(t, "2026-01-02", history.Data[1].Date)
	assert.Equal(t, 55, history.Data[1].Value)
}

func TestFearGreedSampleHistoryShape(t *testing.T) {
	svc := newTestFearGreed("http://127.0.0.1:0")

	points := svc.SampleHistory()

	assert.Len(t, points, 366, "365 days back plus today")
	for _, p := range points {
		assert.GreaterOrEqual(t, p.Value, 5, "value below clamp at %s", p.Date)
		assert.LessOrEqual(t, p.Value, 95, "value above clamp at %s", p.Date)
		assert.Equal(t, models.ClassifyFearGreed(p.Value), p.Classification, "band mismatch at %s", p.Date)
	}

	// Deterministic for a fixed clock.
	assert.Equal(t, points, svc.SampleHistory())

	// Chronological, oldest first, ending today.
	assert.Equal(t, "2025-08-01", points[0].Date)
	assert.Equal(t, "2026-08-01", points[len(points)-1].Date)
}

func TestClassifyFearGreedBands(t *testing.T) {
	cases := map[int]string{
		5:   "Extreme Fear",
		20:  "Extreme Fear",
		21:  "Fear",
		40:  "Fear",
		41:  "Neutral",
		60:  "Neutral",
		61:  "Greed",
		80:  "Greed",
		81:  "Extreme Greed",
		95:  "Extreme Greed",
		100: "Extreme Greed",
	}
	for value, want := range cases {
		assert.Equal(t, want, models.ClassifyFearGreed(value), "value %d", value)
	}
}
