package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/bkinvest/dashboard-api/internal/models"
)

const (
	// SourceAlternativeMe labels live Fear & Greed data.
	SourceAlternativeMe = "alternative.me"
	// SourceSample labels deterministic synthetic data.
	SourceSample = "sample"

	defaultFearGreedURL = "https://api.alternative.me"
)

// FearGreedService aggregates the crypto Fear & Greed Index from
// alternative.me, degrading to synthetic data on any upstream failure.
type FearGreedService struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
	now     func() time.Time
}

// NewFearGreedService creates the aggregator with a 10s upstream timeout.
func NewFearGreedService(logger *slog.Logger) *FearGreedService {
	return &FearGreedService{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultFearGreedURL,
		logger:  logger,
		now:     time.Now,
	}
}

// fngResponse is the alternative.me wire format. Numeric fields arrive as
// strings.
type fngResponse struct {
	Data []struct {
		Value               string `json:"value"`
		ValueClassification string `json:"value_classification"`
		Timestamp           string `json:"timestamp"`
	} `json:"data"`
}

// Current returns the latest index reading, live or sample.
func (s *FearGreedService) Current(ctx context.Context) models.FearGreedReading {
	reading, source := Resolve(ctx, s.logger,
		Source[models.FearGreedReading]{Name: SourceAlternativeMe, Fetch: s.fetchCurrent},
		Source[models.FearGreedReading]{Name: SourceSample, Fetch: func(context.Context) (models.FearGreedReading, error) {
			return s.sampleCurrent(), nil
		}},
	)
	reading.Source = source
	return reading
}

// History returns ~365 days of readings ordered oldest first, live or sample.
func (s *FearGreedService) History(ctx context.Context) models.FearGreedHistory {
	points, source := Resolve(ctx, s.logger,
		Source[[]models.FearGreedPoint]{Name: SourceAlternativeMe, Fetch: s.fetchHistory},
		Source[[]models.FearGreedPoint]{Name: SourceSample, Fetch: func(context.Context) ([]models.FearGreedPoint, error) {
			return s.SampleHistory(), nil
		}},
	)
	return models.FearGreedHistory{Source: source, Data: points}
}

func (s *FearGreedService) fetchCurrent(ctx context.Context) (models.FearGreedReading, error) {
	var out fngResponse
	if err := s.fetch(ctx, 1, &out); err != nil {
		return models.FearGreedReading{}, err
	}
	if len(out.Data) == 0 {
		return models.FearGreedReading{}, fmt.Errorf("no data returned")
	}

	entry := out.Data[0]
	value, err := strconv.Atoi(entry.Value)
	if err != nil {
		return models.FearGreedReading{}, fmt.Errorf("parse value %q: %w", entry.Value, err)
	}
	ts, err := strconv.ParseInt(entry.Timestamp, 10, 64)
	if err != nil {
		return models.FearGreedReading{}, fmt.Errorf("parse timestamp %q: %w", entry.Timestamp, err)
	}

	return models.FearGreedReading{
		Value:          value,
		Classification: entry.ValueClassification,
		Timestamp:      time.Unix(ts, 0).UTC().Format(time.RFC3339),
	}, nil
}

func (s *FearGreedService) fetchHistory(ctx context.Context) ([]models.FearGreedPoint, error) {
	var out fngResponse
	if err := s.fetch(ctx, 365, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("no data returned")
	}

	// API returns newest first; flip to oldest first.
	points := make([]models.FearGreedPoint, 0, len(out.Data))
	for i := len(out.Data) - 1; i >= 0; i-- {
		entry := out.Data[i]
		value, err := strconv.Atoi(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("parse value %q: %w", entry.Value, err)
		}
		ts, err := strconv.ParseInt(entry.Timestamp, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", entry.Timestamp, err)
		}
		points = append(points, models.FearGreedPoint{
			Date:           time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Value:          value,
			Classification: entry.ValueClassification,
		})
	}
	return points, nil
}

func (s *FearGreedService) fetch(ctx context.Context, limit int, out *fngResponse) error {
	url := fmt.Sprintf("%s/fng/?limit=%d&format=json", s.baseURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: alternative.me responded %d", models.ErrUpstream, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *FearGreedService) sampleCurrent() models.FearGreedReading {
	return models.FearGreedReading{
		Value:          35,
		Classification: "Fear",
		Timestamp:      s.now().UTC().Format(time.RFC3339),
	}
}

// SampleHistory generates a deterministic 366-point series (365 days back
// through today) by summing a slow and a fast sinusoid, clamped to [5,95].
func (s *FearGreedService) SampleHistory() []models.FearGreedPoint {
	now := s.now()
	points := make([]models.FearGreedPoint, 0, 366)

	for d := 365; d >= 0; d-- {
		date := now.AddDate(0, 0, -d)
		t := float64(365-d) / 365

		base := 45.0
		cycle := 25 * math.Sin(2*math.Pi*t*3+1.2)
		micro := 10 * math.Sin(2*math.Pi*t*15+2.5)
		value := int(math.Round(base + cycle + micro))
		if value < 5 {
			value = 5
		}
		if value > 95 {
			value = 95
		}

		points = append(points, models.FearGreedPoint{
			Date:           date.Format("2006-01-02"),
			Value:          value,
			Classification: models.ClassifyFearGreed(value),
		})
	}
	return points
}
