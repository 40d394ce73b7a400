package services

import (
	"context"
	"log/slog"
)

// Source is one stage of an aggregator's fallback chain: a named strategy
// that either produces data or fails over to the next stage.
type Source[T any] struct {
	Name  string
	Fetch func(ctx context.Context) (T, error)
}

// Resolve tries sources in order and returns the first successful result
// together with the name of the source that produced it. The final source is
// expected to be a synthetic generator that cannot fail; if every source
// errors anyway, the zero value and the last source's name are returned.
func Resolve[T any](ctx context.Context, logger *slog.Logger, sources ...Source[T]) (T, string) {
	var zero T
	lastName := "sample"
	for _, s := range sources {
		lastName = s.Name
		data, err := s.Fetch(ctx)
		if err != nil {
			logger.Warn("data source failed, trying next",
				slog.String("source", s.Name),
				slog.Any("error", err))
			continue
		}
		return data, s.Name
	}
	return zero, lastName
}
