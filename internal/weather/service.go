package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/farm-insights/internal/metrics"
)

// ErrFetchFailed wraps every upstream transport, status or decode failure.
var ErrFetchFailed = errors.New("failed to fetch weather data")

// Service fetches snapshots from the provider and keeps them in the store.
type Service struct {
	store    Store
	provider Provider
	log      logrus.FieldLogger
	metrics  *metrics.Collector
}

// NewService creates a new Service. metrics may be nil.
func NewService(store Store, provider Provider, log logrus.FieldLogger, m *metrics.Collector) *Service {
	return &Service{
		store:    store,
		provider: provider,
		log:      log.WithField("component", "weather"),
		metrics:  m,
	}
}

// Fetch calls the provider for loc, stores the snapshot and returns it.
// Failures are wrapped in ErrFetchFailed.
func (s *Service) Fetch(ctx context.Context, loc Coordinates) (WeatherSnapshot, error) {
	start := time.Now()
	snapshot, err := s.provider.Fetch(ctx, loc)
	s.metrics.RecordWeatherFetch(err, time.Since(start))
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"provider": s.provider.Name(),
			"location": loc.Key(),
			"error":    err,
		}).Error("weather fetch failed")
		return WeatherSnapshot{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	s.store.SaveSnapshot(loc, snapshot)
	s.log.WithField("location", loc.Key()).Debug("weather snapshot stored")
	return snapshot, nil
}

// Current resolves the snapshot to use for a request. With coordinates it
// returns the cached snapshot for that location, fetching once on a miss.
// Without coordinates it returns the most recently stored snapshot, or nil
// when nothing has been fetched yet.
func (s *Service) Current(ctx context.Context, loc *Coordinates) (*WeatherSnapshot, error) {
	if loc == nil || loc.IsZero() {
		entry, err := s.store.MostRecent()
		s.metrics.RecordSnapshotLookup(err == nil)
		if err != nil {
			s.log.Debug("no coordinates and no cached snapshot; continuing without weather")
			return nil, nil
		}
		return &entry.Snapshot, nil
	}

	if cached, err := s.store.GetLatest(*loc); err == nil {
		s.metrics.RecordSnapshotLookup(true)
		return &cached, nil
	}
	s.metrics.RecordSnapshotLookup(false)

	snapshot, err := s.Fetch(ctx, *loc)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
