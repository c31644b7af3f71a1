package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/farm-insights/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a given location.
	ErrNotFound = errors.New("no weather data for location")
)

// MemoryStore is a concurrency-safe in-memory snapshot store keyed by location.
// Each location holds only its most recent snapshot.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: latest entry
	data map[string]weather.Entry

	// key of the most recently written location
	lastKey string

	now func() time.Time
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]weather.Entry),
		now:  time.Now,
	}
}

// SaveSnapshot replaces the snapshot for a location and marks it most recent.
func (s *MemoryStore) SaveSnapshot(loc weather.Coordinates, snapshot weather.WeatherSnapshot) {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = weather.Entry{
		Location:  loc,
		Snapshot:  snapshot,
		FetchedAt: s.now().UTC(),
	}
	s.lastKey = key
}

// GetLatest returns the snapshot stored for a location.
func (s *MemoryStore) GetLatest(loc weather.Coordinates) (weather.WeatherSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[loc.Key()]
	if !ok {
		return weather.WeatherSnapshot{}, ErrNotFound
	}
	return entry.Snapshot, nil
}

// MostRecent returns the entry written last, regardless of location.
func (s *MemoryStore) MostRecent() (weather.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[s.lastKey]
	if !ok {
		return weather.Entry{}, ErrNotFound
	}
	return entry, nil
}

// Len returns the number of locations held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
