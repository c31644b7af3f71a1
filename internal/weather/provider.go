package weather

import (
	"context"
)

// Provider abstracts the upstream forecast API.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Coordinates) (WeatherSnapshot, error)
}

// Store is the contract the in-memory snapshot store must satisfy.
type Store interface {
	SaveSnapshot(loc Coordinates, snapshot WeatherSnapshot)
	GetLatest(loc Coordinates) (WeatherSnapshot, error)
	MostRecent() (Entry, error)
}
