package weather

import (
	"strings"
	"time"
)

// CurrentVariables is the ordered list of "current" variables requested from
// the forecast API. Upstream values are mapped positionally in this order.
var CurrentVariables = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"precipitation",
	"rain",
	"showers",
	"snowfall",
	"wind_speed_10m",
	"wind_direction_10m",
	"wind_gusts_10m",
}

// Units requested from the forecast API.
const (
	TemperatureUnit   = "fahrenheit"
	WindSpeedUnit     = "mph"
	PrecipitationUnit = "inch"
)

// Coordinates identify the location a snapshot was fetched for. Values are
// kept exactly as the caller supplied them and are not validated.
type Coordinates struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// IsZero reports whether neither latitude nor longitude was supplied.
func (c Coordinates) IsZero() bool {
	return c.Lat == "" && c.Lon == ""
}

// Key returns a canonical string key for indexing this location in stores.
func (c Coordinates) Key() string {
	return strings.TrimSpace(c.Lat) + "," + strings.TrimSpace(c.Lon)
}

// WeatherSnapshot holds the current readings for one location. Fields the
// upstream did not report are nil.
type WeatherSnapshot struct {
	Temperature      *float64 `json:"current_temperature_2m,omitempty"`
	RelativeHumidity *float64 `json:"current_relative_humidity_2m,omitempty"`
	Precipitation    *float64 `json:"current_precipitation,omitempty"`
	Rain             *float64 `json:"current_rain,omitempty"`
	Showers          *float64 `json:"current_showers,omitempty"`
	Snowfall         *float64 `json:"current_snowfall,omitempty"`
	WindSpeed        *float64 `json:"current_wind_speed_10m,omitempty"`
	WindDirection    *float64 `json:"current_wind_direction_10m,omitempty"`
	WindGusts        *float64 `json:"current_wind_gusts_10m,omitempty"`
}

// SnapshotFromValues maps values positionally onto the snapshot fields in
// CurrentVariables order. Extra values are ignored and missing ones stay nil.
func SnapshotFromValues(values []*float64) WeatherSnapshot {
	var s WeatherSnapshot
	fields := []**float64{
		&s.Temperature,
		&s.RelativeHumidity,
		&s.Precipitation,
		&s.Rain,
		&s.Showers,
		&s.Snowfall,
		&s.WindSpeed,
		&s.WindDirection,
		&s.WindGusts,
	}
	for i, v := range values {
		if i >= len(fields) {
			break
		}
		if v != nil {
			val := *v
			*fields[i] = &val
		}
	}
	return s
}

// Entry is a cached snapshot together with where and when it was fetched.
type Entry struct {
	Location  Coordinates
	Snapshot  WeatherSnapshot
	FetchedAt time.Time // always UTC
}
