package weather

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vals(v ...float64) []*float64 {
	out := make([]*float64, len(v))
	for i := range v {
		out[i] = &v[i]
	}
	return out
}

func TestSnapshotFromValues_PositionalMapping(t *testing.T) {
	s := SnapshotFromValues(vals(70, 45, 0, 0.1, 0.2, 0.3, 5, 180, 12))

	require.NotNil(t, s.WindGusts)
	assert.Equal(t, 70.0, *s.Temperature)
	assert.Equal(t, 45.0, *s.RelativeHumidity)
	assert.Equal(t, 0.0, *s.Precipitation)
	assert.Equal(t, 0.1, *s.Rain)
	assert.Equal(t, 0.2, *s.Showers)
	assert.Equal(t, 0.3, *s.Snowfall)
	assert.Equal(t, 5.0, *s.WindSpeed)
	assert.Equal(t, 180.0, *s.WindDirection)
	assert.Equal(t, 12.0, *s.WindGusts)
}

func TestSnapshotFromValues_SevenValuesJSON(t *testing.T) {
	s := SnapshotFromValues(vals(70.0, 45.0, 0.0, 0.0, 0.0, 0.0, 5.0))

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"current_temperature_2m":70.0,
		"current_relative_humidity_2m":45.0,
		"current_precipitation":0.0,
		"current_rain":0.0,
		"current_showers":0.0,
		"current_snowfall":0.0,
		"current_wind_speed_10m":5.0
	}`, string(out))
}

func TestSnapshotFromValues_NilAndExtra(t *testing.T) {
	values := vals(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	values[1] = nil

	s := SnapshotFromValues(values)
	assert.Nil(t, s.RelativeHumidity)
	assert.Equal(t, 9.0, *s.WindGusts)

	assert.Equal(t, WeatherSnapshot{}, SnapshotFromValues(nil))
}

func TestSnapshotFromValues_CopiesValues(t *testing.T) {
	values := vals(70)
	s := SnapshotFromValues(values)
	*values[0] = 10
	assert.Equal(t, 70.0, *s.Temperature)
}

func TestCoordinates(t *testing.T) {
	assert.True(t, Coordinates{}.IsZero())
	assert.False(t, Coordinates{Lat: "1"}.IsZero())
	assert.Equal(t, "33.7,-84.4", Coordinates{Lat: " 33.7", Lon: "-84.4 "}.Key())
}
