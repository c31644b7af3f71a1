package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/i474232898/farm-insights/internal/httpcache"
	"github.com/i474232898/farm-insights/internal/metrics"
	"github.com/i474232898/farm-insights/internal/weather"
)

// DefaultOpenMeteoURL is the public forecast endpoint.
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoConfig configures an OpenMeteoProvider.
type OpenMeteoConfig struct {
	BaseURL  string
	Client   *http.Client
	Backoff  BackoffConfig
	Cache    httpcache.Cache // nil disables response caching
	CacheTTL time.Duration
	Log      logrus.FieldLogger
	Metrics  *metrics.Collector
}

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	cache    httpcache.Cache
	cacheTTL time.Duration
	log      logrus.FieldLogger
	metrics  *metrics.Collector
}

// NewOpenMeteoProvider creates a provider from cfg, filling in defaults.
func NewOpenMeteoProvider(cfg OpenMeteoConfig) *OpenMeteoProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenMeteoURL
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Backoff.InitialInterval <= 0 {
		cfg.Backoff.InitialInterval = 200 * time.Millisecond
	}
	if cfg.Backoff.MaxInterval <= 0 {
		cfg.Backoff.MaxInterval = 5 * time.Second
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: cfg.BaseURL,
		httpCfg: HTTPClientConfig{
			Client:  cfg.Client,
			Backoff: cfg.Backoff,
		},
		circuit:  newBreaker("openmeteo"),
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		log:      cfg.Log.WithField("provider", "openmeteo"),
		metrics:  cfg.Metrics,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// requestURL builds the forecast URL. Coordinates are passed through verbatim.
func (p *OpenMeteoProvider) requestURL(loc weather.Coordinates) string {
	values := url.Values{}
	values.Set("latitude", loc.Lat)
	values.Set("longitude", loc.Lon)
	values.Set("current", strings.Join(weather.CurrentVariables, ","))
	values.Set("temperature_unit", weather.TemperatureUnit)
	values.Set("wind_speed_unit", weather.WindSpeedUnit)
	values.Set("precipitation_unit", weather.PrecipitationUnit)

	return fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Coordinates) (weather.WeatherSnapshot, error) {
	u := p.requestURL(loc)

	if body, ok := p.cached(ctx, u); ok {
		snapshot, err := decodeCurrent(body)
		if err == nil {
			return snapshot, nil
		}
		p.log.WithError(err).Warn("discarding undecodable cached response")
	}

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	body, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}

	snapshot, err := decodeCurrent(body)
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, u, body, p.cacheTTL); err != nil {
			p.log.WithError(err).Warn("failed to cache forecast response")
		}
	}

	return snapshot, nil
}

func (p *OpenMeteoProvider) cached(ctx context.Context, key string) ([]byte, bool) {
	if p.cache == nil {
		return nil, false
	}
	body, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.log.WithError(err).Warn("forecast response cache lookup failed")
		return nil, false
	}
	p.metrics.RecordResponseCacheLookup(ok)
	return body, ok
}

// decodeCurrent reads the "current" block and maps the requested variables,
// in request order, onto a snapshot. Missing or null variables stay nil.
func decodeCurrent(body []byte) (weather.WeatherSnapshot, error) {
	var payload struct {
		Current map[string]json.RawMessage `json:"current"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.WeatherSnapshot{}, fmt.Errorf("failed to decode forecast response: %w", err)
	}
	if payload.Current == nil {
		return weather.WeatherSnapshot{}, fmt.Errorf("forecast response has no current block")
	}

	values := make([]*float64, len(weather.CurrentVariables))
	for i, name := range weather.CurrentVariables {
		raw, ok := payload.Current[name]
		if !ok {
			continue
		}
		var v *float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return weather.WeatherSnapshot{}, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		values[i] = v
	}

	return weather.SnapshotFromValues(values), nil
}
