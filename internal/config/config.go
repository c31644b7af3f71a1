package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// WeatherAPIKey is provisioned but Open-Meteo does not need it.
	WeatherAPIKey string
	GeminiAPIKey  string
	GeminiModel   string `validate:"required"`

	ForecastURL string        `validate:"required,url"`
	HTTPTimeout time.Duration `validate:"gt=0"`

	// Upstream response cache and retry behaviour.
	WeatherCacheTTL    time.Duration `validate:"gte=0"`
	WeatherMaxRetries  int           `validate:"gte=0,lte=10"`
	WeatherBackoff     time.Duration `validate:"gt=0"`
	CachePurgeInterval time.Duration `validate:"gt=0"`
	RedisURL           string        `validate:"omitempty,url"`

	LogLevel  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat string `validate:"oneof=text json"`
}

// Load reads configuration from environment with sensible defaults. A .env
// file in the working directory is loaded first when present.
func Load() (*AppConfig, error) {
	// Missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg := &AppConfig{
		Port:          getenvDefault("PORT", "5000"),
		WeatherAPIKey: os.Getenv("WEATHER_API_KEY"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getenvDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		ForecastURL:   getenvDefault("FORECAST_URL", "https://api.open-meteo.com/v1/forecast"),
		RedisURL:      os.Getenv("REDIS_URL"),
		LogLevel:      getenvDefault("LOG_LEVEL", "info"),
		LogFormat:     getenvDefault("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.WeatherCacheTTL, err = getenvDuration("WEATHER_CACHE_TTL", "1h"); err != nil {
		return nil, err
	}
	if cfg.WeatherBackoff, err = getenvDuration("WEATHER_BACKOFF", "200ms"); err != nil {
		return nil, err
	}
	if cfg.CachePurgeInterval, err = getenvDuration("CACHE_PURGE_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.WeatherMaxRetries, err = getenvInt("WEATHER_MAX_RETRIES", 5); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
