package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	httpapi "github.com/i474232898/farm-insights/internal/api/http"
	"github.com/i474232898/farm-insights/internal/config"
	"github.com/i474232898/farm-insights/internal/httpcache"
	"github.com/i474232898/farm-insights/internal/insights"
	"github.com/i474232898/farm-insights/internal/logging"
	"github.com/i474232898/farm-insights/internal/metrics"
	"github.com/i474232898/farm-insights/internal/scheduler"
	"github.com/i474232898/farm-insights/internal/store"
	"github.com/i474232898/farm-insights/internal/weather"
	"github.com/i474232898/farm-insights/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Dedicated registry so only our collectors plus runtime metrics are exposed.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector("farm_insights", registry)

	// Upstream response cache: Redis when configured, otherwise in-process.
	var responseCache httpcache.Cache = httpcache.NewMemoryCache()
	if cfg.RedisURL != "" {
		rc, err := httpcache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("redis unavailable; using in-memory response cache")
		} else {
			defer rc.Close()
			responseCache = rc
			log.Info("using redis response cache")
		}
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenMeteoProvider(providers.OpenMeteoConfig{
		BaseURL: cfg.ForecastURL,
		Client:  httpClient,
		Backoff: providers.BackoffConfig{
			MaxRetries:      cfg.WeatherMaxRetries,
			InitialInterval: cfg.WeatherBackoff,
			MaxInterval:     5 * time.Second,
		},
		Cache:    responseCache,
		CacheTTL: cfg.WeatherCacheTTL,
		Log:      log,
		Metrics:  collector,
	})

	weatherService := weather.NewService(store.NewMemoryStore(), provider, log, collector)

	var generator insights.Generator
	gemini, err := insights.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.WithError(err).Warn("generative model unavailable; /generate_insights will fail")
		generator = insights.Unavailable(err)
	} else {
		defer gemini.Close()
		generator = gemini
	}

	insightService := insights.NewService(weatherService, generator, log, collector)

	// Periodic purge of expired upstream responses.
	sched := scheduler.New(responseCache, cfg.CachePurgeInterval, log, collector)
	if err := sched.Start(); err != nil {
		log.WithError(err).Fatal("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "farm-insights",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          60 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} - ${latency} ${method} ${path} ${respHeader:X-Request-ID}\n",
		Output: log.Writer(),
	}))
	app.Use(recover.New())
	app.Use(httpapi.MetricsMiddleware(collector))
	app.Use(httpapi.CORS())

	app.Get("/health", httpapi.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// API routes.
	httpapi.RegisterRoutes(app, weatherService, insightService, log)

	go func() {
		log.WithField("port", cfg.Port).Info("listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("fiber server stopped")
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
}
