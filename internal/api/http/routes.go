package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/farm-insights/internal/common"
	"github.com/i474232898/farm-insights/internal/insights"
	"github.com/i474232898/farm-insights/internal/metrics"
	"github.com/i474232898/farm-insights/internal/weather"
)

const (
	allowMethods = "GET,POST,OPTIONS"
	allowHeaders = "Origin, Content-Type, Accept"
)

// WeatherFetcher fetches and caches the snapshot for a location.
type WeatherFetcher interface {
	Fetch(ctx context.Context, loc weather.Coordinates) (weather.WeatherSnapshot, error)
}

// InsightGenerator produces recommendations for a request.
type InsightGenerator interface {
	Generate(ctx context.Context, req insights.Request) (string, error)
}

type handler struct {
	weather  WeatherFetcher
	insights InsightGenerator
	log      logrus.FieldLogger
}

// CORS allows cross-origin calls from any origin. Mount it before any route.
// The insights preflight is left to its own handler so it answers 200.
func CORS() fiber.Handler {
	return cors.New(cors.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions && c.Path() == "/generate_insights"
		},
		AllowOrigins: "*",
		AllowMethods: allowMethods,
		AllowHeaders: allowHeaders,
	})
}

// Health reports liveness.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "farm-insights",
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, wf WeatherFetcher, ig InsightGenerator, log logrus.FieldLogger) {
	h := &handler{
		weather:  wf,
		insights: ig,
		log:      log.WithField("component", "http"),
	}

	app.Options("/generate_insights", preflight)
	app.Get("/fetch_weather", h.fetchWeather)
	app.Post("/generate_insights", h.generateInsights)
}

// ErrorHandler renders every error as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// MetricsMiddleware records one sample per request.
func MetricsMiddleware(m *metrics.Collector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				status = e.Code
			}
		}

		m.RecordAPIRequest(c.Route().Path, c.Method(), strconv.Itoa(status), time.Since(start))
		return err
	}
}

func preflight(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowMethods, allowMethods)
	if requested := c.Get(fiber.HeaderAccessControlRequestHeaders); requested != "" {
		c.Set(fiber.HeaderAccessControlAllowHeaders, requested)
	} else {
		c.Set(fiber.HeaderAccessControlAllowHeaders, allowHeaders)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *handler) fetchWeather(c *fiber.Ctx) error {
	// Passed through to the upstream as-is. Copied because the entry outlives
	// the request buffer.
	loc := weather.Coordinates{
		Lat: utils.CopyString(c.Query("lat")),
		Lon: utils.CopyString(c.Query("lon")),
	}

	snapshot, err := h.weather.Fetch(c.UserContext(), loc)
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"location":   loc.Key(),
			"request_id": requestID(c),
			"error":      err,
		}).Error("fetch_weather failed")
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(snapshot)
}

// insightRequest is the POST /generate_insights body.
type insightRequest struct {
	CropData insights.CropData `json:"crop_data"`
	Lat      common.Scalar     `json:"lat"`
	Lon      common.Scalar     `json:"lon"`
}

func (r insightRequest) location() *weather.Coordinates {
	if !r.Lat.IsSet() && !r.Lon.IsSet() {
		return nil
	}
	lat, _ := r.Lat.Value()
	lon, _ := r.Lon.Value()
	return &weather.Coordinates{Lat: lat, Lon: lon}
}

func (h *handler) generateInsights(c *fiber.Ctx) error {
	var req insightRequest
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			// Not rejected: absent values render as placeholders.
			h.log.WithFields(logrus.Fields{
				"request_id": requestID(c),
				"error":      err,
			}).Warn("ignoring malformed generate_insights body")
			req = insightRequest{}
		}
	}

	text, err := h.insights.Generate(c.UserContext(), insights.Request{
		Crop:     req.CropData,
		Location: req.location(),
	})
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"request_id": requestID(c),
			"error":      err,
		}).Error("generate_insights failed")
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"insights": text,
	})
}

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
