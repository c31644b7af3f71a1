package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/farm-insights/internal/metrics"
	"github.com/i474232898/farm-insights/internal/weather"
)

// ErrGenerationFailed wraps every failure of the generative model call.
var ErrGenerationFailed = errors.New("failed to generate insights")

// WeatherSource resolves the snapshot to use for a request.
type WeatherSource interface {
	Current(ctx context.Context, loc *weather.Coordinates) (*weather.WeatherSnapshot, error)
}

// Request is the input to Generate. Location is optional.
type Request struct {
	Crop     CropData
	Location *weather.Coordinates
}

// Service builds prompts and sends them to the model.
type Service struct {
	weather   WeatherSource
	generator Generator
	log       logrus.FieldLogger
	metrics   *metrics.Collector
}

// NewService creates a new Service. metrics may be nil.
func NewService(ws WeatherSource, gen Generator, log logrus.FieldLogger, m *metrics.Collector) *Service {
	return &Service{
		weather:   ws,
		generator: gen,
		log:       log.WithField("component", "insights"),
		metrics:   m,
	}
}

// Generate resolves weather, renders the prompt and returns the model's
// trimmed answer. Weather failures are returned unchanged; model failures
// wrap ErrGenerationFailed.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	snapshot, err := s.weather.Current(ctx, req.Location)
	if err != nil {
		return "", err
	}

	prompt, err := BuildPrompt(req.Crop, snapshot)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	s.log.WithFields(logrus.Fields{
		"has_weather":  snapshot != nil,
		"prompt_bytes": len(prompt),
	}).Debug("sending prompt to model")

	start := time.Now()
	text, err := s.generator.Generate(ctx, prompt)
	s.metrics.RecordInsightGeneration(err, time.Since(start))
	if err != nil {
		s.log.WithError(err).Error("insight generation failed")
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	return strings.TrimSpace(text), nil
}
