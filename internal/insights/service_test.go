package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/farm-insights/internal/common"
	"github.com/i474232898/farm-insights/internal/logging"
	"github.com/i474232898/farm-insights/internal/weather"
)

type mockWeather struct {
	mock.Mock
}

func (m *mockWeather) Current(ctx context.Context, loc *weather.Coordinates) (*weather.WeatherSnapshot, error) {
	args := m.Called(ctx, loc)
	snap, _ := args.Get(0).(*weather.WeatherSnapshot)
	return snap, args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestService_Generate(t *testing.T) {
	loc := &weather.Coordinates{Lat: "33.7", Lon: "-84.4"}

	t.Run("trims model output and passes weather into prompt", func(t *testing.T) {
		ws := &mockWeather{}
		ws.On("Current", mock.Anything, loc).Return(&weather.WeatherSnapshot{Temperature: ptr(70)}, nil).Once()

		gen := &mockGenerator{}
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
			return strings.Contains(p, "- Temperature: 70°F") && strings.Contains(p, "- Crop Type: wheat")
		})).Return("\n  **Irrigation**\n- Water at dawn  \n", nil).Once()

		svc := NewService(ws, gen, logging.Discard(), nil)
		out, err := svc.Generate(context.Background(), Request{
			Crop:     CropData{CropType: common.NewScalar("wheat")},
			Location: loc,
		})
		require.NoError(t, err)
		assert.Equal(t, "**Irrigation**\n- Water at dawn", out)
		ws.AssertExpectations(t)
		gen.AssertExpectations(t)
	})

	t.Run("empty input still calls the model", func(t *testing.T) {
		ws := &mockWeather{}
		ws.On("Current", mock.Anything, (*weather.Coordinates)(nil)).Return(nil, nil)

		gen := &mockGenerator{}
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
			return strings.Count(p, common.Placeholder) == 22
		})).Return("advice", nil).Once()

		svc := NewService(ws, gen, logging.Discard(), nil)
		out, err := svc.Generate(context.Background(), Request{})
		require.NoError(t, err)
		assert.Equal(t, "advice", out)
		gen.AssertExpectations(t)
	})

	t.Run("weather failure skips the model", func(t *testing.T) {
		fetchErr := errors.Join(weather.ErrFetchFailed, errors.New("timeout"))
		ws := &mockWeather{}
		ws.On("Current", mock.Anything, loc).Return(nil, fetchErr)

		gen := &mockGenerator{}
		svc := NewService(ws, gen, logging.Discard(), nil)
		_, err := svc.Generate(context.Background(), Request{Location: loc})
		assert.ErrorIs(t, err, weather.ErrFetchFailed)
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("model failure is wrapped", func(t *testing.T) {
		ws := &mockWeather{}
		ws.On("Current", mock.Anything, mock.Anything).Return(nil, nil)

		gen := &mockGenerator{}
		gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

		svc := NewService(ws, gen, logging.Discard(), nil)
		_, err := svc.Generate(context.Background(), Request{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrGenerationFailed)
		assert.Contains(t, err.Error(), "quota exceeded")
	})
}

func TestResponseText(t *testing.T) {
	t.Run("joins text parts of first candidate", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("**Soil**\n"), genai.Text("- Add mulch")}}},
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
			},
		}
		text, err := responseText(resp)
		require.NoError(t, err)
		assert.Equal(t, "**Soil**\n- Add mulch", text)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, err := responseText(&genai.GenerateContentResponse{})
		assert.ErrorIs(t, err, errEmptyResponse)

		_, err = responseText(nil)
		assert.ErrorIs(t, err, errEmptyResponse)
	})

	t.Run("blocked prompt", func(t *testing.T) {
		_, err := responseText(&genai.GenerateContentResponse{
			PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "prompt blocked")
	})
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestUnavailable(t *testing.T) {
	ws := &mockWeather{}
	ws.On("Current", mock.Anything, mock.Anything).Return(nil, nil)

	svc := NewService(ws, Unavailable(ErrNoAPIKey), logging.Discard(), nil)
	_, err := svc.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), ErrNoAPIKey.Error())
}
