package insights

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/farm-insights/internal/common"
	"github.com/i474232898/farm-insights/internal/weather"
)

func ptr(v float64) *float64 { return &v }

func TestBuildPrompt_AllFieldsAbsent(t *testing.T) {
	prompt, err := BuildPrompt(CropData{}, nil)
	require.NoError(t, err)

	// 12 crop fields, 9 weather fields and the legend line.
	assert.Equal(t, 22, strings.Count(prompt, common.Placeholder))
	assert.Contains(t, prompt, "- Crop Type: N/A\n")
	assert.Contains(t, prompt, "- Wind Gusts: N/A mph")
	assert.NotContains(t, prompt, "<no value>")
}

func TestBuildPrompt_SubstitutesValues(t *testing.T) {
	var crop CropData
	require.NoError(t, json.Unmarshal([]byte(`{
		"crop_type": "corn",
		"field_size": "40 acres",
		"soil_moisture": 32.5,
		"tank_level": 80,
		"growth_stage": "V6"
	}`), &crop))

	snapshot := &weather.WeatherSnapshot{
		Temperature:      ptr(70),
		RelativeHumidity: ptr(45),
		Rain:             ptr(0.12),
	}

	prompt, err := BuildPrompt(crop, snapshot)
	require.NoError(t, err)

	assert.Contains(t, prompt, "- Crop Type: corn\n")
	assert.Contains(t, prompt, "- Field Size: 40 acres\n")
	assert.Contains(t, prompt, "- Soil Moisture: 32.5%")
	assert.Contains(t, prompt, "- Water Tank Level: 80%")
	assert.Contains(t, prompt, "- Growth Stage: V6\n")
	assert.Contains(t, prompt, "- Soil Type: N/A\n")
	assert.Contains(t, prompt, "- Temperature: 70°F")
	assert.Contains(t, prompt, "- Relative Humidity: 45%")
	assert.Contains(t, prompt, "- Rain: 0.12 in")
	assert.Contains(t, prompt, "- Snowfall: N/A in")
}

func TestBuildPrompt_BehaviouralInstructions(t *testing.T) {
	prompt, err := BuildPrompt(CropData{}, nil)
	require.NoError(t, err)

	assert.Contains(t, prompt, "still give concrete, specific recommendations")
	assert.Contains(t, prompt, "Do not say that there is insufficient data")
	assert.Contains(t, prompt, "bulleted lists under bold headers")
	assert.Contains(t, prompt, "Do not use numbered lists")
}
