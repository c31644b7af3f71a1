package insights

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/i474232898/farm-insights/internal/common"
	"github.com/i474232898/farm-insights/internal/weather"
)

const promptText = `You are an agronomy assistant helping a farmer manage a single field.

Field and sensor data:
- Crop Type: {{.Crop.CropType}}
- Field Size: {{.Crop.FieldSize}}
- Soil Type: {{.Crop.SoilType}}
- Soil Moisture: {{.Crop.SoilMoisture}}%
- Field Temperature: {{.Crop.Temperature}}°F
- Field Humidity: {{.Crop.Humidity}}%
- Light Exposure: {{.Crop.LightExposure}}
- Water Tank Level: {{.Crop.TankLevel}}%
- Field Wind Speed: {{.Crop.WindSpeed}} mph
- Growth Stage: {{.Crop.GrowthStage}}
- Irrigation Type: {{.Crop.IrrigationType}}
- Planting Date: {{.Crop.PlantingDate}}

Current weather at the field:
- Temperature: {{num .Weather.Temperature}}°F
- Relative Humidity: {{num .Weather.RelativeHumidity}}%
- Precipitation: {{num .Weather.Precipitation}} in
- Rain: {{num .Weather.Rain}} in
- Showers: {{num .Weather.Showers}} in
- Snowfall: {{num .Weather.Snowfall}} in
- Wind Speed: {{num .Weather.WindSpeed}} mph
- Wind Direction: {{num .Weather.WindDirection}}°
- Wind Gusts: {{num .Weather.WindGusts}} mph

Values shown as {{.Placeholder}} were not reported.

Provide actionable recommendations for crop health, irrigation scheduling, water tank management and protection from the current weather.
Even if some data is missing, still give concrete, specific recommendations based on what is available and on typical conditions for this crop. Do not say that there is insufficient data.
Format the answer as short prose paragraphs and bulleted lists under bold headers (for example **Irrigation**). Do not use numbered lists.`

var promptTemplate = template.Must(template.New("insight").Funcs(template.FuncMap{
	"num": formatNumber,
}).Parse(promptText))

type promptView struct {
	Crop        CropData
	Weather     weather.WeatherSnapshot
	Placeholder string
}

// BuildPrompt renders the insight prompt. A nil snapshot renders every
// weather value as the placeholder.
func BuildPrompt(crop CropData, snapshot *weather.WeatherSnapshot) (string, error) {
	view := promptView{
		Crop:        crop,
		Placeholder: common.Placeholder,
	}
	if snapshot != nil {
		view.Weather = *snapshot
	}

	var b strings.Builder
	if err := promptTemplate.Execute(&b, view); err != nil {
		return "", err
	}
	return b.String(), nil
}

func formatNumber(v *float64) string {
	if v == nil {
		return common.Placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
