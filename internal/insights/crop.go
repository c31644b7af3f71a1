package insights

import (
	"github.com/i474232898/farm-insights/internal/common"
)

// CropData describes a field as reported by the caller. Every field is
// optional and may arrive as a JSON string or number.
type CropData struct {
	CropType       common.Scalar `json:"crop_type"`
	FieldSize      common.Scalar `json:"field_size"`
	SoilType       common.Scalar `json:"soil_type"`
	SoilMoisture   common.Scalar `json:"soil_moisture"`
	Temperature    common.Scalar `json:"temperature"`
	Humidity       common.Scalar `json:"humidity"`
	LightExposure  common.Scalar `json:"light_exposure"`
	TankLevel      common.Scalar `json:"tank_level"`
	WindSpeed      common.Scalar `json:"wind_speed"`
	GrowthStage    common.Scalar `json:"growth_stage"`
	IrrigationType common.Scalar `json:"irrigation_type"`
	PlantingDate   common.Scalar `json:"planting_date"`
}
