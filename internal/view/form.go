package view

import (
	"strconv"
	"strings"

	"github.com/cropguard/backend/internal/models"
)

// ShipmentForm holds raw form values so the page can be re-rendered with
// exactly what the visitor typed.
type ShipmentForm struct {
	TruckID       string `form:"truck_id"`
	TruckCity     string `form:"truck_city"`
	Crops         string `form:"crops"`
	WarehouseCity string `form:"warehouse_city"`
	Email         string `form:"email"`
	TransportType string `form:"transport_type"`
	TemperatureC  string `form:"temperature_c"`
	HumidityPct   string `form:"humidity_pct"`
	DurationHours string `form:"duration_hours"`
	Phone         string `form:"phone"`
	Notes         string `form:"notes"`
}

// Input converts the form. Numeric fields that are present but not numbers
// are reported by field name.
func (f ShipmentForm) Input() (models.ShipmentInput, map[string]string) {
	errs := map[string]string{}
	in := models.ShipmentInput{
		TruckID:       f.TruckID,
		TruckCity:     f.TruckCity,
		Crops:         f.Crops,
		WarehouseCity: f.WarehouseCity,
		Email:         f.Email,
		TransportType: f.TransportType,
		Phone:         f.Phone,
		Notes:         f.Notes,
	}
	in.TemperatureC = optionalFloat(f.TemperatureC, "temperature_c", "Temperature", errs)
	in.HumidityPct = optionalFloat(f.HumidityPct, "humidity_pct", "Humidity", errs)
	in.DurationHours = optionalFloat(f.DurationHours, "duration_hours", "Duration", errs)
	return in.Trimmed(), errs
}

func FormFromInput(in models.ShipmentInput) ShipmentForm {
	return ShipmentForm{
		TruckID:       in.TruckID,
		TruckCity:     in.TruckCity,
		Crops:         in.Crops,
		WarehouseCity: in.WarehouseCity,
		Email:         in.Email,
		TransportType: in.TransportType,
		TemperatureC:  formatOptional(in.TemperatureC),
		HumidityPct:   formatOptional(in.HumidityPct),
		DurationHours: formatOptional(in.DurationHours),
		Phone:         in.Phone,
		Notes:         in.Notes,
	}
}

func optionalFloat(raw, field, label string, errs map[string]string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs[field] = label + " must be a number"
		return nil
	}
	return &f
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
