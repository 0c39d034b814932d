// Package validate checks shipment input and turns validator failures into
// messages that can be shown next to form fields.
package validate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/cropguard/backend/internal/models"
)

// FieldErrors maps a JSON field name to a human readable message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	return fmt.Sprintf("%d invalid field(s)", len(f))
}

var labels = map[string]string{
	"TruckID":       "Truck ID",
	"TruckCity":     "Truck city",
	"Crops":         "Crops",
	"WarehouseCity": "Warehouse city",
	"Email":         "Email",
	"TransportType": "Transport type",
	"TemperatureC":  "Temperature",
	"HumidityPct":   "Humidity",
	"DurationHours": "Duration",
	"Phone":         "Phone",
	"Notes":         "Notes",
}

var jsonNames = map[string]string{
	"TruckID":       "truck_id",
	"TruckCity":     "truck_city",
	"Crops":         "crops",
	"WarehouseCity": "warehouse_city",
	"Email":         "email",
	"TransportType": "transport_type",
	"TemperatureC":  "temperature_c",
	"HumidityPct":   "humidity_pct",
	"DurationHours": "duration_hours",
	"Phone":         "phone",
	"Notes":         "notes",
}

// Shipment validates the input and returns nil or a FieldErrors value.
func Shipment(v *validator.Validate, in models.ShipmentInput) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		name := jsonNames[fe.StructField()]
		if name == "" {
			name = fe.Field()
		}
		if _, ok := out[name]; ok {
			continue
		}
		out[name] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	label := labels[fe.StructField()]
	if label == "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		if fe.StructField() == "Crops" {
			return "Please enter the crops loaded"
		}
		return label + " is required"
	case "email":
		return "Please enter a valid email address"
	case "max":
		if fe.StructField() == "TruckCity" || fe.StructField() == "WarehouseCity" {
			label = "City name"
		}
		return fmt.Sprintf("%s must be less than %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	default:
		return label + " is invalid"
	}
}
