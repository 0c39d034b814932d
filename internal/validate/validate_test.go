package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropguard/backend/internal/models"
)

func validInput() models.ShipmentInput {
	return models.ShipmentInput{
		TruckID:       "T1",
		TruckCity:     "Nashik",
		Crops:         "Apple",
		WarehouseCity: "Delhi",
		Email:         "a@b.com",
	}
}

func TestShipmentValid(t *testing.T) {
	require.NoError(t, Shipment(validator.New(), validInput()))
}

func TestShipmentMissingFields(t *testing.T) {
	err := Shipment(validator.New(), models.ShipmentInput{})
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))

	assert.Equal(t, "Truck ID is required", fe["truck_id"])
	assert.Equal(t, "Truck city is required", fe["truck_city"])
	assert.Equal(t, "Please enter the crops loaded", fe["crops"])
	assert.Equal(t, "Warehouse city is required", fe["warehouse_city"])
	assert.Equal(t, "Email is required", fe["email"])
}

func TestShipmentLengthAndEmail(t *testing.T) {
	in := validInput()
	in.TruckID = strings.Repeat("x", 51)
	in.WarehouseCity = strings.Repeat("c", 101)
	in.Email = "not-an-email"

	err := Shipment(validator.New(), in)
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Truck ID must be less than 50 characters", fe["truck_id"])
	assert.Equal(t, "City name must be less than 100 characters", fe["warehouse_city"])
	assert.Equal(t, "Please enter a valid email address", fe["email"])
	assert.Len(t, fe, 3)
}

func TestShipmentOptionalFields(t *testing.T) {
	in := validInput()
	humidity := 140.0
	duration := 0.0
	in.HumidityPct = &humidity
	in.DurationHours = &duration
	in.TransportType = "teleport"

	err := Shipment(validator.New(), in)
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe["humidity_pct"], "at most 100")
	assert.Contains(t, fe["duration_hours"], "greater than 0")
	assert.Contains(t, fe["transport_type"], "refrigerated")
}
