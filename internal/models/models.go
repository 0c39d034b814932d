package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type ShipmentInput struct {
	TruckID       string   `json:"truck_id" validate:"required,max=50"`
	TruckCity     string   `json:"truck_city" validate:"required,max=100"`
	Crops         string   `json:"crops" validate:"required,max=500"`
	WarehouseCity string   `json:"warehouse_city" validate:"required,max=100"`
	Email         string   `json:"email" validate:"required,email"`
	TransportType string   `json:"transport_type,omitempty" validate:"omitempty,oneof=refrigerated ventilated open closed"`
	TemperatureC  *float64 `json:"temperature_c,omitempty" validate:"omitempty,gte=-50,lte=70"`
	HumidityPct   *float64 `json:"humidity_pct,omitempty" validate:"omitempty,gte=0,lte=100"`
	DurationHours *float64 `json:"duration_hours,omitempty" validate:"omitempty,gt=0"`
	Phone         string   `json:"phone,omitempty" validate:"omitempty,max=30"`
	Notes         string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// Trimmed returns a copy with surrounding whitespace removed from every text field.
func (s ShipmentInput) Trimmed() ShipmentInput {
	s.TruckID = strings.TrimSpace(s.TruckID)
	s.TruckCity = strings.TrimSpace(s.TruckCity)
	s.Crops = strings.TrimSpace(s.Crops)
	s.WarehouseCity = strings.TrimSpace(s.WarehouseCity)
	s.Email = strings.TrimSpace(s.Email)
	s.TransportType = strings.ToLower(strings.TrimSpace(s.TransportType))
	s.Phone = strings.TrimSpace(s.Phone)
	s.Notes = strings.TrimSpace(s.Notes)
	return s
}

// Payload is the body posted to the webhook.
func (s ShipmentInput) Payload() WebhookPayload {
	return WebhookPayload{
		TruckID:       s.TruckID,
		TruckCity:     s.TruckCity,
		Crops:         s.Crops,
		WarehouseCity: s.WarehouseCity,
		Email:         s.Email,
		TransportType: s.TransportType,
		TemperatureC:  s.TemperatureC,
		HumidityPct:   s.HumidityPct,
		DurationHours: s.DurationHours,
		Phone:         s.Phone,
		Notes:         s.Notes,
	}
}

type WebhookPayload struct {
	TruckID       string   `json:"truck_id"`
	TruckCity     string   `json:"truck_city"`
	Crops         string   `json:"crops"`
	WarehouseCity string   `json:"warehouse_city"`
	Email         string   `json:"email"`
	TransportType string   `json:"transport_type,omitempty"`
	TemperatureC  *float64 `json:"temperature,omitempty"`
	HumidityPct   *float64 `json:"humidity,omitempty"`
	DurationHours *float64 `json:"duration_hours,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

type AnalysisResult struct {
	Summary string          `json:"summary,omitempty"`
	Crops   []CropRiskEntry `json:"crops_analysis"`
	Text    string          `json:"text,omitempty"`
	Raw     any             `json:"raw,omitempty"`
}

// Recognized reports whether the payload matched a known envelope.
func (r AnalysisResult) Recognized() bool {
	return r.Raw == nil
}

// Empty reports a recognized result with nothing to show.
func (r AnalysisResult) Empty() bool {
	return r.Recognized() && len(r.Crops) == 0 && strings.TrimSpace(r.Text) == "" && strings.TrimSpace(r.Summary) == ""
}

type CropRiskEntry struct {
	Crop               string   `json:"crop"`
	RiskLevel          string   `json:"risk_level"`
	DaysBeforeSpoilage Days     `json:"days_before_spoilage"`
	TransportRisk      *float64 `json:"transport_risk_score,omitempty"`
	StorageRisk        *float64 `json:"storage_risk_score,omitempty"`
	PreventiveActions  []string `json:"preventive_actions,omitempty"`
}

// Days holds the spoilage estimate, which upstream emits either as a number
// or as free text such as "3-5 days".
type Days struct {
	Value  float64
	Text   string
	Number bool
}

func DaysNumber(v float64) Days {
	return Days{Value: v, Number: true}
}

func DaysText(s string) Days {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return DaysNumber(f)
	}
	return Days{Text: s}
}

func (d Days) IsZero() bool {
	return !d.Number && d.Text == ""
}

func (d Days) String() string {
	if d.Number {
		return strconv.FormatFloat(d.Value, 'f', -1, 64)
	}
	return d.Text
}

func (d Days) MarshalJSON() ([]byte, error) {
	if d.Number {
		return json.Marshal(d.Value)
	}
	if d.Text == "" {
		return []byte("null"), nil
	}
	return json.Marshal(d.Text)
}

func (d *Days) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Days{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = DaysNumber(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = DaysText(s)
		return nil
	}
	*d = Days{}
	return nil
}

type OutcomeStatus string

const (
	StatusIdle    OutcomeStatus = "idle"
	StatusPending OutcomeStatus = "pending"
	StatusSuccess OutcomeStatus = "success"
	StatusFailure OutcomeStatus = "failure"
)

type FailureKind string

const (
	FailureNetwork    FailureKind = "NETWORK_FAILURE"
	FailureHTTPStatus FailureKind = "HTTP_STATUS_FAILURE"
	FailureJSONDecode FailureKind = "JSON_DECODE_FAILURE"
)

type Failure struct {
	Kind       FailureKind `json:"kind"`
	Message    string      `json:"message"`
	StatusCode int         `json:"status_code,omitempty"`
	Debug      any         `json:"debug,omitempty"`
}

type Outcome struct {
	Status     OutcomeStatus   `json:"status"`
	Result     *AnalysisResult `json:"result,omitempty"`
	Failure    *Failure        `json:"failure,omitempty"`
	Input      *ShipmentInput  `json:"input,omitempty"`
	StartedAt  time.Time       `json:"started_at,omitempty"`
	FinishedAt time.Time       `json:"finished_at,omitempty"`
	LatencyMs  int64           `json:"latency_ms,omitempty"`
}
