package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropguard/backend/internal/models"
)

func ptr(f float64) *float64 { return &f }

func TestOutcomeIdleIsNil(t *testing.T) {
	assert.Nil(t, Outcome(models.Outcome{Status: models.StatusIdle}))
}

func TestResultCardsAndTally(t *testing.T) {
	res := models.AnalysisResult{
		Summary: "Mixed load",
		Crops: []models.CropRiskEntry{
			{Crop: "Apple", RiskLevel: "High", DaysBeforeSpoilage: models.DaysNumber(1), TransportRisk: ptr(82.4)},
			{Crop: "Mango", RiskLevel: "Medium-High", DaysBeforeSpoilage: models.DaysText("4-5 days"), StorageRisk: ptr(45)},
			{Crop: "Potato", RiskLevel: "low", DaysBeforeSpoilage: models.DaysNumber(12)},
		},
	}
	v := Result(res)
	require.Len(t, v.Cards, 3)
	assert.Equal(t, "risk-high", v.Cards[0].Class)
	assert.Equal(t, "1 day", v.Cards[0].Days)
	assert.Equal(t, 82, v.Cards[0].Transport.Value)
	assert.Equal(t, "risk-high", v.Cards[0].Transport.Class)
	assert.Nil(t, v.Cards[0].Storage)
	assert.Equal(t, "risk-medium-high", v.Cards[1].Class)
	assert.Equal(t, "4-5 days", v.Cards[1].Days)
	assert.Equal(t, "risk-medium", v.Cards[1].Storage.Class)
	assert.Equal(t, "12 days", v.Cards[2].Days)

	require.Len(t, v.Tally, 3)
	assert.Equal(t, 1, v.Tally[0].Count)
	assert.Equal(t, 33, v.Tally[0].Percent)
	assert.False(t, v.NoData)
}

func TestResultNoData(t *testing.T) {
	v := Result(models.AnalysisResult{Crops: []models.CropRiskEntry{}})
	assert.True(t, v.NoData)
	assert.Empty(t, v.Cards)
}

func TestResultRawFallback(t *testing.T) {
	v := Result(models.AnalysisResult{Raw: map[string]any{"executionId": "9"}})
	assert.Contains(t, v.Raw, `"executionId": "9"`)
	assert.False(t, v.NoData)
}

func TestFailureHeading(t *testing.T) {
	v := Failure(models.Failure{Kind: models.FailureHTTPStatus, Message: "Server responded with status 500", StatusCode: 500, Debug: `{"message":"boom"}`})
	assert.Equal(t, "Status 500: ", v.Heading)
	assert.Contains(t, v.Debug, `"message": "boom"`)

	v = Failure(models.Failure{Kind: models.FailureNetwork, Message: "offline"})
	assert.Empty(t, v.Heading)
	assert.Empty(t, v.Debug)
}

func TestFormInput(t *testing.T) {
	in, errs := ShipmentForm{
		TruckID:       " T1 ",
		Crops:         "Apple",
		TransportType: "Refrigerated",
		HumidityPct:   "85",
		TemperatureC:  "warm",
	}.Input()

	assert.Equal(t, "T1", in.TruckID)
	assert.Equal(t, "refrigerated", in.TransportType)
	require.NotNil(t, in.HumidityPct)
	assert.Equal(t, 85.0, *in.HumidityPct)
	assert.Nil(t, in.TemperatureC)
	assert.Nil(t, in.DurationHours)
	assert.Equal(t, "Temperature must be a number", errs["temperature_c"])

	assert.Equal(t, "85", FormFromInput(in).HumidityPct)
}

func TestTemplateRendersOutcomes(t *testing.T) {
	tmpl := Templates()
	in := models.ShipmentInput{TruckID: "T1"}

	cases := []struct {
		name string
		out  models.Outcome
		want []string
	}{
		{
			name: "success",
			out: models.Outcome{Status: models.StatusSuccess, Input: &in, Result: &models.AnalysisResult{
				Crops: []models.CropRiskEntry{{Crop: "Apple", RiskLevel: "HIGH", PreventiveActions: []string{"Pre-cool"}}},
			}},
			want: []string{"Risk Analysis Results", "Apple", "Pre-cool", "HIGH: 1 (100%)"},
		},
		{
			name: "failure",
			out: models.Outcome{Status: models.StatusFailure, Input: &in, Failure: &models.Failure{
				Message: "Server responded with status 502", StatusCode: 502, Debug: "bad gateway",
			}},
			want: []string{"Request Failed", "Status 502: ", "bad gateway", "Try Again"},
		},
		{
			name: "no data",
			out:  models.Outcome{Status: models.StatusSuccess, Input: &in, Result: &models.AnalysisResult{}},
			want: []string{"No data returned from the analysis."},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			page := NewPage(FormFromInput(in), nil, tc.out)
			require.NoError(t, tmpl.ExecuteTemplate(&buf, "index.html", page))
			body := buf.String()
			for _, w := range tc.want {
				assert.True(t, strings.Contains(body, w), "missing %q", w)
			}
		})
	}
}
