package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cropguard/backend/internal/models"
	"github.com/cropguard/backend/internal/utils"
)

// MockClient answers like the real workflow, with values derived from a hash
// of the truck id and crop so repeated submissions look the same.
type MockClient struct {
	ModelVersion string
}

func (m MockClient) Send(ctx context.Context, payload models.WebhookPayload) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	levels := []string{"Low", "Medium", "Medium-High", "High"}
	actions := map[string][]string{
		"Low":         {"Keep standard ventilation"},
		"Medium":      {"Check load temperature every 4 hours", "Avoid stacking above 6 crates"},
		"Medium-High": {"Pre-cool before loading", "Schedule direct route to " + payload.WarehouseCity},
		"High":        {"Switch to refrigerated transport", "Unload within 24 hours", "Notify warehouse in " + payload.WarehouseCity},
	}

	var crops []map[string]any
	high := 0
	for _, crop := range splitCrops(payload.Crops) {
		h := utils.HashKey(payload.TruckID, crop)
		level := levels[int(h%uint64(len(levels)))]
		if level == "High" {
			high++
		}
		crops = append(crops, map[string]any{
			"crop":                 crop,
			"risk_level":           level,
			"days_before_spoilage": 2 + int(h/7%12),
			"transport_risk_score": int(h / 11 % 101),
			"storage_risk_score":   int(h / 13 % 101),
			"preventive_actions":   actions[level],
		})
	}

	body := []map[string]any{{
		"output": map[string]any{
			"summary":        fmt.Sprintf("Truck %s from %s: %d crop(s) assessed, %d at high risk", payload.TruckID, payload.TruckCity, len(crops), high),
			"crops_analysis": crops,
			"model_version":  m.ModelVersion,
		},
	}}
	b, err := json.Marshal(body)
	if err != nil {
		return Response{}, err
	}
	return Response{StatusCode: http.StatusOK, Body: b}, nil
}

func splitCrops(raw string) []string {
	raw = strings.ReplaceAll(raw, ";", ",")
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
