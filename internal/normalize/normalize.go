package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cropguard/backend/internal/models"
)

const maxDepth = 3

var (
	cropKeys      = []string{"crop", "crop_name", "name"}
	riskKeys      = []string{"risk_level", "risk", "spoilage_risk"}
	daysKeys      = []string{"days_before_spoilage", "estimated_days_to_spoilage", "days_to_spoilage", "shelf_life_days"}
	transportKeys = []string{"transport_risk_score", "transport_risk"}
	storageKeys   = []string{"storage_risk_score", "storage_risk"}
	actionKeys    = []string{"preventive_actions", "recommendations", "actions"}
	summaryKeys   = []string{"summary", "overall_summary"}
)

// Normalize turns a decoded webhook body into an AnalysisResult. When no
// known envelope matches it returns the value in Raw and false.
func Normalize(v any) (models.AnalysisResult, bool) {
	return normalize(v, 0)
}

func normalize(v any, depth int) (models.AnalysisResult, bool) {
	loc, ok := Locate(v)
	if !ok {
		return models.AnalysisResult{Raw: v}, false
	}

	switch t := loc.(type) {
	case string:
		return fromText(t, depth), true
	case map[string]any:
		return fromObject(t), true
	default:
		return models.AnalysisResult{Raw: v}, false
	}
}

// fromText parses string payloads; anything that does not resolve to a known
// shape is kept as display text.
func fromText(s string, depth int) models.AnalysisResult {
	text := strings.TrimSpace(s)
	if depth >= maxDepth {
		return models.AnalysisResult{Text: text}
	}
	var parsed any
	if err := json.Unmarshal([]byte(stripFence(text)), &parsed); err != nil {
		return models.AnalysisResult{Text: text}
	}
	res, ok := normalize(parsed, depth+1)
	if !ok {
		return models.AnalysisResult{Text: text}
	}
	return res
}

// stripFence removes a surrounding ``` or ```json block.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func fromObject(m map[string]any) models.AnalysisResult {
	res := models.AnalysisResult{
		Summary: firstString(m, summaryKeys...),
		Crops:   []models.CropRiskEntry{},
	}
	items, _ := m[cropsKey].([]any)
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		res.Crops = append(res.Crops, cropEntry(entry))
	}
	return res
}

func cropEntry(m map[string]any) models.CropRiskEntry {
	return models.CropRiskEntry{
		Crop:               firstString(m, cropKeys...),
		RiskLevel:          firstString(m, riskKeys...),
		DaysBeforeSpoilage: days(m),
		TransportRisk:      score(m, transportKeys...),
		StorageRisk:        score(m, storageKeys...),
		PreventiveActions:  actions(m),
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
	}
	return ""
}

func firstFloat(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch t := m[k].(type) {
		case float64:
			return t, true
		case json.Number:
			if f, err := t.Float64(); err == nil {
				return f, true
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%")), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func days(m map[string]any) models.Days {
	for _, k := range daysKeys {
		switch t := m[k].(type) {
		case float64:
			return models.DaysNumber(t)
		case json.Number:
			if f, err := t.Float64(); err == nil {
				return models.DaysNumber(f)
			}
		case string:
			if strings.TrimSpace(t) != "" {
				return models.DaysText(t)
			}
		}
	}
	return models.Days{}
}

func score(m map[string]any, keys ...string) *float64 {
	f, ok := firstFloat(m, keys...)
	if !ok {
		return nil
	}
	if f < 0 {
		f = 0
	}
	if f > 100 {
		f = 100
	}
	return &f
}

func actions(m map[string]any) []string {
	for _, k := range actionKeys {
		switch t := m[k].(type) {
		case []any:
			out := make([]string, 0, len(t))
			for _, a := range t {
				switch av := a.(type) {
				case string:
					if s := strings.TrimSpace(av); s != "" {
						out = append(out, s)
					}
				case nil:
				default:
					out = append(out, fmt.Sprint(av))
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return []string{s}
			}
		}
	}
	return nil
}
