package normalize

import (
	"strings"

	"github.com/cropguard/backend/internal/models"
)

type RiskLevel string

const (
	RiskHigh       RiskLevel = "HIGH"
	RiskMediumHigh RiskLevel = "MEDIUM-HIGH"
	RiskMedium     RiskLevel = "MEDIUM"
	RiskLow        RiskLevel = "LOW"
	RiskUnknown    RiskLevel = "UNKNOWN"
)

// Levels lists buckets from most to least severe.
var Levels = []RiskLevel{RiskHigh, RiskMediumHigh, RiskMedium, RiskLow, RiskUnknown}

// ClassifyRisk maps a free-text label to exactly one bucket.
// Priority: HIGH > MEDIUM-HIGH > MEDIUM > LOW. A label naming both MEDIUM
// and HIGH ("Medium-High", "medium to high") is MEDIUM-HIGH.
func ClassifyRisk(label string) RiskLevel {
	l := strings.ToUpper(label)
	high := strings.Contains(l, "HIGH")
	medium := strings.Contains(l, "MEDIUM") || strings.Contains(l, "MODERATE")
	switch {
	case high && medium:
		return RiskMediumHigh
	case high:
		return RiskHigh
	case medium:
		return RiskMedium
	case strings.Contains(l, "LOW"):
		return RiskLow
	default:
		return RiskUnknown
	}
}

// Tally counts each crop once, in the bucket ClassifyRisk assigns.
func Tally(crops []models.CropRiskEntry) map[RiskLevel]int {
	out := make(map[RiskLevel]int, len(Levels))
	for _, c := range crops {
		out[ClassifyRisk(c.RiskLevel)]++
	}
	return out
}
