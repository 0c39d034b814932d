// Package view turns assessment outcomes into template data for the
// single-page form.
package view

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/cropguard/backend/internal/models"
	"github.com/cropguard/backend/internal/normalize"
)

//go:embed templates/*.html
var templatesFS embed.FS

var TransportTypes = []string{"refrigerated", "ventilated", "open", "closed"}

func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"fieldError": func(errs map[string]string, name string) string { return errs[name] },
	}).ParseFS(templatesFS, "templates/*.html"))
}

type Page struct {
	Form           ShipmentForm
	Errors         map[string]string
	Outcome        *OutcomeView
	TransportTypes []string
}

type OutcomeView struct {
	Status   models.OutcomeStatus
	Pending  bool
	Result   *ResultView
	Failure  *FailureView
	CanRetry bool
}

type ResultView struct {
	Summary   string
	Cards     []CropCard
	Tally     []TallyItem
	Text      string
	Raw       string
	NoData    bool
	LatencyMs int64
}

type TallyItem struct {
	Level   normalize.RiskLevel
	Count   int
	Percent int
	Class   string
}

type CropCard struct {
	Crop      string
	RiskLevel string
	Class     string
	Days      string
	Transport *Bar
	Storage   *Bar
	Actions   []string
}

type Bar struct {
	Value int
	Class string
}

type FailureView struct {
	Heading string
	Message string
	Debug   string
}

func NewPage(form ShipmentForm, errs map[string]string, out models.Outcome) Page {
	return Page{
		Form:           form,
		Errors:         errs,
		Outcome:        Outcome(out),
		TransportTypes: TransportTypes,
	}
}

// Outcome returns nil for the idle state.
func Outcome(out models.Outcome) *OutcomeView {
	v := &OutcomeView{Status: out.Status, CanRetry: out.Input != nil}
	switch out.Status {
	case models.StatusPending:
		v.Pending = true
	case models.StatusSuccess:
		if out.Result == nil {
			v.Result = &ResultView{NoData: true}
			break
		}
		v.Result = Result(*out.Result)
		v.Result.LatencyMs = out.LatencyMs
	case models.StatusFailure:
		if out.Failure != nil {
			v.Failure = Failure(*out.Failure)
		}
	default:
		return nil
	}
	return v
}

func Result(r models.AnalysisResult) *ResultView {
	v := &ResultView{Summary: r.Summary, Text: r.Text}
	if !r.Recognized() {
		v.Raw = pretty(r.Raw)
		return v
	}
	if r.Empty() {
		v.NoData = true
		return v
	}
	for _, c := range r.Crops {
		v.Cards = append(v.Cards, card(c))
	}
	if len(r.Crops) > 0 {
		v.Tally = tally(r.Crops)
	}
	return v
}

func Failure(f models.Failure) *FailureView {
	v := &FailureView{Message: f.Message}
	if f.StatusCode != 0 {
		v.Heading = fmt.Sprintf("Status %d: ", f.StatusCode)
	}
	if f.Debug != nil {
		v.Debug = pretty(f.Debug)
	}
	return v
}

func card(c models.CropRiskEntry) CropCard {
	name := c.Crop
	if name == "" {
		name = "Unnamed crop"
	}
	level := c.RiskLevel
	if level == "" {
		level = "Unknown"
	}
	out := CropCard{
		Crop:      name,
		RiskLevel: level,
		Class:     riskClass(normalize.ClassifyRisk(c.RiskLevel)),
		Days:      formatDays(c.DaysBeforeSpoilage),
		Actions:   c.PreventiveActions,
	}
	if c.TransportRisk != nil {
		out.Transport = bar(*c.TransportRisk)
	}
	if c.StorageRisk != nil {
		out.Storage = bar(*c.StorageRisk)
	}
	return out
}

func tally(crops []models.CropRiskEntry) []TallyItem {
	counts := normalize.Tally(crops)
	var out []TallyItem
	for _, level := range normalize.Levels {
		n := counts[level]
		if n == 0 {
			continue
		}
		out = append(out, TallyItem{
			Level:   level,
			Count:   n,
			Percent: int(math.Round(float64(n) * 100 / float64(len(crops)))),
			Class:   riskClass(level),
		})
	}
	return out
}

func bar(score float64) *Bar {
	v := int(math.Round(score))
	class := "risk-low"
	switch {
	case v >= 70:
		class = "risk-high"
	case v >= 40:
		class = "risk-medium"
	}
	return &Bar{Value: v, Class: class}
}

func riskClass(level normalize.RiskLevel) string {
	switch level {
	case normalize.RiskHigh:
		return "risk-high"
	case normalize.RiskMediumHigh:
		return "risk-medium-high"
	case normalize.RiskMedium:
		return "risk-medium"
	case normalize.RiskLow:
		return "risk-low"
	default:
		return "risk-unknown"
	}
}

func formatDays(d models.Days) string {
	if d.IsZero() {
		return "—"
	}
	if !d.Number {
		return d.Text
	}
	s := strconv.FormatFloat(d.Value, 'f', -1, 64)
	if d.Value == 1 {
		return s + " day"
	}
	return s + " days"
}

// pretty renders strings as-is and everything else as indented JSON.
func pretty(v any) string {
	if s, ok := v.(string); ok {
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err == nil {
			if b, err := json.MarshalIndent(decoded, "", "  "); err == nil {
				return string(b)
			}
		}
		return s
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSpace(string(b))
}
