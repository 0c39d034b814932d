package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/cropguard/backend/internal/models"
	"github.com/cropguard/backend/internal/normalize"
	"github.com/cropguard/backend/internal/webhook"
)

const defaultDebugLimit = 500

var (
	ErrInFlight       = errors.New("an assessment is already in progress")
	ErrNothingToRetry = errors.New("no previous submission to retry")
)

// Flow owns one outcome slot. At most one webhook request is outstanding.
type Flow struct {
	client     webhook.Client
	logger     zerolog.Logger
	debugLimit int
	inflight   *semaphore.Weighted
	now        func() time.Time

	mu      sync.Mutex
	gen     uint64
	outcome models.Outcome
	last    *models.ShipmentInput
}

func NewFlow(client webhook.Client, logger zerolog.Logger, debugLimit int) *Flow {
	if debugLimit <= 0 {
		debugLimit = defaultDebugLimit
	}
	return &Flow{
		client:     client,
		logger:     logger,
		debugLimit: debugLimit,
		inflight:   semaphore.NewWeighted(1),
		now:        time.Now,
		outcome:    models.Outcome{Status: models.StatusIdle},
	}
}

// Current returns a copy of the outcome slot.
func (f *Flow) Current() models.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}

// LastInput returns the most recently submitted input, if any.
func (f *Flow) LastInput() (models.ShipmentInput, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		return models.ShipmentInput{}, false
	}
	return *f.last, true
}

// Submit replaces the previous outcome with Pending, sends the input and
// stores the settled outcome. If Reset ran meanwhile the late result is
// dropped and the current slot is returned instead.
func (f *Flow) Submit(ctx context.Context, input models.ShipmentInput) (models.Outcome, error) {
	if !f.inflight.TryAcquire(1) {
		return f.Current(), ErrInFlight
	}
	defer f.inflight.Release(1)

	in := input
	started := f.now()

	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.last = &in
	f.outcome = models.Outcome{Status: models.StatusPending, Input: &in, StartedAt: started}
	f.mu.Unlock()

	f.logger.Info().Str("truck_id", in.TruckID).Msg("assessment submitted")

	out := f.send(ctx, in)
	out.Input = &in
	out.StartedAt = started
	out.FinishedAt = f.now()
	out.LatencyMs = out.FinishedAt.Sub(started).Milliseconds()

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		f.logger.Debug().Str("truck_id", in.TruckID).Msg("discarding stale assessment result")
		return f.outcome, nil
	}
	f.outcome = out

	ev := f.logger.Info()
	if out.Failure != nil {
		ev = f.logger.Warn().Str("failure", string(out.Failure.Kind)).Int("http_status", out.Failure.StatusCode)
	}
	ev.Str("truck_id", in.TruckID).
		Str("status", string(out.Status)).
		Int64("latency_ms", out.LatencyMs).
		Msg("assessment settled")
	return out, nil
}

// Retry re-sends the last submitted input unchanged.
func (f *Flow) Retry(ctx context.Context) (models.Outcome, error) {
	in, ok := f.LastInput()
	if !ok {
		return f.Current(), ErrNothingToRetry
	}
	return f.Submit(ctx, in)
}

// Reset clears the outcome and the remembered input.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.last = nil
	f.outcome = models.Outcome{Status: models.StatusIdle}
}

func (f *Flow) send(ctx context.Context, in models.ShipmentInput) models.Outcome {
	resp, err := f.client.Send(ctx, in.Payload())
	if err != nil {
		return failure(models.Failure{
			Kind:    models.FailureNetwork,
			Message: fmt.Sprintf("Unable to reach the analysis service: %v", err),
		})
	}

	if !resp.OK() {
		return failure(models.Failure{
			Kind:       models.FailureHTTPStatus,
			Message:    fmt.Sprintf("Server responded with status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Debug:      string(resp.Body),
		})
	}

	var decoded any
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		prefix := truncate(string(resp.Body), f.debugLimit)
		return failure(models.Failure{
			Kind:       models.FailureJSONDecode,
			Message:    fmt.Sprintf("Invalid JSON in analysis response (%v): %s", err, prefix),
			StatusCode: resp.StatusCode,
			Debug:      prefix,
		})
	}

	result, ok := normalize.Normalize(decoded)
	if !ok {
		f.logger.Warn().Str("truck_id", in.TruckID).Msg("unrecognized analysis shape, showing raw payload")
	}
	return models.Outcome{Status: models.StatusSuccess, Result: &result}
}

func failure(fl models.Failure) models.Outcome {
	return models.Outcome{Status: models.StatusFailure, Failure: &fl}
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
