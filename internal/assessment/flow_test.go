package assessment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/cropguard/backend/internal/models"
	"github.com/cropguard/backend/internal/webhook"
)

func sampleInput() models.ShipmentInput {
	return models.ShipmentInput{TruckID: "T1", TruckCity: "Nashik", Crops: "Apple", WarehouseCity: "Delhi", Email: "a@b.com"}
}

type staticClient struct {
	resp  webhook.Response
	err   error
	mu    sync.Mutex
	calls []models.WebhookPayload
}

func (s *staticClient) Send(ctx context.Context, p models.WebhookPayload) (webhook.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, p)
	return s.resp, s.err
}

type blockingClient struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingClient) Send(ctx context.Context, p models.WebhookPayload) (webhook.Response, error) {
	close(b.started)
	<-b.release
	return webhook.Response{StatusCode: http.StatusOK, Body: []byte(`{"crops_analysis":[{"crop":"Apple","risk_level":"HIGH"}]}`)}, nil
}

func newEndpoint(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSubmitHTTPStatusFailure(t *testing.T) {
	srv := newEndpoint(t, http.StatusInternalServerError, `{"message":"Error in workflow"}`)
	flow := NewFlow(webhook.HTTPClient{URL: srv.URL, Client: srv.Client()}, zerolog.Nop(), 0)

	out, err := flow.Submit(context.Background(), models.ShipmentInput{TruckID: "T1", Crops: "Apple", WarehouseCity: "Delhi", Email: "a@b.com"})
	require.NoError(t, err)
	require.Equal(t, models.StatusFailure, out.Status)
	require.NotNil(t, out.Failure)
	assert.Equal(t, models.FailureHTTPStatus, out.Failure.Kind)
	assert.Equal(t, 500, out.Failure.StatusCode)
	assert.Equal(t, `{"message":"Error in workflow"}`, out.Failure.Debug)
	assert.Equal(t, "Server responded with status 500", out.Failure.Message)
	assert.Equal(t, out, flow.Current())
}

func TestSubmitMalformedJSON(t *testing.T) {
	body := "<html>" + strings.Repeat("x", 800) + "</html>"
	srv := newEndpoint(t, http.StatusOK, body)
	flow := NewFlow(webhook.HTTPClient{URL: srv.URL, Client: srv.Client()}, zerolog.Nop(), 100)

	out, err := flow.Submit(context.Background(), sampleInput())
	require.NoError(t, err)
	require.NotNil(t, out.Failure)
	assert.Equal(t, models.FailureJSONDecode, out.Failure.Kind)
	assert.Contains(t, out.Failure.Message, "<html>xxx")
	assert.NotContains(t, out.Failure.Message, "</html>")
	debug, ok := out.Failure.Debug.(string)
	require.True(t, ok)
	assert.Equal(t, body[:100]+"…", debug)
}

func TestSubmitNetworkFailure(t *testing.T) {
	flow := NewFlow(&staticClient{err: errors.New("dial tcp: connection refused")}, zerolog.Nop(), 0)

	out, err := flow.Submit(context.Background(), sampleInput())
	require.NoError(t, err)
	require.NotNil(t, out.Failure)
	assert.Equal(t, models.FailureNetwork, out.Failure.Kind)
	assert.Contains(t, out.Failure.Message, "connection refused")
	assert.Zero(t, out.Failure.StatusCode)
}

func TestSubmitSuccessAndUnrecognizedShape(t *testing.T) {
	client := &staticClient{resp: webhook.Response{StatusCode: 200, Body: []byte(`[{"output":{"crops_analysis":[{"crop":"Apple","risk_level":"High"}]}}]`)}}
	flow := NewFlow(client, zerolog.Nop(), 0)

	out, err := flow.Submit(context.Background(), sampleInput())
	require.NoError(t, err)
	require.Equal(t, models.StatusSuccess, out.Status)
	require.Len(t, out.Result.Crops, 1)
	assert.Equal(t, "Apple", out.Result.Crops[0].Crop)
	assert.Equal(t, "T1", out.Input.TruckID)

	client.resp = webhook.Response{StatusCode: 200, Body: []byte(`{"executionId":"42"}`)}
	out, err = flow.Submit(context.Background(), sampleInput())
	require.NoError(t, err)
	require.Equal(t, models.StatusSuccess, out.Status)
	assert.False(t, out.Result.Recognized())
	assert.Equal(t, map[string]any{"executionId": "42"}, out.Result.Raw)
}

func TestRetryResendsLastInput(t *testing.T) {
	client := &staticClient{resp: webhook.Response{StatusCode: 503, Body: []byte("busy")}}
	flow := NewFlow(client, zerolog.Nop(), 0)

	_, err := flow.Retry(context.Background())
	require.ErrorIs(t, err, ErrNothingToRetry)

	in := sampleInput()
	in.TransportType = "open"
	_, err = flow.Submit(context.Background(), in)
	require.NoError(t, err)

	client.resp = webhook.Response{StatusCode: 200, Body: []byte(`{"crops_analysis":[]}`)}
	out, err := flow.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, out.Status)

	require.Len(t, client.calls, 2)
	assert.Equal(t, client.calls[0], client.calls[1])
	assert.Equal(t, "open", client.calls[1].TransportType)
}

func TestResetClearsState(t *testing.T) {
	flow := NewFlow(&staticClient{resp: webhook.Response{StatusCode: 200, Body: []byte(`{"text":"ok"}`)}}, zerolog.Nop(), 0)
	_, err := flow.Submit(context.Background(), sampleInput())
	require.NoError(t, err)

	flow.Reset()
	assert.Equal(t, models.StatusIdle, flow.Current().Status)
	_, ok := flow.LastInput()
	assert.False(t, ok)
}

func TestSubmitRejectsWhileInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	client := &blockingClient{started: make(chan struct{}), release: make(chan struct{})}
	flow := NewFlow(client, zerolog.Nop(), 0)

	done := make(chan models.Outcome)
	go func() {
		out, _ := flow.Submit(context.Background(), sampleInput())
		done <- out
	}()
	<-client.started

	out, err := flow.Submit(context.Background(), sampleInput())
	require.ErrorIs(t, err, ErrInFlight)
	assert.Equal(t, models.StatusPending, out.Status)

	close(client.release)
	select {
	case settled := <-done:
		assert.Equal(t, models.StatusSuccess, settled.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("submission did not settle")
	}
}

func TestStaleResultIsDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t)

	client := &blockingClient{started: make(chan struct{}), release: make(chan struct{})}
	flow := NewFlow(client, zerolog.Nop(), 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = flow.Submit(context.Background(), sampleInput())
	}()
	<-client.started

	flow.Reset()
	close(client.release)
	<-done

	assert.Equal(t, models.StatusIdle, flow.Current().Status)
}

func TestTruncateKeepsRunes(t *testing.T) {
	s := "abécd"
	assert.Equal(t, "ab…", truncate(s, 3))
	assert.Equal(t, s, truncate(s, 10))
}
