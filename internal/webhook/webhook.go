package webhook

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cropguard/backend/internal/models"
)

// Response is the raw reply from the webhook. Non-2xx statuses are not
// errors at this layer.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type Client interface {
	Send(ctx context.Context, payload models.WebhookPayload) (Response, error)
}

const (
	ModeHTTP = "http"
	ModeMock = "mock"
)

// FromURL picks the HTTP client when a URL is configured and the mock
// client otherwise.
func FromURL(url string, timeout time.Duration) (Client, string) {
	if strings.TrimSpace(url) == "" {
		return MockClient{ModelVersion: "mock-v1"}, ModeMock
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return HTTPClient{URL: strings.TrimSpace(url), Client: &http.Client{Timeout: timeout}}, ModeHTTP
}
