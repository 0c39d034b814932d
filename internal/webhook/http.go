package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cropguard/backend/internal/models"
)

const maxBodyBytes = 4 << 20

type HTTPClient struct {
	URL    string
	Client *http.Client
}

func (h HTTPClient) Send(ctx context.Context, payload models.WebhookPayload) (Response, error) {
	if h.Client == nil {
		h.Client = &http.Client{Timeout: 90 * time.Second}
	}
	if h.URL == "" {
		return Response{}, errors.New("webhook url is not set")
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(b))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Response{}, fmt.Errorf("webhook request timed out")
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return Response{}, fmt.Errorf("webhook request timed out")
		}
		return Response{}, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Response{StatusCode: resp.StatusCode}, fmt.Errorf("read webhook response: %w", err)
	}
	return Response{StatusCode: resp.StatusCode, Body: body}, nil
}
