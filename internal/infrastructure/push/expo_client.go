package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"skysend/internal/infrastructure/metrics"
)

// Message is the payload the Expo push endpoint accepts. Delivery is
// fire-and-forget; no receipt is consumed.
type Message struct {
	To    string                 `json:"to"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

type ExpoClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewExpoClient(endpoint string) *ExpoClient {
	return &ExpoClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send posts one push message. Callers treat failures as best-effort: log
// and move on, the user-facing operation already succeeded.
func (c *ExpoClient) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		metrics.PushDeliveries.WithLabelValues("skipped").Inc()
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		metrics.PushDeliveries.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		metrics.PushDeliveries.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.PushDeliveries.WithLabelValues("failed").Inc()
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		metrics.PushDeliveries.WithLabelValues("failed").Inc()
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}

	metrics.PushDeliveries.WithLabelValues("ok").Inc()
	return nil
}
