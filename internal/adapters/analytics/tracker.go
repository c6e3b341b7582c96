package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"devevent/internal/domain"
)

// Config holds configuration for creating an analytics tracker.
type Config struct {
	Provider string
	Host     string // capture endpoint base, e.g. https://us.i.posthog.com
	APIKey   string
}

// NewTracker creates an analytics tracker from config. Provider "posthog"
// sends capture events to a PostHog-compatible host; "noop" or unknown
// discards events.
func NewTracker(cfg Config, client *http.Client) domain.AnalyticsTracker {
	switch cfg.Provider {
	case "posthog":
		if client == nil {
			client = http.DefaultClient
		}
		return &httpTracker{
			client: client,
			host:   strings.TrimSuffix(cfg.Host, "/"),
			apiKey: cfg.APIKey,
		}
	case "noop":
		return &noopTracker{}
	default:
		log.Printf("[ANALYTICS] Unknown analytics provider %q, using noop", cfg.Provider)
		return &noopTracker{}
	}
}

type httpTracker struct {
	client *http.Client
	host   string
	apiKey string
}

type captureRequest struct {
	APIKey     string         `json:"api_key"`
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Properties map[string]any `json:"properties,omitempty"`
}

func (t *httpTracker) Capture(ctx context.Context, event string, properties map[string]any) error {
	payload, err := json.Marshal(captureRequest{
		APIKey:     t.apiKey,
		Event:      event,
		DistinctID: "server",
		Properties: properties,
	})
	if err != nil {
		return fmt.Errorf("failed to encode capture payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.host+"/capture/", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send capture event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("analytics host returned status: %d", resp.StatusCode)
	}
	return nil
}

type noopTracker struct{}

func (n *noopTracker) Capture(context.Context, string, map[string]any) error {
	return nil
}
