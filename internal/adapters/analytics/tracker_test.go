package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTracker_Capture(t *testing.T) {
	var got captureRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/capture/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tracker := NewTracker(Config{Provider: "posthog", Host: srv.URL, APIKey: "phc_test"}, srv.Client())
	err := tracker.Capture(context.Background(), "event_created", map[string]any{"slug": "react-conf"})
	require.NoError(t, err)

	assert.Equal(t, "phc_test", got.APIKey)
	assert.Equal(t, "event_created", got.Event)
	assert.Equal(t, "react-conf", got.Properties["slug"])
}

func TestHTTPTracker_Capture_HostError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	tracker := NewTracker(Config{Provider: "posthog", Host: srv.URL, APIKey: "phc_test"}, srv.Client())
	err := tracker.Capture(context.Background(), "event_created", nil)
	assert.Error(t, err)
}

func TestNewTracker_UnknownProviderIsNoop(t *testing.T) {
	tracker := NewTracker(Config{Provider: "statsd"}, nil)
	assert.NoError(t, tracker.Capture(context.Background(), "event_created", nil))
}
