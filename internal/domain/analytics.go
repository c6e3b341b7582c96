package domain

import "context"

// AnalyticsTracker captures product analytics events (event created, booking
// created). Capture is best-effort: callers must not fail a write because a
// capture call failed.
type AnalyticsTracker interface {
	Capture(ctx context.Context, event string, properties map[string]any) error
}
