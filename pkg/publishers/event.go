package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-request-client/pkg/httpclient"
)

// Event represents one completed request as published downstream.
type Event struct {
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code,omitempty"`
	Outcome    string    `json:"outcome"`
	Message    string    `json:"message,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
}

// NewEvent converts an httpclient.Exchange into an Event.
func NewEvent(ex httpclient.Exchange) Event {
	started := ex.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	return Event{
		Method:     ex.Method,
		URL:        ex.URL,
		StatusCode: ex.StatusCode,
		Outcome:    ex.Outcome.String(),
		Message:    ex.Message,
		StartedAt:  started.UTC(),
		DurationMs: ex.Duration.Milliseconds(),
	}
}

// attributes returns the string attributes attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"method":  e.Method,
		"outcome": e.Outcome,
	}
}
