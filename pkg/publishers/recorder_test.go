package publishers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-request-client/pkg/httpclient"
)

type captureLogger struct {
	noopLogger
	warns []string
}

func (c *captureLogger) WarnObj(msg, _ string, _ interface{}) { c.warns = append(c.warns, msg) }

func TestRecorderPublishesExchanges(t *testing.T) {
	stub := &stubPublisher{id: "stub", typ: "http"}
	rec := NewRecorder(NewFanout([]Publisher{stub}), nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"msg":"missing"}`))
	}))
	defer srv.Close()

	client, err := httpclient.New(httpclient.Config{BaseURI: srv.URL, Recorder: rec})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	client.Get(context.Background(), "/things/7", nil, nil)

	if stub.calls != 1 {
		t.Fatalf("expected 1 published event, got %d", stub.calls)
	}
	evt := stub.events[0]
	if evt.Method != http.MethodGet || evt.StatusCode != http.StatusNotFound || evt.Outcome != "http_error" {
		t.Fatalf("unexpected event %#v", evt)
	}
	if evt.URL != srv.URL+"/things/7" {
		t.Fatalf("URL = %q", evt.URL)
	}
	if evt.Message == "" {
		t.Fatalf("expected failure message on event")
	}
}

func TestRecorderLogsFanoutErrors(t *testing.T) {
	log := &captureLogger{}
	stub := &stubPublisher{id: "bad", typ: "sqs", err: errors.New("boom")}
	rec := NewRecorder(NewFanout([]Publisher{stub}), log)

	rec.Record(context.Background(), httpclient.Exchange{
		Method:    http.MethodPost,
		URL:       "https://api.test/x",
		Outcome:   httpclient.OutcomeTransport,
		StartedAt: time.Now(),
	})
	if len(log.warns) != 1 {
		t.Fatalf("expected one warning, got %v", log.warns)
	}
}

func TestRecorderPublishesAfterCallerCancel(t *testing.T) {
	stub := &stubPublisher{id: "stub", typ: "http"}
	rec := NewRecorder(NewFanout([]Publisher{stub}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.Record(ctx, httpclient.Exchange{Method: http.MethodGet, Outcome: httpclient.OutcomeTimeout})

	if stub.calls != 1 || stub.events[0].Outcome != "timeout" {
		t.Fatalf("expected timeout event to be published, got %#v", stub.events)
	}
}

func TestNewEventDefaultsStartTime(t *testing.T) {
	evt := NewEvent(httpclient.Exchange{Method: http.MethodGet, Duration: 1500 * time.Millisecond})
	if evt.StartedAt.IsZero() || evt.DurationMs != 1500 {
		t.Fatalf("unexpected event %#v", evt)
	}
}
