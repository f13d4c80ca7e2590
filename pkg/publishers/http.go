package publishers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/samvad-hq/samvad-request-client/pkg/httpclient"
)

type httpPublisher struct {
	id      string
	method  string
	url     string
	headers map[string]string
	client  httpclient.Requester
	typ     string
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	// No recorder: webhook deliveries must not feed back into the fanout.
	client, err := httpclient.New(httpclient.Config{
		Timeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("publisher %q http client: %w", cfg.ID, err)
	}

	return &httpPublisher{
		id:      cfg.ID,
		typ:     TypeHTTP,
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  client,
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return h.typ }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	var res httpclient.Result
	if h.method == http.MethodPut {
		res = h.client.Put(ctx, h.url, evt, h.headers)
	} else {
		res = h.client.Post(ctx, h.url, evt, h.headers)
	}

	if res.Failed() {
		return fmt.Errorf("http %s %s: %s", h.method, h.url, res.Message)
	}
	return nil
}
