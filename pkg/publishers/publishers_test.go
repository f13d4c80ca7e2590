package publishers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	}.validate()
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestLoadRegistryAllTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.json")
	raw := `{"publishers":[
  {"id":"q","type":"SQS","sqs":{"uri":" https://sqs.test/q ","region":"eu-west-1"}},
  {"id":"t","type":"sns","sns":{"topic_arn":"arn:aws:sns:eu-west-1:1:t","region":"eu-west-1","credentials":{"access_key_id":"a","secret_access_key":"b"}}},
  {"id":"g","type":"gcppubsub","gcppubsub":{"project_id":"p","topic":"exchanges"}},
  {"id":"h","type":"http","http":{"url":"https://hooks.test","headers":{" X-Key ":"v"," ":"skip"}}}
]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := len(reg.All()); got != 4 {
		t.Fatalf("expected 4 publishers, got %d", got)
	}

	q, _ := reg.ByID("q")
	if q.Type != TypeSQS || q.SQS.QueueURL != "https://sqs.test/q" {
		t.Fatalf("sqs config not sanitized: %#v", q.SQS)
	}
	h, _ := reg.ByID("h")
	if h.HTTP.Method != "POST" || h.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http defaults not applied: %#v", h.HTTP)
	}
	if len(h.HTTP.Headers) != 1 || h.HTTP.Headers["X-Key"] != "v" {
		t.Fatalf("headers not sanitized: %#v", h.HTTP.Headers)
	}
}

func TestValidatePublisherConfigRejects(t *testing.T) {
	cases := map[string]PublisherConfig{
		"sns without topic": {ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "us-east-1"}},
		"partial creds": {ID: "s", Type: TypeSQS, SQS: &SQSPublisherConfig{
			QueueURL: "https://q", Region: "us-east-1", Credentials: &AWSCredentials{AccessKeyID: "a"},
		}},
		"pubsub without topic": {ID: "g", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{ProjectID: "p"}},
		"http get":             {ID: "h", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://x", Method: "GET"}},
		"unknown type":         {ID: "k", Type: "kafka"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if err := cfg.sanitized().validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadRegistryOutcomes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yml")
	raw := `
publishers:
  - id: failures
    type: http
    outcomes: [" HTTP_ERROR ", timeout, timeout]
    http:
      url: https://hooks.test/failures
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("failures")
	if !ok {
		t.Fatalf("publisher failures not found")
	}
	if len(cfg.Outcomes) != 2 || cfg.Outcomes[0] != "http_error" || cfg.Outcomes[1] != "timeout" {
		t.Fatalf("outcomes not normalized: %#v", cfg.Outcomes)
	}
	if !cfg.Wants("timeout") || cfg.Wants("success") {
		t.Fatalf("unexpected outcome filter for %#v", cfg.Outcomes)
	}
	if !(PublisherConfig{}).Wants("success") {
		t.Fatalf("empty outcomes should accept every exchange")
	}
}

func TestLoadRegistryRejectsUnknownOutcome(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.json")
	raw := `{"publishers":[{"id":"h","type":"http","outcomes":["failed"],"http":{"url":"https://hooks.test"}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := LoadRegistry(path)
	if err == nil || !strings.Contains(err.Error(), `unknown outcome "failed"`) {
		t.Fatalf("expected unknown outcome error, got %v", err)
	}
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - {id: h, type: http, http: {url: "https://a.test"}}
  - {id: h, type: http, http: {url: "https://b.test"}}
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}
