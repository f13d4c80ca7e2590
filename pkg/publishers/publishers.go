package publishers

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/samvad-hq/samvad-request-client/internal/registryfile"
	"github.com/samvad-hq/samvad-request-client/pkg/httpclient"
)

const (
	// Supported publisher types.
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeGCPPubSub = "gcppubsub"
	TypeHTTP      = "http"

	httpDefaultMethod         = http.MethodPost
	httpDefaultTimeoutSeconds = 5
)

// knownOutcomes are the values accepted in a publisher's outcomes filter.
var knownOutcomes = []string{
	httpclient.OutcomeSuccess.String(),
	httpclient.OutcomeHTTPError.String(),
	httpclient.OutcomeTransport.String(),
	httpclient.OutcomeTimeout.String(),
	httpclient.OutcomeInvalidRequest.String(),
}

type configFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig is one exchange sink declared in the publishers file.
type PublisherConfig struct {
	ID      string `json:"id" yaml:"id"`
	Type    string `json:"type" yaml:"type"`
	Enabled *bool  `json:"enabled" yaml:"enabled"`
	// Outcomes restricts delivery to exchanges with these outcomes
	// (e.g. ["http_error", "timeout"]). Empty means every exchange.
	Outcomes []string `json:"outcomes" yaml:"outcomes"`

	SQS       *SQSPublisherConfig       `json:"sqs" yaml:"sqs"`
	SNS       *SNSPublisherConfig       `json:"sns" yaml:"sns"`
	GCPPubSub *GCPPubSubPublisherConfig `json:"gcppubsub" yaml:"gcppubsub"`
	HTTP      *HTTPPublisherConfig      `json:"http" yaml:"http"`
}

// AWSCredentials are optional static keys; the default chain is used when absent.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
}

// SQSPublisherConfig holds AWS SQS specific settings.
type SQSPublisherConfig struct {
	QueueURL    string          `json:"uri" yaml:"uri"`
	Region      string          `json:"region" yaml:"region"`
	Endpoint    string          `json:"endpoint" yaml:"endpoint"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

// SNSPublisherConfig holds AWS SNS specific settings.
type SNSPublisherConfig struct {
	TopicARN    string          `json:"topic_arn" yaml:"topic_arn"`
	Region      string          `json:"region" yaml:"region"`
	Endpoint    string          `json:"endpoint" yaml:"endpoint"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

// GCPPubSubPublisherConfig holds Google Cloud Pub/Sub settings.
type GCPPubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// HTTPPublisherConfig holds webhook settings. Method is POST or PUT.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// ConfigRegistry is the validated content of a publishers file.
type ConfigRegistry struct {
	publishers []PublisherConfig
	idx        map[string]PublisherConfig
}

// LoadRegistry loads the publisher registry from a YAML/JSON file.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	var file configFile
	if err := registryfile.Load(path, "publishers", &file); err != nil {
		return nil, err
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	reg := &ConfigRegistry{
		publishers: make([]PublisherConfig, len(file.Publishers)),
		idx:        make(map[string]PublisherConfig, len(file.Publishers)),
	}
	for i, raw := range file.Publishers {
		cfg := raw.sanitized()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, exists := reg.idx[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.publishers[i] = cfg
		reg.idx[cfg.ID] = cfg
	}
	return reg, nil
}

// ByID returns the publisher config by id.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	id = strings.TrimSpace(id)
	if r == nil || id == "" {
		return PublisherConfig{}, false
	}
	cfg, ok := r.idx[id]
	return cfg, ok
}

// All returns all configured publishers.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	return slices.Clone(r.publishers)
}

// Enabled returns publishers that are enabled.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	if r == nil {
		return nil
	}
	var out []PublisherConfig
	for _, cfg := range r.publishers {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue returns enabled flag defaulting to true.
func (cfg PublisherConfig) EnabledValue() bool {
	if cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}

// Wants reports whether an exchange with the given outcome goes to this sink.
func (cfg PublisherConfig) Wants(outcome string) bool {
	return len(cfg.Outcomes) == 0 || slices.Contains(cfg.Outcomes, outcome)
}

func (cfg PublisherConfig) sanitized() PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		cfg.Enabled = httpclient.Bool(true)
	}

	var outcomes []string
	for _, o := range cfg.Outcomes {
		o = strings.ToLower(strings.TrimSpace(o))
		if o != "" && !slices.Contains(outcomes, o) {
			outcomes = append(outcomes, o)
		}
	}
	cfg.Outcomes = outcomes

	if cfg.SQS != nil {
		c := *cfg.SQS
		c.QueueURL = strings.TrimSpace(c.QueueURL)
		c.Region = strings.TrimSpace(c.Region)
		c.Endpoint = strings.TrimSpace(c.Endpoint)
		c.Credentials = c.Credentials.sanitized()
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := *cfg.SNS
		c.TopicARN = strings.TrimSpace(c.TopicARN)
		c.Region = strings.TrimSpace(c.Region)
		c.Endpoint = strings.TrimSpace(c.Endpoint)
		c.Credentials = c.Credentials.sanitized()
		cfg.SNS = &c
	}
	if cfg.GCPPubSub != nil {
		c := *cfg.GCPPubSub
		c.ProjectID = strings.TrimSpace(c.ProjectID)
		c.Topic = strings.TrimSpace(c.Topic)
		c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
		cfg.GCPPubSub = &c
	}
	if cfg.HTTP != nil {
		c := *cfg.HTTP
		c.URL = strings.TrimSpace(c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = httpDefaultMethod
		}
		c.Headers = sanitizeHeaders(c.Headers)
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		cfg.HTTP = &c
	}
	return cfg
}

func (c *AWSCredentials) sanitized() *AWSCredentials {
	if c == nil {
		return nil
	}
	return &AWSCredentials{
		AccessKeyID:     strings.TrimSpace(c.AccessKeyID),
		SecretAccessKey: strings.TrimSpace(c.SecretAccessKey),
		SessionToken:    strings.TrimSpace(c.SessionToken),
	}
}

func (c *AWSCredentials) static() bool {
	return c != nil && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

func (c *AWSCredentials) validate() error {
	if c != nil && (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return errors.New("credentials need both access_key_id and secret_access_key")
	}
	return nil
}

// sanitizeHeaders canonicalizes keys and drops empty entries.
func sanitizeHeaders(headers map[string]string) map[string]string {
	out := httpclient.MergeHeaders(nil, headers)
	for k, v := range out {
		if strings.TrimSpace(v) == "" {
			delete(out, k)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (cfg PublisherConfig) validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	if cfg.Type == "" {
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	}
	for _, o := range cfg.Outcomes {
		if !slices.Contains(knownOutcomes, o) {
			return fmt.Errorf("unknown outcome %q for publisher %q (expected one of %s)",
				o, cfg.ID, strings.Join(knownOutcomes, ", "))
		}
	}

	if err := cfg.validateSink(); err != nil {
		return fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	return nil
}

func (cfg PublisherConfig) validateSink() error {
	switch cfg.Type {
	case TypeSQS:
		switch {
		case cfg.SQS == nil:
			return errors.New("sqs config required")
		case cfg.SQS.QueueURL == "":
			return errors.New("sqs.uri is required")
		case cfg.SQS.Region == "":
			return errors.New("sqs.region is required")
		}
		return cfg.SQS.Credentials.validate()
	case TypeSNS:
		switch {
		case cfg.SNS == nil:
			return errors.New("sns config required")
		case cfg.SNS.TopicARN == "":
			return errors.New("sns.topic_arn is required")
		case cfg.SNS.Region == "":
			return errors.New("sns.region is required")
		}
		return cfg.SNS.Credentials.validate()
	case TypeGCPPubSub:
		if cfg.GCPPubSub == nil {
			return errors.New("gcppubsub config required")
		}
		if cfg.GCPPubSub.ProjectID == "" || cfg.GCPPubSub.Topic == "" {
			return errors.New("gcppubsub.project_id and gcppubsub.topic are required")
		}
	case TypeHTTP:
		switch {
		case cfg.HTTP == nil:
			return errors.New("http config required")
		case cfg.HTTP.URL == "":
			return errors.New("http.url is required")
		case cfg.HTTP.Method != http.MethodPost && cfg.HTTP.Method != http.MethodPut:
			return errors.New("http.method must be POST or PUT")
		}
	default:
		return fmt.Errorf("unsupported publisher type %q", cfg.Type)
	}
	return nil
}
