package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	HeaderContentType = "Content-Type"
	HeaderAccept      = "Accept"
	ContentTypeJSON   = "application/json"

	DefaultTimeout      = 10 * time.Second
	DefaultMaxRedirects = 5
)

// Supported auth schemes.
const (
	AuthBasic  = "basic"
	AuthDigest = "digest"
	AuthBearer = "bearer"
)

// Config holds the construction options of a RequestClient. Zero values fall
// back to the documented defaults in ApplyDefaults.
type Config struct {
	BaseURI string            `mapstructure:"base_uri" json:"base_uri" yaml:"base_uri"`
	Headers map[string]string `mapstructure:"headers" json:"headers" yaml:"headers"`

	// Timeout bounds the whole exchange. Zero means DefaultTimeout, negative disables it.
	Timeout        time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" json:"connect_timeout" yaml:"connect_timeout"`

	Auth  *AuthConfig `mapstructure:"auth" json:"auth" yaml:"auth"`
	Proxy string      `mapstructure:"proxy" json:"proxy" yaml:"proxy"`

	// Verify toggles server certificate verification (default true). CAFile
	// verifies against a custom bundle instead of the system pool.
	Verify *bool  `mapstructure:"verify" json:"verify" yaml:"verify"`
	CAFile string `mapstructure:"ca_file" json:"ca_file" yaml:"ca_file"`

	Cookies http.CookieJar `mapstructure:"-" json:"-" yaml:"-"`

	AllowRedirects *bool `mapstructure:"allow_redirects" json:"allow_redirects" yaml:"allow_redirects"`
	MaxRedirects   int   `mapstructure:"max_redirects" json:"max_redirects" yaml:"max_redirects"`

	Debug bool `mapstructure:"debug" json:"debug" yaml:"debug"`

	// HTTPErrors reports status >= 400 as an HTTPError outcome (default true).
	HTTPErrors *bool `mapstructure:"http_errors" json:"http_errors" yaml:"http_errors"`

	Logger   Logger   `mapstructure:"-" json:"-" yaml:"-"`
	Recorder Recorder `mapstructure:"-" json:"-" yaml:"-"`
}

// AuthConfig carries credentials for one of the supported schemes.
type AuthConfig struct {
	Type     string `mapstructure:"type" json:"type" yaml:"type"`
	Username string `mapstructure:"username" json:"username" yaml:"username"`
	Password string `mapstructure:"password" json:"password" yaml:"password"`
	Token    string `mapstructure:"token" json:"token" yaml:"token"`
}

// BasicAuth builds basic auth credentials.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// DigestAuth builds digest auth credentials.
func DigestAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthDigest, Username: username, Password: password}
}

// BearerAuth builds a bearer token credential.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// DefaultHeaders returns the built-in headers every client starts from.
func DefaultHeaders() map[string]string {
	return map[string]string{
		HeaderContentType: ContentTypeJSON,
		HeaderAccept:      ContentTypeJSON,
	}
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.BaseURI = strings.TrimSpace(c.BaseURI)
	c.Proxy = strings.TrimSpace(c.Proxy)
	c.CAFile = strings.TrimSpace(c.CAFile)

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Verify == nil {
		c.Verify = Bool(true)
	}
	if c.AllowRedirects == nil {
		c.AllowRedirects = Bool(true)
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = DefaultMaxRedirects
	}
	if c.HTTPErrors == nil {
		c.HTTPErrors = Bool(true)
	}
	if c.Auth != nil {
		a := *c.Auth
		a.Type = strings.ToLower(strings.TrimSpace(a.Type))
		c.Auth = &a
	}
}

// Validate checks option combinations that cannot be honoured.
func (c *Config) Validate() error {
	if c.ConnectTimeout < 0 {
		return errors.New("connect_timeout must not be negative")
	}
	if c.Proxy != "" {
		u, err := url.Parse(c.Proxy)
		if err != nil {
			return fmt.Errorf("invalid proxy url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid proxy url %q (scheme and host required)", c.Proxy)
		}
	}
	if c.CAFile != "" {
		if !c.VerifyValue() {
			return errors.New("ca_file requires verify to be enabled")
		}
		if _, err := os.Stat(c.CAFile); err != nil {
			return fmt.Errorf("ca_file: %w", err)
		}
	}
	if c.Auth != nil {
		switch c.Auth.Type {
		case AuthBasic, AuthDigest:
			if c.Auth.Username == "" {
				return fmt.Errorf("%s auth requires a username", c.Auth.Type)
			}
		case AuthBearer:
			if c.Auth.Token == "" {
				return errors.New("bearer auth requires a token")
			}
		default:
			return fmt.Errorf("unsupported auth type %q", c.Auth.Type)
		}
	}
	return nil
}

// VerifyValue returns the verify flag defaulting to true.
func (c Config) VerifyValue() bool {
	if c.Verify == nil {
		return true
	}
	return *c.Verify
}

// AllowRedirectsValue returns the redirect flag defaulting to true.
func (c Config) AllowRedirectsValue() bool {
	if c.AllowRedirects == nil {
		return true
	}
	return *c.AllowRedirects
}

// HTTPErrorsValue returns the raise-on-error flag defaulting to true.
func (c Config) HTTPErrorsValue() bool {
	if c.HTTPErrors == nil {
		return true
	}
	return *c.HTTPErrors
}

// Bool returns a pointer to v for the optional flag fields.
func Bool(v bool) *bool { return &v }
