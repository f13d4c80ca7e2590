package profiles

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-request-client/internal/registryfile"
	"github.com/samvad-hq/samvad-request-client/pkg/httpclient"
)

// Package profiles loads named client profiles from YAML or JSON files.

// Profile is one named set of client options.
type Profile struct {
	ID      string            `json:"id" yaml:"id"`
	Name    string            `json:"name" yaml:"name"`
	BaseURI string            `json:"base_uri" yaml:"base_uri"`
	Headers map[string]string `json:"headers" yaml:"headers"`
	// Timeout and ConnectTimeout are in seconds. A negative Timeout disables the
	// deadline; ConnectTimeout must be zero (unset) or positive.
	Timeout        float64 `json:"timeout" yaml:"timeout"`
	ConnectTimeout float64 `json:"connect_timeout" yaml:"connect_timeout"`
	Proxy          string  `json:"proxy" yaml:"proxy"`
	Verify         *bool   `json:"verify" yaml:"verify"`
	CAFile         string  `json:"ca_file" yaml:"ca_file"`
	AllowRedirects *bool   `json:"allow_redirects" yaml:"allow_redirects"`
	MaxRedirects   int     `json:"max_redirects" yaml:"max_redirects"`
	Debug          bool    `json:"debug" yaml:"debug"`
	HTTPErrors     *bool   `json:"http_errors" yaml:"http_errors"`
	Auth           *Auth   `json:"auth" yaml:"auth"`
}

// Auth mirrors httpclient.AuthConfig in file form.
type Auth struct {
	Type     string `json:"type" yaml:"type"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Token    string `json:"token" yaml:"token"`
}

type registryFile struct {
	Profiles []Profile `json:"profiles" yaml:"profiles"`
}

// Registry is an immutable, validated set of profiles.
type Registry struct {
	profiles []Profile
	byID     map[string]Profile
}

// LoadRegistry reads and validates the profiles file at path.
func LoadRegistry(path string) (*Registry, error) {
	var file registryFile
	if err := registryfile.Load(path, "profiles", &file); err != nil {
		return nil, err
	}
	return NewRegistry(file.Profiles...)
}

// NewRegistry sanitizes and validates profiles and indexes them by id.
func NewRegistry(profiles ...Profile) (*Registry, error) {
	if len(profiles) == 0 {
		return nil, errors.New("profiles file contains no profiles entries")
	}

	reg := &Registry{
		profiles: make([]Profile, 0, len(profiles)),
		byID:     make(map[string]Profile, len(profiles)),
	}
	for i := range profiles {
		p := sanitizeProfile(profiles[i])
		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("profile[%d]: %w", i, err)
		}
		if _, exists := reg.byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		reg.profiles = append(reg.profiles, p)
		reg.byID[p.ID] = p
	}
	return reg, nil
}

// All returns a copy of the loaded profiles in file order.
func (r *Registry) All() []Profile {
	if r == nil || len(r.profiles) == 0 {
		return nil
	}
	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// ByID returns the profile with the given id, if loaded.
func (r *Registry) ByID(id string) (Profile, bool) {
	id = strings.TrimSpace(id)
	if r == nil || id == "" {
		return Profile{}, false
	}
	p, ok := r.byID[id]
	return p, ok
}

func sanitizeProfile(p Profile) Profile {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.BaseURI = strings.TrimSpace(p.BaseURI)
	p.Proxy = strings.TrimSpace(p.Proxy)
	p.CAFile = strings.TrimSpace(p.CAFile)

	headers := make(map[string]string, len(p.Headers))
	for k, v := range p.Headers {
		k = strings.TrimSpace(k)
		if k == "" || strings.TrimSpace(v) == "" {
			continue
		}
		headers[http.CanonicalHeaderKey(k)] = v
	}
	p.Headers = headers

	if p.Auth != nil {
		auth := *p.Auth
		auth.Type = strings.ToLower(strings.TrimSpace(auth.Type))
		auth.Username = strings.TrimSpace(auth.Username)
		auth.Token = strings.TrimSpace(auth.Token)
		p.Auth = &auth
	}
	if p.Name == "" {
		p.Name = p.ID
	}
	return p
}

func validateProfile(p Profile) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.BaseURI != "" {
		u, err := url.Parse(p.BaseURI)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base_uri %q must be an absolute URL for profile %q", p.BaseURI, p.ID)
		}
	}
	if p.ConnectTimeout < 0 {
		return fmt.Errorf("connect_timeout must not be negative for profile %q", p.ID)
	}
	if p.MaxRedirects < 0 {
		return fmt.Errorf("max_redirects must not be negative for profile %q", p.ID)
	}
	if p.Auth != nil {
		switch p.Auth.Type {
		case httpclient.AuthBasic, httpclient.AuthDigest, httpclient.AuthBearer:
		default:
			return fmt.Errorf("unsupported auth type %q for profile %q", p.Auth.Type, p.ID)
		}
	}
	return nil
}

// ClientConfig maps the profile onto an httpclient.Config. Logger, Recorder
// and Cookies are left for the caller to attach.
func (p Profile) ClientConfig() httpclient.Config {
	cfg := httpclient.Config{
		BaseURI:        p.BaseURI,
		Timeout:        seconds(p.Timeout),
		ConnectTimeout: connectSeconds(p.ConnectTimeout),
		Proxy:          p.Proxy,
		Verify:         p.Verify,
		CAFile:         p.CAFile,
		AllowRedirects: p.AllowRedirects,
		MaxRedirects:   p.MaxRedirects,
		Debug:          p.Debug,
		HTTPErrors:     p.HTTPErrors,
	}
	if len(p.Headers) > 0 {
		cfg.Headers = make(map[string]string, len(p.Headers))
		for k, v := range p.Headers {
			cfg.Headers[k] = v
		}
	}
	if p.Auth != nil {
		cfg.Auth = &httpclient.AuthConfig{
			Type:     p.Auth.Type,
			Username: p.Auth.Username,
			Password: p.Auth.Password,
			Token:    p.Auth.Token,
		}
	}
	return cfg
}

// seconds converts float seconds for the request deadline; any negative
// value disables it.
func seconds(v float64) time.Duration {
	if v < 0 {
		return -1
	}
	return time.Duration(v * float64(time.Second))
}

// connectSeconds converts float seconds for the dial deadline. There is no
// "disabled" form, so negatives clamp to unset.
func connectSeconds(v float64) time.Duration {
	if v <= 0 {
		return 0
	}
	return time.Duration(v * float64(time.Second))
}
