package cookiestore

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Package cookiestore provides a persistent http.CookieJar.

// Store persists cookie records between processes.
type Store interface {
	Close() error
	// Load returns every unexpired record.
	Load() ([]Record, error)
	Save(rec Record) error
	Delete(key string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	// SessionTTL bounds how long cookies without Expires/Max-Age are kept on disk.
	SessionTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultSessionTTL      = 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// Record is one persisted cookie together with the URL that set it.
type Record struct {
	URL       string        `json:"url"`
	Name      string        `json:"name"`
	Value     string        `json:"value"`
	Path      string        `json:"path,omitempty"`
	Domain    string        `json:"domain,omitempty"`
	Secure    bool          `json:"secure,omitempty"`
	HttpOnly  bool          `json:"http_only,omitempty"`
	SameSite  http.SameSite `json:"same_site,omitempty"`
	Session   bool          `json:"session,omitempty"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Key identifies a cookie the way a jar does: domain (or host), effective
// path and name.
func (r Record) Key() string {
	var origin *url.URL
	if u, err := url.Parse(r.URL); err == nil {
		origin = u
	}

	scope := strings.ToLower(strings.TrimPrefix(r.Domain, "."))
	if scope == "" && origin != nil {
		scope = strings.ToLower(origin.Hostname())
	}

	path := r.Path
	if path == "" || path[0] != '/' {
		path = "/"
		if origin != nil {
			path = defaultPath(origin.Path)
		}
	}
	return scope + "\x00" + path + "\x00" + r.Name
}

// defaultPath is the RFC 6265 section 5.1.4 default-path of a request path.
func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}

// Expired reports whether the record is past its expiry at now.
func (r Record) Expired(now time.Time) bool {
	return r.ExpiresAt.IsZero() || !r.ExpiresAt.After(now)
}

func (r Record) cookie() *http.Cookie {
	c := &http.Cookie{
		Name:     r.Name,
		Value:    r.Value,
		Path:     r.Path,
		Domain:   r.Domain,
		Secure:   r.Secure,
		HttpOnly: r.HttpOnly,
		SameSite: r.SameSite,
	}
	if !r.Session {
		c.Expires = r.ExpiresAt
	}
	return c
}

// newRecord converts a cookie received from u. removed is true when the
// cookie deletes an earlier one (Max-Age < 0 or Expires in the past).
func newRecord(u *url.URL, c *http.Cookie, now time.Time, sessionTTL time.Duration) (rec Record, removed bool) {
	origin := url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}
	rec = Record{
		URL:      origin.String(),
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
		SameSite: c.SameSite,
	}

	switch {
	case c.MaxAge < 0:
		return rec, true
	case c.MaxAge > 0:
		rec.ExpiresAt = now.Add(time.Duration(c.MaxAge) * time.Second)
	case !c.Expires.IsZero():
		if !c.Expires.After(now) {
			return rec, true
		}
		rec.ExpiresAt = c.Expires
	default:
		rec.Session = true
		rec.ExpiresAt = now.Add(sessionTTL)
	}
	return rec, false
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled", "memory":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt cookie store requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported cookie store type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error            { return nil }
func (noopStore) Load() ([]Record, error) { return nil, nil }
func (noopStore) Save(Record) error       { return nil }
func (noopStore) Delete(string) error     { return nil }
