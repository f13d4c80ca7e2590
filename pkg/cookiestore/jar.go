package cookiestore

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Jar is an http.CookieJar that mirrors every cookie change into a Store.
type Jar struct {
	jar        *cookiejar.Jar
	store      Store
	sessionTTL time.Duration
	now        func() time.Time

	mu      sync.Mutex
	lastErr error
}

var _ http.CookieJar = (*Jar)(nil)

// Open creates the store of the given type and a jar seeded from it.
func Open(typ, path string, opts Options) (*Jar, error) {
	store, err := NewStore(typ, path, opts)
	if err != nil {
		return nil, err
	}
	jar, err := NewJar(store, opts)
	if err != nil {
		store.Close()
		return nil, err
	}
	return jar, nil
}

// NewJar wraps store, replaying its unexpired records into a fresh in-memory jar.
func NewJar(store Store, opts Options) (*Jar, error) {
	if store == nil {
		store = noopStore{}
	}
	opts = normalizeOptions(opts)

	inner, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	records, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	for _, rec := range records {
		u, err := url.Parse(rec.URL)
		if err != nil {
			continue
		}
		inner.SetCookies(u, []*http.Cookie{rec.cookie()})
	}

	return &Jar{
		jar:        inner,
		store:      store,
		sessionTTL: opts.SessionTTL,
		now:        time.Now,
	}, nil
}

// SetCookies implements http.CookieJar and persists the change.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)

	now := j.now()
	var errs []error
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		rec, removed := newRecord(u, c, now, j.sessionTTL)
		if removed {
			errs = append(errs, j.store.Delete(rec.Key()))
			continue
		}
		errs = append(errs, j.store.Save(rec))
	}

	if err := errors.Join(errs...); err != nil {
		j.mu.Lock()
		j.lastErr = err
		j.mu.Unlock()
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

// Err returns the most recent persistence failure, if any.
func (j *Jar) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastErr
}

// Close releases the underlying store.
func (j *Jar) Close() error {
	if j == nil || j.store == nil {
		return nil
	}
	return j.store.Close()
}
