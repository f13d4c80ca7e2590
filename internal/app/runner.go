package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-request-client/internal/config"
	"github.com/samvad-hq/samvad-request-client/internal/logger"
	"github.com/samvad-hq/samvad-request-client/pkg/cookiestore"
	"github.com/samvad-hq/samvad-request-client/pkg/httpclient"
	"github.com/samvad-hq/samvad-request-client/pkg/profiles"
	"github.com/samvad-hq/samvad-request-client/pkg/publishers"
)

// Runner wires profiles, the cookie store and exchange publishers into
// RequestClients. It owns the jar and publisher connections until Close.
type Runner struct {
	cfg      *config.Config
	profiles *profiles.Registry
	fanout   *publishers.Fanout
	jar      *cookiestore.Jar
	log      logger.Logger
}

// ClientOptions are per-invocation overrides layered on top of a profile.
type ClientOptions struct {
	Profile string
	BaseURI string
	Headers map[string]string
	Timeout time.Duration
	Debug   bool
}

// NewRunner loads the optional profiles and publishers files and opens the cookie store.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r := &Runner{cfg: cfg, log: log}

	if cfg.ProfilesFile != "" {
		reg, err := profiles.LoadRegistry(cfg.ProfilesFile)
		if err != nil {
			return nil, fmt.Errorf("load profiles registry: %w", err)
		}
		ids := make([]string, 0)
		for _, p := range reg.All() {
			ids = append(ids, p.ID)
		}
		log.InfoObj("profiles registry loaded", "profiles_meta", map[string]any{
			"count": len(ids),
			"ids":   ids,
		})
		r.profiles = reg
	}

	if cfg.PublishersFile != "" {
		fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
		if err != nil {
			return nil, err
		}
		r.fanout = fanout
	}

	jar, err := cookiestore.Open(cfg.CookieStoreType, cfg.CookieDBPath, cookiestore.Options{
		SessionTTL:      cfg.CookieSessionTTL,
		CleanupInterval: cfg.CookieCleanupInterval,
	})
	if err != nil {
		r.closeFanout()
		return nil, fmt.Errorf("init cookie store: %w", err)
	}
	r.jar = jar
	log.InfoObj("cookie store initialized", "cookie_store", map[string]any{
		"type":                     cfg.CookieStoreType,
		"path":                     cfg.CookieDBPath,
		"session_ttl_seconds":      int(cfg.CookieSessionTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.CookieCleanupInterval.Seconds()),
	})

	return r, nil
}

func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, p := range enabled {
		summaries = append(summaries, map[string]string{"id": p.ID, "type": p.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

// Client builds a RequestClient for the selected profile with opts applied.
func (r *Runner) Client(opts ClientOptions) (*httpclient.RequestClient, error) {
	if r == nil {
		return nil, fmt.Errorf("runner is not initialized")
	}

	cfg, err := r.profileConfig(opts.Profile)
	if err != nil {
		return nil, err
	}

	if base := strings.TrimSpace(opts.BaseURI); base != "" {
		cfg.BaseURI = base
	}
	if len(opts.Headers) > 0 {
		cfg.Headers = httpclient.MergeHeaders(cfg.Headers, opts.Headers)
	}
	if opts.Timeout != 0 {
		cfg.Timeout = opts.Timeout
	}
	cfg.Debug = cfg.Debug || opts.Debug

	if r.jar != nil && cookiesEnabled(r.cfg.CookieStoreType) {
		cfg.Cookies = r.jar
	}
	if r.fanout.Size() > 0 {
		cfg.Recorder = publishers.NewRecorder(r.fanout, r.log)
	}
	cfg.Logger = r.clientLogger(cfg.Debug)

	return httpclient.New(cfg)
}

// clientLogger picks resty's log sink. Debug dumps go through a logger that
// is not filtered by LOG_LEVEL, otherwise --debug would print nothing.
func (r *Runner) clientLogger(debug bool) httpclient.Logger {
	if z, ok := r.log.(*logger.Zap); ok && debug {
		return z.WireLogger()
	}
	if dl, ok := r.log.(httpclient.Logger); ok {
		return dl
	}
	return nil
}

// cookiesEnabled reports whether typ keeps cookies at all; "memory" keeps
// them for the process lifetime only.
func cookiesEnabled(typ string) bool {
	switch typ {
	case "", "none", "disabled":
		return false
	}
	return true
}

func (r *Runner) profileConfig(id string) (httpclient.Config, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = r.cfg.DefaultProfile
	}
	if id == "" {
		return httpclient.Config{}, nil
	}
	if r.profiles == nil {
		return httpclient.Config{}, fmt.Errorf("profile %q requested but no profiles file is configured", id)
	}
	p, ok := r.profiles.ByID(id)
	if !ok {
		return httpclient.Config{}, fmt.Errorf("unknown profile %q", id)
	}
	return p.ClientConfig(), nil
}

// Call dispatches method to the matching verb on client.
func Call(ctx context.Context, client httpclient.Requester, method, endpoint string, query map[string]string, body any, headers map[string]string) httpclient.Result {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		return client.Get(ctx, endpoint, query, headers)
	case http.MethodPost:
		return client.Post(ctx, endpoint, body, headers)
	case http.MethodPut:
		return client.Put(ctx, endpoint, body, headers)
	case http.MethodPatch:
		return client.Patch(ctx, endpoint, body, headers)
	case http.MethodDelete:
		return client.Delete(ctx, endpoint, body, headers)
	default:
		msg := fmt.Sprintf("unsupported method %q", method)
		return httpclient.Result{
			Outcome: httpclient.OutcomeInvalidRequest,
			Message: msg,
			Err:     errors.New(msg),
		}
	}
}

// Close flushes the cookie store and releases publisher connections.
func (r *Runner) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.jar != nil {
		if err := r.jar.Err(); err != nil {
			errs = append(errs, fmt.Errorf("cookie persistence: %w", err))
		}
		if err := r.jar.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cookie store: %w", err))
		}
	}
	if err := r.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (r *Runner) closeFanout() {
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publisher close failed", "error", err.Error())
	}
}
