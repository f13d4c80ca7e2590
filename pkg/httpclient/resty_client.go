package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"maps"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// RequestClient adapts resty.Client to JSON verb helpers returning a Result.
// It is immutable after New and safe for concurrent use.
type RequestClient struct {
	client         *resty.Client
	baseURL        string
	defaultHeaders map[string]string
	httpErrors     bool
	maxRedirects   int
	recorder       Recorder
}

// requestOptions carries the per-call pieces handed to send.
type requestOptions struct {
	query   map[string]string
	body    any
	hasBody bool
	headers map[string]string
}

// New builds a RequestClient from cfg, applying defaults first.
func New(cfg Config) (*RequestClient, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("httpclient config: %w", err)
	}

	headers := MergeHeaders(DefaultHeaders(), cfg.Headers)

	client, err := newRestyBaseClient(cfg, headers)
	if err != nil {
		return nil, err
	}

	return &RequestClient{
		client:         client,
		baseURL:        cfg.BaseURI,
		defaultHeaders: headers,
		httpErrors:     cfg.HTTPErrorsValue(),
		maxRedirects:   redirectLimit(cfg),
		recorder:       cfg.Recorder,
	}, nil
}

// newRestyBaseClient passes every construction option through to resty.
func newRestyBaseClient(cfg Config, headers map[string]string) (*resty.Client, error) {
	c := resty.New()

	// Transport first: proxy and TLS settings below mutate it in place.
	c.SetTransport(newTransport(cfg.ConnectTimeout))

	if cfg.Logger != nil {
		c.SetLogger(cfg.Logger)
	}
	c.SetDebug(cfg.Debug)

	c.SetBaseURL(cfg.BaseURI)
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	c.SetHeaders(headers)

	// resty installs an in-memory jar by default; cookies are opt-in here.
	c.SetCookieJar(cfg.Cookies)

	if cfg.Proxy != "" {
		c.SetProxy(cfg.Proxy)
	}

	tlsCfg, err := buildTLSConfig(cfg)
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		c.SetTLSClientConfig(tlsCfg)
	}

	// Stopping with ErrUseLastResponse keeps the final 3xx and its body;
	// normalize reports it as a too-many-redirects failure.
	limit := redirectLimit(cfg)
	c.SetRedirectPolicy(resty.RedirectPolicyFunc(func(_ *http.Request, via []*http.Request) error {
		if len(via) > limit {
			return http.ErrUseLastResponse
		}
		return nil
	}))

	if cfg.Auth != nil {
		switch cfg.Auth.Type {
		case AuthBasic:
			c.SetBasicAuth(cfg.Auth.Username, cfg.Auth.Password)
		case AuthDigest:
			c.SetDigestAuth(cfg.Auth.Username, cfg.Auth.Password)
		case AuthBearer:
			c.SetAuthToken(cfg.Auth.Token)
		}
	}

	return c, nil
}

// redirectLimit is the number of redirects followed; 0 disables following.
func redirectLimit(cfg Config) int {
	if !cfg.AllowRedirectsValue() {
		return 0
	}
	return cfg.MaxRedirects
}

// newTransport clones the default transport and applies the connect timeout to its dialer.
func newTransport(connectTimeout time.Duration) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if connectTimeout > 0 {
		d := &net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}
		t.DialContext = d.DialContext
		t.TLSHandshakeTimeout = connectTimeout
	}
	return t
}

func buildTLSConfig(cfg Config) (*tls.Config, error) {
	if !cfg.VerifyValue() {
		return &tls.Config{InsecureSkipVerify: true}, nil //nolint:gosec // explicitly requested via verify=false
	}
	if cfg.CAFile == "" {
		return nil, nil
	}

	pem, err := os.ReadFile(cfg.CAFile)
	if err != nil {
		return nil, fmt.Errorf("read ca_file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("ca_file %q contains no PEM certificates", cfg.CAFile)
	}
	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// BaseURL returns the resolved base URL ("" when unset).
func (r *RequestClient) BaseURL() string { return r.baseURL }

// DefaultHeaders returns a copy of the headers applied to every request.
func (r *RequestClient) DefaultHeaders() map[string]string {
	return maps.Clone(r.defaultHeaders)
}

// Resty exposes the configured resty.Client for callers needing custom verbs.
func (r *RequestClient) Resty() *resty.Client { return r.client }

// Get issues a GET with query parameters built from query.
func (r *RequestClient) Get(ctx context.Context, endpoint string, query, headers map[string]string) Result {
	return r.send(ctx, http.MethodGet, endpoint, requestOptions{
		query:   query,
		headers: r.setHeaders(headers),
	})
}

// Post issues a POST with a JSON-encoded body.
func (r *RequestClient) Post(ctx context.Context, endpoint string, body any, headers map[string]string) Result {
	return r.sendJSON(ctx, http.MethodPost, endpoint, body, headers)
}

// Put issues a PUT with a JSON-encoded body.
func (r *RequestClient) Put(ctx context.Context, endpoint string, body any, headers map[string]string) Result {
	return r.sendJSON(ctx, http.MethodPut, endpoint, body, headers)
}

// Patch issues a PATCH with a JSON-encoded body.
func (r *RequestClient) Patch(ctx context.Context, endpoint string, body any, headers map[string]string) Result {
	return r.sendJSON(ctx, http.MethodPatch, endpoint, body, headers)
}

// Delete issues a DELETE. The JSON body is only sent when body is non-empty.
func (r *RequestClient) Delete(ctx context.Context, endpoint string, body any, headers map[string]string) Result {
	opts := requestOptions{headers: r.setHeaders(headers)}
	if !isEmptyBody(body) {
		opts.body = body
		opts.hasBody = true
	}
	return r.send(ctx, http.MethodDelete, endpoint, opts)
}

func (r *RequestClient) sendJSON(ctx context.Context, method, endpoint string, body any, headers map[string]string) Result {
	if body == nil {
		body = map[string]any{}
	}
	return r.send(ctx, method, endpoint, requestOptions{
		body:    body,
		hasBody: true,
		headers: r.setHeaders(headers),
	})
}

func (r *RequestClient) setHeaders(custom map[string]string) map[string]string {
	return MergeHeaders(r.defaultHeaders, custom)
}

// send performs a single attempt and records the exchange.
func (r *RequestClient) send(ctx context.Context, method, endpoint string, opts requestOptions) Result {
	if ctx == nil {
		ctx = context.Background()
	}

	started := time.Now()
	res, url := r.execute(ctx, method, endpoint, opts)

	if r.recorder != nil {
		r.recorder.Record(ctx, Exchange{
			Method:     method,
			URL:        url,
			StatusCode: res.Code,
			Outcome:    res.Outcome,
			Message:    res.Message,
			StartedAt:  started.UTC(),
			Duration:   time.Since(started),
		})
	}
	return res
}

func (r *RequestClient) execute(ctx context.Context, method, endpoint string, opts requestOptions) (Result, string) {
	req := r.client.R().
		SetContext(ctx).
		SetHeaders(opts.headers)

	if len(opts.query) > 0 {
		req.SetQueryParams(opts.query)
	}

	if opts.hasBody {
		payload, err := json.Marshal(opts.body)
		if err != nil {
			return Result{
				Outcome: OutcomeInvalidRequest,
				Message: err.Error(),
				Err:     fmt.Errorf("%w: %w", ErrEncodeBody, err),
			}, r.baseURL + endpoint
		}
		req.SetBody(payload)
	}

	resp, err := req.Execute(method, endpoint)
	if err != nil {
		return transportFailure(err), req.URL
	}
	return r.normalize(resp), req.URL
}

func (r *RequestClient) normalize(resp *resty.Response) Result {
	raw := resp.Body()
	res := Result{
		Outcome: OutcomeSuccess,
		Code:    resp.StatusCode(),
		Body:    decodeJSON(raw),
		Raw:     raw,
		Header:  resp.Header(),
	}

	if r.maxRedirects > 0 && isRedirect(res.Code) && res.Header.Get("Location") != "" {
		res.Outcome = OutcomeHTTPError
		res.Message = fmt.Sprintf("too many redirects (limit %d): %s", r.maxRedirects,
			describeFailure(res.Code, res.Header, raw, res.Body))
		res.Err = fmt.Errorf("%w: limit %d", ErrTooManyRedirects, r.maxRedirects)
		return res
	}

	if r.httpErrors && resp.IsError() {
		res.Outcome = OutcomeHTTPError
		res.Message = describeFailure(res.Code, res.Header, raw, res.Body)
		res.Err = fmt.Errorf("%w: %d", ErrHTTPStatus, res.Code)
	}
	return res
}

// isRedirect lists the statuses net/http follows.
func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func transportFailure(err error) Result {
	msg := err.Error()
	if msg == "" {
		msg = "request failed"
	}

	if isTimeout(err) {
		return Result{
			Outcome: OutcomeTimeout,
			Message: msg,
			Err:     fmt.Errorf("%w: %w", ErrTimeout, err),
		}
	}
	return Result{
		Outcome: OutcomeTransport,
		Message: msg,
		Err:     fmt.Errorf("%w: %w", ErrRequestFailed, err),
	}
}
