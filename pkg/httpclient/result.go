package httpclient

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Outcome tags how a call ended.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomeHTTPError is a received response with status >= 400 while HTTPErrors is on.
	OutcomeHTTPError
	// OutcomeTransport means no response was obtained (DNS, refused, TLS, ...).
	OutcomeTransport
	// OutcomeTimeout is a transport failure caused by a deadline.
	OutcomeTimeout
	// OutcomeInvalidRequest means the request could not be built (body encoding).
	OutcomeInvalidRequest
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeHTTPError:
		return "http_error"
	case OutcomeTransport:
		return "transport"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Result is the value every verb returns.
type Result struct {
	Outcome Outcome
	// Code is the HTTP status, 0 when no response was received.
	Code   int
	Body   any
	Raw    []byte
	Header http.Header
	// Message describes a failure; empty on success.
	Message string
	Err     error
}

// NormalizedResponse is the legacy success shape.
type NormalizedResponse struct {
	Code int `json:"code"`
	Body any `json:"body"`
}

// NormalizedError is the legacy shape for failures without a response.
type NormalizedError struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// OK reports a successful exchange.
func (r Result) OK() bool { return r.Outcome == OutcomeSuccess }

// Failed reports any non-success outcome.
func (r Result) Failed() bool { return r.Outcome != OutcomeSuccess }

// HasResponse reports whether a response was received.
func (r Result) HasResponse() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomeHTTPError
}

// Normalized returns the loosely-shaped value older callers expect:
// NormalizedResponse on success, the decoded error body itself on HTTP
// failures, and NormalizedError when no response was received.
func (r Result) Normalized() any {
	switch r.Outcome {
	case OutcomeSuccess:
		return NormalizedResponse{Code: r.Code, Body: r.Body}
	case OutcomeHTTPError:
		return r.Body
	default:
		return NormalizedError{Error: true, Message: r.Message}
	}
}

var errNoBody = errors.New("result has no response body")

// Decode unmarshals the raw response body into v.
func (r Result) Decode(v any) error {
	if len(r.Raw) == 0 {
		return errNoBody
	}
	return json.Unmarshal(r.Raw, v)
}

// DecodeBody decodes the raw response body into a T.
func DecodeBody[T any](r Result) (T, error) {
	var out T
	err := r.Decode(&out)
	return out, err
}

// Exchange summarizes one completed call for a Recorder.
type Exchange struct {
	Method     string
	URL        string
	StatusCode int
	Outcome    Outcome
	Message    string
	StartedAt  time.Time
	Duration   time.Duration
}

func decodeJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
