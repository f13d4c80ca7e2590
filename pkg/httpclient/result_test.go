package httpclient

import (
	"reflect"
	"testing"
)

func TestNormalizedShapes(t *testing.T) {
	ok := Result{Outcome: OutcomeSuccess, Code: 200, Body: map[string]any{"a": 1.0}}
	if got := ok.Normalized(); !reflect.DeepEqual(got, NormalizedResponse{Code: 200, Body: map[string]any{"a": 1.0}}) {
		t.Fatalf("success Normalized = %#v", got)
	}

	httpErr := Result{Outcome: OutcomeHTTPError, Code: 422, Body: map[string]any{"field": "name"}}
	if got := httpErr.Normalized(); !reflect.DeepEqual(got, map[string]any{"field": "name"}) {
		t.Fatalf("http error Normalized = %#v", got)
	}

	for _, o := range []Outcome{OutcomeTransport, OutcomeTimeout, OutcomeInvalidRequest} {
		r := Result{Outcome: o, Message: "dial tcp: refused"}
		if got := r.Normalized(); got != (NormalizedError{Error: true, Message: "dial tcp: refused"}) {
			t.Fatalf("%v Normalized = %#v", o, got)
		}
		if r.OK() || !r.Failed() || r.HasResponse() {
			t.Fatalf("%v predicates wrong", o)
		}
	}
}

func TestDecodeBody(t *testing.T) {
	type user struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	r := Result{Outcome: OutcomeSuccess, Code: 200, Raw: []byte(`{"id":7,"name":"a"}`)}

	got, err := DecodeBody[user](r)
	if err != nil {
		t.Fatalf("DecodeBody: %v", err)
	}
	if got != (user{ID: 7, Name: "a"}) {
		t.Fatalf("DecodeBody = %#v", got)
	}

	if _, err := DecodeBody[user](Result{}); err == nil {
		t.Fatalf("expected error decoding empty result")
	}
}

func TestOutcomeString(t *testing.T) {
	if OutcomeHTTPError.String() != "http_error" || Outcome(99).String() != "unknown" {
		t.Fatalf("unexpected outcome names")
	}
}
