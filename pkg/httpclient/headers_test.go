package httpclient

import (
	"reflect"
	"testing"
)

func TestMergeHeadersOverridesWinAndInputsUntouched(t *testing.T) {
	defaults := map[string]string{"Content-Type": "application/json", "Accept": "application/json"}
	overrides := map[string]string{"accept": "text/csv", "x-trace-id": "t1", " ": "dropped"}

	got := MergeHeaders(defaults, overrides)
	want := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "text/csv",
		"X-Trace-Id":   "t1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MergeHeaders = %#v, want %#v", got, want)
	}
	if defaults["Accept"] != "application/json" || len(defaults) != 2 {
		t.Fatalf("defaults mutated: %#v", defaults)
	}
	if _, ok := overrides["Accept"]; ok {
		t.Fatalf("overrides mutated: %#v", overrides)
	}
}

func TestMergeHeadersNilInputs(t *testing.T) {
	if got := MergeHeaders(nil, nil); got == nil || len(got) != 0 {
		t.Fatalf("MergeHeaders(nil, nil) = %#v, want empty map", got)
	}
}

func TestIsEmptyBody(t *testing.T) {
	var nilMap map[string]any
	var nilPtr *struct{}
	cases := []struct {
		body any
		want bool
	}{
		{nil, true},
		{nilMap, true},
		{map[string]any{}, true},
		{[]int{}, true},
		{"", true},
		{nilPtr, true},
		{map[string]any{"a": 1}, false},
		{[]int{1}, false},
		{struct{}{}, false},
		{false, true},
		{0, true},
		{0.0, true},
		{uint8(0), true},
		{"0", true},
		{true, false},
		{-1, false},
		{"00", false},
	}
	for i, tc := range cases {
		if got := isEmptyBody(tc.body); got != tc.want {
			t.Errorf("case %d (%#v): isEmptyBody = %v, want %v", i, tc.body, got, tc.want)
		}
	}
}
