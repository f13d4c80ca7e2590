package httpclient

import (
	"net/http"
	"reflect"
	"strings"
)

// MergeHeaders returns a new map holding defaults overlaid with overrides.
// Keys are canonicalized so overrides win regardless of case. Neither input is mutated.
func MergeHeaders(defaults, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		if key := canonicalKey(k); key != "" {
			out[key] = v
		}
	}
	for k, v := range overrides {
		if key := canonicalKey(k); key != "" {
			out[key] = v
		}
	}
	return out
}

func canonicalKey(k string) string {
	k = strings.TrimSpace(k)
	if k == "" {
		return ""
	}
	return http.CanonicalHeaderKey(k)
}

// isEmptyBody reports whether a DELETE payload should be omitted: nil, false,
// zero numbers, "" and "0", and empty maps, slices and arrays.
func isEmptyBody(body any) bool {
	if body == nil {
		return true
	}
	v := reflect.ValueOf(body)
	switch v.Kind() {
	case reflect.String:
		return v.Len() == 0 || v.String() == "0"
	case reflect.Map, reflect.Slice, reflect.Array:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return v.IsZero()
	}
	return false
}
