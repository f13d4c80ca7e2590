package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// parseHeaders turns repeated "Key: Value" flags into a map.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, h := range raw {
		key, val, ok := strings.Cut(h, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q (expected \"Key: Value\")", h)
		}
		out[key] = strings.TrimSpace(val)
	}
	return out, nil
}

// parseQuery turns repeated "key=value" flags into a map.
func parseQuery(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, q := range raw {
		key, val, ok := strings.Cut(q, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid query parameter %q (expected key=value)", q)
		}
		out[strings.TrimSpace(key)] = val
	}
	return out, nil
}

// parseBody decodes inline JSON or, with a leading '@', JSON read from a file.
func parseBody(data string) (any, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, nil
	}

	raw := []byte(data)
	if path, ok := strings.CutPrefix(data, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read body file: %w", err)
		}
		raw = b
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("body is not valid JSON: %w", err)
	}
	return body, nil
}
