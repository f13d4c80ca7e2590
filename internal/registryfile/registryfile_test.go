package registryfile

import (
	"os"
	"path/filepath"
	"testing"
)

type entries struct {
	Items []struct {
		ID string `json:"id" yaml:"id"`
	} `json:"items" yaml:"items"`
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"r.yaml": "items:\n  - id: a\n",
		"r.yml":  "items:\n  - id: a\n",
		"r.json": `{"items":[{"id":"a"}]}`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		var out entries
		if err := Load(path, "items", &out); err != nil {
			t.Fatalf("Load %s: %v", name, err)
		}
		if len(out.Items) != 1 || out.Items[0].ID != "a" {
			t.Fatalf("%s decoded %#v", name, out)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	var out entries
	if err := Decode([]byte("{"), ".json", "items", &out); err == nil {
		t.Fatalf("expected decode error")
	}
	if err := Decode([]byte("items: []"), ".toml", "items", &out); err == nil {
		t.Fatalf("expected unrecognized format error")
	}
	if err := Decode([]byte(`{"items":[{"id":"b"}]}`), "", "items", &out); err != nil || out.Items[0].ID != "b" {
		t.Fatalf("extension-less decode: %#v, %v", out, err)
	}
	if err := Load(" ", "items", &out); err == nil {
		t.Fatalf("expected empty path error")
	}
}
