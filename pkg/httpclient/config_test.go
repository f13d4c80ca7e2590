package httpclient

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	cfg := Config{BaseURI: "  https://x.test  ", Auth: &AuthConfig{Type: " Basic ", Username: "u"}}
	cfg.ApplyDefaults()

	if cfg.BaseURI != "https://x.test" {
		t.Fatalf("BaseURI = %q", cfg.BaseURI)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("Timeout = %v", cfg.Timeout)
	}
	if !cfg.VerifyValue() || !cfg.AllowRedirectsValue() || !cfg.HTTPErrorsValue() {
		t.Fatalf("flag defaults wrong: %#v", cfg)
	}
	if cfg.MaxRedirects != DefaultMaxRedirects {
		t.Fatalf("MaxRedirects = %d", cfg.MaxRedirects)
	}
	if cfg.Debug {
		t.Fatalf("Debug should default to false")
	}
	if cfg.Auth.Type != AuthBasic {
		t.Fatalf("auth type not normalized: %q", cfg.Auth.Type)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestApplyDefaultsKeepsExplicitFlags(t *testing.T) {
	cfg := Config{Verify: Bool(false), AllowRedirects: Bool(false), HTTPErrors: Bool(false), Timeout: -1}
	cfg.ApplyDefaults()

	if cfg.VerifyValue() || cfg.AllowRedirectsValue() || cfg.HTTPErrorsValue() {
		t.Fatalf("explicit false flags overwritten: %#v", cfg)
	}
	if cfg.Timeout != -1 {
		t.Fatalf("negative timeout should be kept to disable the deadline, got %v", cfg.Timeout)
	}
}

func TestValidateAuth(t *testing.T) {
	bad := []*AuthConfig{
		{Type: AuthBasic},
		{Type: AuthBearer},
		{Type: "kerberos", Username: "u"},
	}
	for _, a := range bad {
		cfg := Config{Auth: a}
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for %#v", a)
		}
	}
}
