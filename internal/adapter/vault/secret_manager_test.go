package vault

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/pkg/config"
)

func newVaultServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/secret/data/merchant-os" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("X-Vault-Token") != "root" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"data":{"jwt_secret":"from-vault","gemini_api_key":"g-vault"},"metadata":{"version":1}}}`))
	}))
}

func TestGetSecret(t *testing.T) {
	srv := newVaultServer(t)
	defer srv.Close()

	sm, err := NewSecretManager(config.VaultConfig{Address: srv.URL, Token: "root", Path: "secret/data/merchant-os"}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSecretManager() error = %v", err)
	}

	got, err := sm.GetSecret(context.Background(), "jwt_secret")
	if err != nil || got != "from-vault" {
		t.Errorf("GetSecret() = %q, %v", got, err)
	}
	if _, err := sm.GetSecret(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestResolveKeepsExplicitValues(t *testing.T) {
	srv := newVaultServer(t)
	defer srv.Close()
	sm, _ := NewSecretManager(config.VaultConfig{Address: srv.URL, Token: "root", Path: "secret/data/merchant-os"}, zap.NewNop())

	cfg := &config.Config{}
	cfg.Gemini.APIKey = "explicit"

	if err := Resolve(context.Background(), sm, cfg, zap.NewNop()); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.JWT.Secret != "from-vault" {
		t.Errorf("JWT.Secret = %q", cfg.JWT.Secret)
	}
	if cfg.Gemini.APIKey != "explicit" {
		t.Errorf("Gemini.APIKey overwritten: %q", cfg.Gemini.APIKey)
	}
}

func TestResolveRequiresJWTSecret(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	sm, _ := NewSecretManager(config.VaultConfig{Address: srv.URL, Token: "root", Path: "secret/data/merchant-os"}, zap.NewNop())

	if err := Resolve(context.Background(), sm, &config.Config{}, zap.NewNop()); err == nil {
		t.Error("expected error when jwt secret is nowhere")
	}
}
