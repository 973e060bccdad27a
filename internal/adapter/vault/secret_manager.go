package vault

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/ports"
	"github.com/mru-labs/merchant-os/pkg/config"
)

// SecretManager reads string secrets from one KV v2 path.
type SecretManager struct {
	client *api.Client
	path   string
	log    *zap.Logger
}

var _ ports.SecretProvider = (*SecretManager)(nil)

func NewSecretManager(cfg config.VaultConfig, log *zap.Logger) (*SecretManager, error) {
	vcfg := api.DefaultConfig()
	vcfg.Address = cfg.Address

	client, err := api.NewClient(vcfg)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	return &SecretManager{client: client, path: cfg.Path, log: log}, nil
}

func (sm *SecretManager) GetSecret(ctx context.Context, key string) (string, error) {
	secret, err := sm.client.Logical().ReadWithContext(ctx, sm.path)
	if err != nil {
		return "", fmt.Errorf("vault read %s: %w", sm.path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault: no secret at %s", sm.path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("vault: %s is not a kv v2 secret", sm.path)
	}
	val, ok := data[key].(string)
	if !ok || val == "" {
		return "", fmt.Errorf("vault: key %q missing at %s", key, sm.path)
	}
	return val, nil
}

// Resolve fills secret settings left empty in cfg. Keys absent from the store are skipped.
func Resolve(ctx context.Context, secrets ports.SecretProvider, cfg *config.Config, log *zap.Logger) error {
	targets := []struct {
		key string
		dst *string
	}{
		{"jwt_secret", &cfg.JWT.Secret},
		{"database_url", &cfg.Database.URL},
		{"gemini_api_key", &cfg.Gemini.APIKey},
		{"stripe_secret_key", &cfg.Payment.Stripe.SecretKey},
		{"sendgrid_api_key", &cfg.Notification.Email.APIKey},
	}

	resolved := 0
	for _, t := range targets {
		if *t.dst != "" {
			continue
		}
		val, err := secrets.GetSecret(ctx, t.key)
		if err != nil {
			log.Debug("Secret not resolved from vault", zap.String("key", t.key), zap.Error(err))
			continue
		}
		*t.dst = val
		resolved++
	}

	if cfg.JWT.Secret == "" {
		return fmt.Errorf("jwt secret not found in config or vault")
	}
	log.Info("Secrets resolved from vault", zap.Int("count", resolved))
	return nil
}
