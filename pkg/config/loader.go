package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads .env (if present), config.yaml and the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AddConfigPath("/app/configs")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	v.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	v.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	v.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	v.BindEnv("queue.nats.url", "NATS_URL", "APP_QUEUE_NATS_URL")
	v.BindEnv("queue.rabbitmq.url", "RABBITMQ_URL", "APP_QUEUE_RABBITMQ_URL")
	v.BindEnv("jwt.secret", "JWT_SECRET", "APP_JWT_SECRET")
	v.BindEnv("gemini.api_key", "GOOGLE_API_KEY", "GEMINI_API_KEY", "APP_GEMINI_API_KEY")
	v.BindEnv("payment.stripe.secret_key", "STRIPE_SECRET_KEY")
	v.BindEnv("payment.stripe.webhook_secret", "STRIPE_WEBHOOK_SECRET")
	v.BindEnv("notification.email.api_key", "SENDGRID_API_KEY")
	v.BindEnv("vault.token", "VAULT_TOKEN")
	v.BindEnv("vault.address", "VAULT_ADDR")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("logging.level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "merchant-os")
	v.SetDefault("app.version", "v1.0.0")
	v.SetDefault("app.environment", "production")

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.body_limit", 4*1024*1024)

	v.SetDefault("grpc.enabled", true)
	v.SetDefault("grpc.port", 9090)

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 10*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("queue.driver", "nats")
	v.SetDefault("queue.nats.url", "nats://localhost:4222")
	v.SetDefault("queue.nats.max_reconnects", 10)
	v.SetDefault("queue.nats.reconnect_wait", 2*time.Second)
	v.SetDefault("queue.rabbitmq.exchange", "merchant.events")

	v.SetDefault("jwt.access_token_duration", 15*time.Minute)
	v.SetDefault("jwt.refresh_token_duration", 7*24*time.Hour)
	v.SetDefault("jwt.issuer", "merchant-os")

	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.timeout", 30*time.Second)

	v.SetDefault("voice.strict_schema", true)
	v.SetDefault("voice.default_locale", "en")
	v.SetDefault("voice.default_currency", "LRD")

	v.SetDefault("ledger.vat_rate", 0.07)
	v.SetDefault("ledger.timezone", "Africa/Monrovia")

	v.SetDefault("opentelemetry.service_name", "merchant-os")
	v.SetDefault("opentelemetry.jaeger.endpoint", "http://jaeger:14268/api/traces")

	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.path", "/metrics")

	v.SetDefault("logging.level", "info")

	v.SetDefault("circuit_breaker.enabled", true)
	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", 60*time.Second)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.failure_threshold", 0.6)
	v.SetDefault("circuit_breaker.min_requests", 5)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "Accept-Language"})
	v.SetDefault("cors.max_age", 3600)

	v.SetDefault("vault.path", "secret/data/merchant-os")

	v.SetDefault("payment.stripe.currency", "usd")

	v.SetDefault("notification.email.provider", "sendgrid")
	v.SetDefault("notification.email.from", "no-reply@mru.africa")
	v.SetDefault("notification.email.from_name", "MRU Merchant")

	v.SetDefault("cache.ledger_view_ttl", 5*time.Minute)
	v.SetDefault("cache.voice_session_ttl", 30*time.Minute)
	v.SetDefault("cache.insight_ttl", 30*24*time.Hour)
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http.port %d", c.HTTP.Port)
	}
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.JWT.Secret == "" && !c.Vault.Enabled {
		return errors.New("jwt.secret is required when vault is disabled")
	}
	switch c.Queue.Driver {
	case "nats", "rabbitmq", "none":
	default:
		return fmt.Errorf("unsupported queue.driver %q", c.Queue.Driver)
	}
	if c.Ledger.VATRate < 0 || c.Ledger.VATRate >= 1 {
		return fmt.Errorf("ledger.vat_rate must be in [0,1), got %v", c.Ledger.VATRate)
	}
	if c.Ledger.ReferenceDate != "" {
		if _, err := time.Parse("2006-01-02", c.Ledger.ReferenceDate); err != nil {
			return fmt.Errorf("invalid ledger.reference_date: %w", err)
		}
	}
	return nil
}
