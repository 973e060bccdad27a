package store

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/observability/telemetry"
	"github.com/mru-labs/merchant-os/internal/ports"
	"github.com/mru-labs/merchant-os/pkg/llmjson"
)

const MinDescriptionLength = 10

const generatePrompt = `You are an expert E-commerce Architect.
Generate a JSON configuration for a retail store based on the user's description.

Output JSON Format:
{
  "storeName": "string",
  "hero": {
    "title": "string",
    "subtitle": "string",
    "ctaText": "string"
  },
  "products": [
    { "name": "string", "description": "string", "price": number, "currency": "XAF" }
  ]
}

User Request: %s`

// MockStore is served when no language model is configured.
func MockStore() *domain.StoreConfig {
	return &domain.StoreConfig{
		StoreName: "Mock Store (No API Key)",
		Hero: domain.StoreHero{
			Title:    "Set Your API Key",
			Subtitle: "To generate real stores.",
			CTAText:  "Fix Config",
			CTALink:  "#",
		},
		Products: []domain.StoreProduct{},
	}
}

type Generator struct {
	llm ports.TextGenerator
	log *zap.Logger
}

// NewGenerator accepts a nil llm, in which case Generate returns MockStore.
func NewGenerator(llm ports.TextGenerator, log *zap.Logger) ports.StoreGenerator {
	return &Generator{llm: llm, log: log}
}

func (g *Generator) Generate(ctx context.Context, description string) (*domain.StoreConfig, error) {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) < MinDescriptionLength {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrDescriptionSize)
	}

	if g.llm == nil {
		g.log.Warn("No language model configured, returning mock store")
		return MockStore(), nil
	}

	start := time.Now()
	reply, err := g.llm.GenerateText(ctx, fmt.Sprintf(generatePrompt, description))
	telemetry.StoreGenerateLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		g.log.Error("Store generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	var cfg domain.StoreConfig
	if err := llmjson.Unmarshal(reply, &cfg); err != nil {
		g.log.Error("Store generation returned invalid JSON", zap.Error(err), zap.Int("reply_length", len(reply)))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if strings.TrimSpace(cfg.StoreName) == "" {
		return nil, fmt.Errorf("%w: generated store has no name", domain.ErrUpstream)
	}
	if cfg.Products == nil {
		cfg.Products = []domain.StoreProduct{}
	}

	g.log.Info("Store generated",
		zap.String("store_name", cfg.StoreName),
		zap.Int("products", len(cfg.Products)),
	)
	return &cfg, nil
}
