// Package gemini talks to the Gemini API through the genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/mru-labs/merchant-os/internal/infrastructure/circuitbreaker"
	"github.com/mru-labs/merchant-os/internal/observability/telemetry"
	"github.com/mru-labs/merchant-os/internal/ports"
)

var ErrEmptyReply = errors.New("gemini: reply has no text")

type Options struct {
	APIKey string
	Model  string
	// Endpoint overrides the API base URL. Tests point it at an httptest server.
	Endpoint string
	Timeout  time.Duration
}

type Client struct {
	genai   *genai.Client
	model   string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

var _ ports.TextGenerator = (*Client)(nil)

func NewClient(ctx context.Context, opts Options, breaker *gobreaker.CircuitBreaker, log *zap.Logger) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if opts.Model == "" {
		opts.Model = "gemini-1.5-flash"
	}

	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: opts.Timeout},
	}
	if opts.Endpoint != "" {
		cc.HTTPOptions.BaseURL = opts.Endpoint
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	return &Client{
		genai:   client,
		model:   opts.Model,
		timeout: opts.Timeout,
		breaker: breaker,
		log:     log,
	}, nil
}

// GenerateText sends prompt as a single user turn and joins the text parts of the first candidate.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "gemini.GenerateContent")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.prompt_chars", len(prompt)),
	)

	call := func() (interface{}, error) {
		return c.generate(ctx, prompt)
	}

	var (
		out interface{}
		err error
	)
	if c.breaker != nil {
		out, err = c.breaker.Execute(call)
		err = circuitbreaker.Translate(err)
	} else {
		out, err = call()
	}

	if err != nil {
		telemetry.LLMRequestsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate failed")
		return "", err
	}
	telemetry.LLMRequestsTotal.WithLabelValues("ok").Inc()
	return out.(string), nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyReply
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", ErrEmptyReply
	}

	if resp.UsageMetadata != nil {
		c.log.Debug("Gemini usage",
			zap.String("model", c.model),
			zap.Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount),
			zap.Int32("reply_tokens", resp.UsageMetadata.CandidatesTokenCount),
		)
	}
	return sb.String(), nil
}
