package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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

const (
	MinTranscriptLength = 5

	ErrTranscriptTooShort = "Transcript too short"
	ErrParseFailed        = "Failed to parse transaction"
)

const parsePrompt = `Extract transaction details from the following voice transcript spoken by a merchant in Guinea/Liberia.
Return ONLY a JSON object. Do not include markdown formatting like ` + "```json" + `.

Transcript: "%s"

JSON Structure:
{
  "type": "sale" | "expense" | "stock_in" | "stock_out", (Default to "sale" if ambiguous)
  "item": string (e.g. "3 bags of rice"),
  "amount": string (e.g. "LRD 15,000" or "15000 GNF". Keep original currency if spoken),
  "customer": string (optional, name of person),
  "quantity": string (optional),
  "currency": string (optional, "GNF" or "LRD")
}`

// TranscriptParser turns speech transcripts into transaction drafts with one model call.
type TranscriptParser struct {
	llm    ports.TextGenerator
	strict bool
	log    *zap.Logger
}

// NewTranscriptParser builds a parser. With strict set, drafts missing item or amount,
// or carrying an unknown type, are rejected.
func NewTranscriptParser(llm ports.TextGenerator, strict bool, log *zap.Logger) *TranscriptParser {
	return &TranscriptParser{
		llm:    llm,
		strict: strict,
		log:    log,
	}
}

// BuildPrompt returns the instruction prompt sent for transcript.
func BuildPrompt(transcript string) string {
	return fmt.Sprintf(parsePrompt, transcript)
}

// ParseTransaction never returns raw errors: failures come back as ParseResult.Error.
func (p *TranscriptParser) ParseTransaction(ctx context.Context, transcript string) domain.ParseResult {
	if utf8.RuneCountInString(strings.TrimSpace(transcript)) < MinTranscriptLength {
		return domain.ParseResult{Error: ErrTranscriptTooShort}
	}

	start := time.Now()
	draft, err := p.parse(ctx, transcript)
	telemetry.VoiceParseLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		telemetry.VoiceParseTotal.WithLabelValues("error").Inc()
		p.log.Error("Gemini parse error",
			zap.Error(err),
			zap.Int("transcript_length", len(transcript)),
		)
		return domain.ParseResult{Error: ErrParseFailed}
	}

	telemetry.VoiceParseTotal.WithLabelValues("ok").Inc()
	return domain.ParseResult{Data: draft}
}

func (p *TranscriptParser) parse(ctx context.Context, transcript string) (*domain.TransactionDraft, error) {
	if p.llm == nil {
		return nil, errors.New("no language model configured")
	}

	text, err := p.llm.GenerateText(ctx, BuildPrompt(transcript))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	if !p.strict {
		return lenientDraft(text)
	}

	var draft domain.TransactionDraft
	if err := llmjson.Unmarshal(text, &draft); err != nil {
		return nil, err
	}
	if err := validateDraft(&draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// lenientDraft accepts any JSON object. Known fields of any JSON type are projected to text;
// strings keep their value, null becomes empty, everything else keeps its JSON form.
func lenientDraft(text string) (*domain.TransactionDraft, error) {
	var fields map[string]json.RawMessage
	if err := llmjson.Unmarshal(text, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: reply is null", domain.ErrInvalidInput)
	}

	return &domain.TransactionDraft{
		Type:     domain.DraftType(rawText(fields["type"])),
		Item:     rawText(fields["item"]),
		Amount:   domain.FlexString(rawText(fields["amount"])),
		Customer: rawText(fields["customer"]),
		Quantity: domain.FlexString(rawText(fields["quantity"])),
		Currency: rawText(fields["currency"]),
	}, nil
}

func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func validateDraft(d *domain.TransactionDraft) error {
	if d.Type != "" && !d.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", domain.ErrInvalidInput, d.Type)
	}
	if strings.TrimSpace(d.Item) == "" {
		return fmt.Errorf("%w: missing item", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(d.Amount.String()) == "" {
		return fmt.Errorf("%w: missing amount", domain.ErrInvalidInput)
	}
	return nil
}
