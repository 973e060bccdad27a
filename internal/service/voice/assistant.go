package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/observability/telemetry"
	"github.com/mru-labs/merchant-os/internal/ports"
	"github.com/mru-labs/merchant-os/internal/service/events"
)

type AssistantOptions struct {
	DefaultLocale   string
	DefaultCurrency string
	Clock           func() time.Time
}

// Assistant drives the idle → listening → processing → confirmed flow for each merchant.
type Assistant struct {
	parser   *TranscriptParser
	sessions *SessionStore
	ledger   ports.LedgerService
	catalog  ports.CatalogService
	wallet   ports.WalletService
	history  ports.VoiceTransactionRepository
	events   *events.Publisher
	opts     AssistantOptions
	log      *zap.Logger
}

func NewAssistant(
	parser *TranscriptParser,
	sessions *SessionStore,
	ledger ports.LedgerService,
	catalog ports.CatalogService,
	wallet ports.WalletService,
	history ports.VoiceTransactionRepository,
	publisher *events.Publisher,
	opts AssistantOptions,
	log *zap.Logger,
) ports.VoiceAssistant {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "LRD"
	}
	return &Assistant{
		parser:   parser,
		sessions: sessions,
		ledger:   ledger,
		catalog:  catalog,
		wallet:   wallet,
		history:  history,
		events:   publisher,
		opts:     opts,
		log:      log,
	}
}

func (a *Assistant) Copy(locale string) domain.VoiceCopySet {
	return GetVoiceCopy(locale)
}

func (a *Assistant) Session(ctx context.Context, merchantID string) (*domain.VoiceSession, error) {
	session, err := a.sessions.Get(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = a.newSession(merchantID, a.opts.DefaultLocale)
	}
	return session, nil
}

func (a *Assistant) StartListening(ctx context.Context, merchantID, locale string) (*domain.VoiceSession, error) {
	unlock := a.sessions.Lock(merchantID)
	defer unlock()

	session, err := a.Session(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if a.sessions.Parsing(merchantID) {
		return nil, fmt.Errorf("%w: transcript still processing", domain.ErrInvalidState)
	}

	if locale == "" {
		locale = string(session.Locale)
	}
	next := a.newSession(merchantID, locale)
	next.State = domain.VoiceStateListening
	return next, a.save(ctx, next)
}

// SubmitTranscript parses transcript. Parse failures return the session to idle with
// the user-facing message; they are not returned as errors.
// The merchant lock is released for the model call, so concurrent submits see the
// parse in flight and get ErrInvalidState instead of queueing behind it.
func (a *Assistant) SubmitTranscript(ctx context.Context, merchantID, transcript string) (*domain.VoiceSession, error) {
	session, err := a.beginSubmit(ctx, merchantID, transcript)
	if err != nil {
		return nil, err
	}

	result := a.parser.ParseTransaction(ctx, transcript)

	unlock := a.sessions.Lock(merchantID)
	defer unlock()
	defer a.sessions.endParse(merchantID)

	// The outcome is stored even when the caller has gone away.
	storeCtx := context.WithoutCancel(ctx)

	if !result.OK() {
		telemetry.VoiceCommandsTotal.WithLabelValues("unknown", "parse_failed").Inc()
		session.State = domain.VoiceStateIdle
		session.Message = result.Error
		return session, a.save(storeCtx, session)
	}

	summary := ToSummary(result.Data)
	action := ActionFor(summary.Type)
	session.State = domain.VoiceStateConfirmed
	session.Draft = result.Data
	session.Summary = &summary
	session.Confirmation = RenderConfirmation(string(session.Locale), action, TemplateValues(result.Data, a.opts.DefaultCurrency))
	session.Message = GetVoiceCopy(string(session.Locale)).TransactionReady

	telemetry.VoiceCommandsTotal.WithLabelValues(string(action), "parsed").Inc()
	return session, a.save(storeCtx, session)
}

// beginSubmit moves the session to processing and registers the parse as in flight.
func (a *Assistant) beginSubmit(ctx context.Context, merchantID, transcript string) (*domain.VoiceSession, error) {
	unlock := a.sessions.Lock(merchantID)
	defer unlock()

	session, err := a.Session(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if !a.sessions.beginParse(merchantID) {
		return nil, fmt.Errorf("%w: transcript already processing", domain.ErrInvalidState)
	}

	session.State = domain.VoiceStateProcessing
	session.Transcript = transcript
	session.Draft, session.Summary = nil, nil
	session.Confirmation, session.Message = "", ""
	if err := a.save(ctx, session); err != nil {
		a.sessions.endParse(merchantID)
		return nil, err
	}
	return session, nil
}

func (a *Assistant) Confirm(ctx context.Context, merchantID string) (*ports.VoiceConfirmation, error) {
	unlock := a.sessions.Lock(merchantID)
	defer unlock()

	session, err := a.Session(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if session.State != domain.VoiceStateConfirmed || session.Draft == nil {
		return nil, fmt.Errorf("%w: nothing to confirm", domain.ErrInvalidState)
	}

	draft := session.Draft
	summary := ToSummary(draft)
	action := ActionFor(summary.Type)

	amount, currency, err := ParseAmount(draft.Amount.String(), draft.Currency, a.opts.DefaultCurrency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	entry := &domain.LedgerEntry{
		MerchantID:  merchantID,
		Type:        EntryTypeFor(summary.Type),
		Description: describe(draft),
		Method:      voiceMethod,
		Currency:    currency,
	}
	if summary.Type == domain.SummarySale {
		entry.Amount = amount
		entry.Tax = a.ledger.VAT(amount)
	} else {
		entry.Amount = amount.Neg()
		entry.Tax = decimal.Zero
	}

	if err := a.ledger.Append(ctx, entry); err != nil {
		telemetry.VoiceCommandsTotal.WithLabelValues(string(action), "failed").Inc()
		return nil, fmt.Errorf("failed to record voice transaction: %w", err)
	}

	a.adjustStock(ctx, merchantID, draft)
	a.recordHistory(ctx, merchantID, session.Transcript, draft, entry.ID)

	a.events.Publish(domain.SubjectVoiceConfirmed, merchantID, map[string]interface{}{
		"entry_id": entry.ID,
		"summary":  summary,
	})
	telemetry.VoiceCommandsTotal.WithLabelValues(string(action), "confirmed").Inc()

	message := GetVoiceCopy(string(session.Locale)).Actions[action].Success
	next := a.newSession(merchantID, string(session.Locale))
	next.Message = message
	if err := a.save(ctx, next); err != nil {
		return nil, err
	}

	return &ports.VoiceConfirmation{Session: next, Entry: entry, Message: message}, nil
}

func (a *Assistant) Cancel(ctx context.Context, merchantID string) (*domain.VoiceSession, error) {
	unlock := a.sessions.Lock(merchantID)
	defer unlock()

	session, err := a.Session(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	action := domain.ActionSale
	if session.Draft != nil {
		action = ActionFor(SummaryTypeFor(session.Draft.Type))
	}
	telemetry.VoiceCommandsTotal.WithLabelValues(string(action), "cancelled").Inc()

	next := a.newSession(merchantID, string(session.Locale))
	next.Message = GetVoiceCopy(string(session.Locale)).Actions[action].Cancelled
	return next, a.save(ctx, next)
}

// CheckBalance renders the balance confirmation from the merchant's mobile-money floats.
func (a *Assistant) CheckBalance(ctx context.Context, merchantID string) (*domain.VoiceSession, error) {
	if a.wallet == nil {
		return nil, fmt.Errorf("%w: wallet not configured", domain.ErrUpstream)
	}
	overview, err := a.wallet.Overview(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	session, err := a.Session(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	locale := string(session.Locale)

	next := a.newSession(merchantID, locale)
	next.Confirmation = RenderConfirmation(locale, domain.ActionBalance, map[string]string{
		"currency": overview.Currency,
		"amount":   formatThousands(overview.TotalBalance),
	})
	next.Message = GetVoiceCopy(locale).Actions[domain.ActionBalance].Success
	telemetry.VoiceCommandsTotal.WithLabelValues(string(domain.ActionBalance), "confirmed").Inc()
	return next, nil
}

func (a *Assistant) History(ctx context.Context, merchantID string, limit int) ([]domain.VoiceTransaction, error) {
	if a.history == nil {
		return []domain.VoiceTransaction{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return a.history.FindByMerchant(ctx, merchantID, limit)
}

func (a *Assistant) adjustStock(ctx context.Context, merchantID string, draft *domain.TransactionDraft) {
	if a.catalog == nil {
		return
	}
	qty := draft.ParseQuantity()
	if qty <= 0 {
		return
	}

	var delta int
	switch draft.Type {
	case domain.DraftStockIn:
		delta = qty
	case domain.DraftStockOut, domain.DraftSale:
		delta = -qty
	default:
		return
	}

	_, err := a.catalog.AdjustStockByName(ctx, merchantID, draft.Item, delta)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		a.log.Warn("Failed to adjust stock from voice entry",
			zap.String("merchant_id", merchantID),
			zap.String("item", draft.Item),
			zap.Error(err),
		)
	}
}

func (a *Assistant) recordHistory(ctx context.Context, merchantID, transcript string, draft *domain.TransactionDraft, entryID string) {
	if a.history == nil {
		return
	}
	raw, err := json.Marshal(draft)
	if err != nil {
		return
	}
	vt := &domain.VoiceTransaction{
		ID:            uuid.New().String(),
		MerchantID:    merchantID,
		Transcript:    transcript,
		Draft:         raw,
		LedgerEntryID: entryID,
		CreatedAt:     a.opts.Clock(),
	}
	if err := a.history.Save(ctx, vt); err != nil {
		a.log.Warn("Failed to store voice history", zap.String("merchant_id", merchantID), zap.Error(err))
	}
}

func (a *Assistant) newSession(merchantID, locale string) *domain.VoiceSession {
	return &domain.VoiceSession{
		MerchantID: merchantID,
		State:      domain.VoiceStateIdle,
		Locale:     ResolveLocale(locale),
		UpdatedAt:  a.opts.Clock(),
	}
}

func (a *Assistant) save(ctx context.Context, session *domain.VoiceSession) error {
	session.UpdatedAt = a.opts.Clock()
	return a.sessions.Put(ctx, session)
}

func describe(d *domain.TransactionDraft) string {
	desc := strings.TrimSpace(d.Item)
	if c := strings.TrimSpace(d.Customer); c != "" {
		desc += " - " + c
	}
	return desc
}
