package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// Locale selects a copy bundle.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleFR Locale = "fr"
)

// TransactionAction picks the confirmation copy shown for a voice-logged event.
type TransactionAction string

const (
	ActionSale    TransactionAction = "sale"
	ActionStock   TransactionAction = "stock"
	ActionBalance TransactionAction = "balance"
	ActionPayment TransactionAction = "payment"
)

// ConfirmationCopy is the per-action text shown around a confirmation.
type ConfirmationCopy struct {
	Title     string `json:"title"`
	Template  string `json:"template"`
	Badge     string `json:"badge"`
	Success   string `json:"success"`
	Cancelled string `json:"cancelled"`
}

// VoiceCopySet is the full bundle of voice UI strings for one locale.
type VoiceCopySet struct {
	PromptTitle              string                                 `json:"promptTitle"`
	PromptSubtitle           string                                 `json:"promptSubtitle"`
	ChipSale                 string                                 `json:"chipSale"`
	ChipStock                string                                 `json:"chipStock"`
	ChipBalance              string                                 `json:"chipBalance"`
	Listening                string                                 `json:"listening"`
	Processing               string                                 `json:"processing"`
	TranscriptionPlaceholder string                                 `json:"transcriptionPlaceholder"`
	Actions                  map[TransactionAction]ConfirmationCopy `json:"actions"`
	DialogTitle              string                                 `json:"dialogTitle"`
	DialogDescription        string                                 `json:"dialogDescription"`
	ConfirmButton            string                                 `json:"confirmButton"`
	CancelButton             string                                 `json:"cancelButton"`
	ConfirmingButton         string                                 `json:"confirmingButton"`
	TransactionReady         string                                 `json:"transactionReady"`
	ParsedLabel              string                                 `json:"parsedLabel"`
	ItemLabel                string                                 `json:"itemLabel"`
	AmountLabel              string                                 `json:"amountLabel"`
	CustomerLabel            string                                 `json:"customerLabel"`
	MethodLabel              string                                 `json:"methodLabel"`
	TaxLabel                 string                                 `json:"taxLabel"`
}

// DraftType is the category the model assigns to a transcript.
type DraftType string

const (
	DraftSale     DraftType = "sale"
	DraftExpense  DraftType = "expense"
	DraftStockIn  DraftType = "stock_in"
	DraftStockOut DraftType = "stock_out"
)

func (t DraftType) Valid() bool {
	switch t {
	case DraftSale, DraftExpense, DraftStockIn, DraftStockOut:
		return true
	}
	return false
}

// TransactionDraft is the unconfirmed, model-parsed transaction record.
type TransactionDraft struct {
	Type     DraftType  `json:"type,omitempty"`
	Item     string     `json:"item"`
	Amount   FlexString `json:"amount"`
	Customer string     `json:"customer,omitempty"`
	Quantity FlexString `json:"quantity,omitempty"`
	Currency string     `json:"currency,omitempty"`
}

// FlexString decodes from either a JSON string or a JSON number.
// Models are told to send strings but sometimes emit bare numbers.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(b))
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// SummaryType is the display category of a confirmed voice transaction.
type SummaryType string

const (
	SummarySale     SummaryType = "sale"
	SummaryPurchase SummaryType = "purchase"
	SummaryPayment  SummaryType = "payment"
)

// TransactionSummary is the UI-facing view derived from a draft.
type TransactionSummary struct {
	Type     SummaryType `json:"type"`
	Item     string      `json:"item"`
	Amount   string      `json:"amount"`
	Customer string      `json:"customer,omitempty"`
	Method   string      `json:"method,omitempty"`
	Tax      string      `json:"tax,omitempty"`
}

// ParseResult carries either a draft or a user-facing error message.
type ParseResult struct {
	Data  *TransactionDraft `json:"data,omitempty"`
	Error string            `json:"error,omitempty"`
}

func (r ParseResult) OK() bool { return r.Data != nil && r.Error == "" }

// VoiceState is the lifecycle of a merchant's voice session.
type VoiceState string

const (
	VoiceStateIdle       VoiceState = "idle"
	VoiceStateListening  VoiceState = "listening"
	VoiceStateProcessing VoiceState = "processing"
	VoiceStateConfirmed  VoiceState = "confirmed"
)

// VoiceSession is the per-merchant voice flow state.
type VoiceSession struct {
	MerchantID   string              `json:"merchant_id"`
	State        VoiceState          `json:"state"`
	Locale       Locale              `json:"locale"`
	Transcript   string              `json:"transcript,omitempty"`
	Draft        *TransactionDraft   `json:"draft,omitempty"`
	Summary      *TransactionSummary `json:"summary,omitempty"`
	Confirmation string              `json:"confirmation,omitempty"`
	Message      string              `json:"message,omitempty"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// VoiceTransaction is the persisted audit row for a confirmed voice entry.
type VoiceTransaction struct {
	ID            string         `json:"id" gorm:"primaryKey"`
	MerchantID    string         `json:"merchant_id" gorm:"index"`
	Transcript    string         `json:"transcript"`
	Draft         datatypes.JSON `json:"draft" gorm:"type:jsonb"`
	LedgerEntryID string         `json:"ledger_entry_id"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ParseQuantity returns the draft quantity as an integer, or 0 when absent or not numeric.
func (d *TransactionDraft) ParseQuantity() int {
	if d == nil || d.Quantity == "" {
		return 0
	}
	n, err := strconv.Atoi(string(d.Quantity))
	if err != nil {
		return 0
	}
	return n
}
