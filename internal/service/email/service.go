package email

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

// Message is one outbound email. At least one of HTML or Text is set.
type Message struct {
	To         string
	ToName     string
	Subject    string
	HTML       string
	Text       string
	Categories []string
}

type Provider interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	// Provider type: "sendgrid" or "log"
	Provider string

	FromEmail string
	FromName  string

	SendGridAPIKey string
}

// LogProvider writes messages to the logger instead of delivering them.
type LogProvider struct {
	log *zap.Logger
}

func (p *LogProvider) Send(ctx context.Context, msg Message) error {
	p.log.Info("Email (not delivered)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Strings("categories", msg.Categories),
		zap.Int("html_bytes", len(msg.HTML)),
		zap.Int("text_bytes", len(msg.Text)),
	)
	return nil
}

type Service struct {
	provider  Provider
	orderHTML *htmltemplate.Template
	orderText *texttemplate.Template
	log       *zap.Logger
}

var _ ports.OrderNotifier = (*Service)(nil)

func NewService(config Config, log *zap.Logger) (*Service, error) {
	var provider Provider
	switch config.Provider {
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SendGrid API key is required")
		}
		provider = NewSendGridProvider(config.SendGridAPIKey, config.FromEmail, config.FromName)
	case "log", "":
		provider = &LogProvider{log: log}
	default:
		return nil, fmt.Errorf("unknown email provider: %s", config.Provider)
	}
	return newService(provider, log), nil
}

func newService(provider Provider, log *zap.Logger) *Service {
	return &Service{
		provider:  provider,
		orderHTML: htmltemplate.Must(htmltemplate.New("order_status.html").Parse(orderStatusHTML)),
		orderText: texttemplate.Must(texttemplate.New("order_status.txt").Parse(orderStatusText)),
		log:       log,
	}
}

func (s *Service) send(ctx context.Context, msg Message) error {
	if err := s.provider.Send(ctx, msg); err != nil {
		s.log.Error("Failed to send email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.log.Info("Email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

type orderLine struct {
	Name     string
	Quantity int
	Amount   string
}

type orderView struct {
	BusinessName  string
	CustomerName  string
	OrderID       string
	Status        string
	PaymentStatus string
	Items         []orderLine
	Total         string
	Currency      string
}

// NotifyOrderStatus emails the customer the current order and payment status.
// Orders without a customer email are skipped.
func (s *Service) NotifyOrderStatus(ctx context.Context, order *domain.Order, businessName string) error {
	if strings.TrimSpace(order.CustomerEmail) == "" {
		return nil
	}

	view := orderView{
		BusinessName:  businessName,
		CustomerName:  order.CustomerName,
		OrderID:       order.ID,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		Items:         make([]orderLine, 0, len(order.Items)),
		Total:         order.Total.StringFixed(2),
		Currency:      order.Currency,
	}
	for _, item := range order.Items {
		name := item.ProductID
		if item.Product != nil {
			name = item.Product.Name
		}
		view.Items = append(view.Items, orderLine{
			Name:     name,
			Quantity: item.Quantity,
			Amount:   item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2),
		})
	}

	var html, text bytes.Buffer
	if err := s.orderHTML.Execute(&html, view); err != nil {
		return fmt.Errorf("failed to render order email: %w", err)
	}
	if err := s.orderText.Execute(&text, view); err != nil {
		return fmt.Errorf("failed to render order email: %w", err)
	}

	return s.send(ctx, Message{
		To:         order.CustomerEmail,
		ToName:     order.CustomerName,
		Subject:    fmt.Sprintf("%s: your order is %s", businessName, order.Status),
		HTML:       html.String(),
		Text:       text.String(),
		Categories: []string{"order-status", string(order.Status)},
	})
}
