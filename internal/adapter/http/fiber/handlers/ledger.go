package handlers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/adapter/http/fiber/middleware"
	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type LedgerHandler struct {
	service ports.LedgerService
	log     *zap.Logger
}

func NewLedgerHandler(service ports.LedgerService, log *zap.Logger) *LedgerHandler {
	return &LedgerHandler{
		service: service,
		log:     log,
	}
}

func filterFromQuery(c *fiber.Ctx) domain.LedgerFilter {
	return domain.LedgerFilter{
		Date:   domain.DateFilter(c.Query("date")),
		Type:   domain.EntryType(c.Query("type")),
		Search: c.Query("search"),
	}
}

// View returns the filtered, date-grouped ledger. Query: date, type, search.
func (h *LedgerHandler) View(c *fiber.Ctx) error {
	view, err := h.service.View(c.UserContext(), middleware.VendorID(c), filterFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

type AppendEntryRequest struct {
	Date        string           `json:"date"`
	Time        string           `json:"time"`
	Type        domain.EntryType `json:"type"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Tax         *decimal.Decimal `json:"tax"`
	Method      string           `json:"method"`
	Currency    string           `json:"currency"`
}

func (h *LedgerHandler) Append(c *fiber.Ctx) error {
	var req AppendEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	entry := &domain.LedgerEntry{
		MerchantID:  middleware.VendorID(c),
		Date:        req.Date,
		Time:        req.Time,
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
		Method:      req.Method,
		Currency:    req.Currency,
	}
	if req.Tax != nil {
		entry.Tax = *req.Tax
	} else {
		entry.Tax = h.service.VAT(req.Amount)
	}

	if err := h.service.Append(c.UserContext(), entry); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Export streams the filtered ledger as an xlsx workbook.
func (h *LedgerHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.Export(c.UserContext(), middleware.VendorID(c), filterFromQuery(c), &buf); err != nil {
		return err
	}

	name := fmt.Sprintf("ledger-%s.xlsx", h.service.Today().Format(domain.DateLayout))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(buf.Bytes())
}
