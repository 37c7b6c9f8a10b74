package emi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/onecard-bot/onecard_bot/internal/ledger"
)

// Handler exposes transaction listing and EMI conversion endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an EMI handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type convertRequest struct {
	TxnID        string `json:"txn_id"`
	TenureMonths int    `json:"tenure_months"`
}

// TransactionResponse is the wire form of a ledger transaction.
type TransactionResponse struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customer_id"`
	Merchant   string  `json:"merchant"`
	Amount     float64 `json:"amount"`
	Category   string  `json:"category"`
	Date       string  `json:"date"`
}

// List returns recent transactions; ?limit defaults to 5.
func (h *Handler) List(c *fiber.Ctx) error {
	limit := DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, ledger.ErrInvalidLimit.Error())
		}
		limit = n
	}

	txns, err := h.service.ListTransactions(c.UserContext(), c.Params("customerId"), limit)
	if err != nil {
		return toHTTPError(err)
	}

	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, ToResponse(t))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"count":        len(out),
		"transactions": out,
	})
}

// Convert converts a purchase into EMI installments.
func (h *Handler) Convert(c *fiber.Ctx) error {
	var req convertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	plan, err := h.service.Convert(c.UserContext(), req.TxnID, req.TenureMonths)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(ConversionResponse(plan))
}

// ToResponse renders a transaction the way the API and agent tools expose it.
func ToResponse(t ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:         t.ID,
		CustomerID: t.CustomerID,
		Merchant:   t.Merchant,
		Amount:     t.Amount.InexactFloat64(),
		Category:   t.Category,
		Date:       t.Date.Format("2006-01-02T15:04:05"),
	}
}

// ConversionResponse renders an EMI plan.
func ConversionResponse(plan Conversion) fiber.Map {
	monthly := plan.MonthlyInstallment.StringFixed(2)
	return fiber.Map{
		"status":              "success",
		"emi_id":              plan.EmiID,
		"original_txn":        plan.TxnID,
		"monthly_installment": plan.MonthlyInstallment.InexactFloat64(),
		"total_repayment":     plan.TotalRepayment.InexactFloat64(),
		"message":             "Transaction converted. Your monthly EMI is " + monthly + ".",
	}
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrCustomerNotFound):
		return fiber.NewError(http.StatusNotFound, "Customer not found")
	case errors.Is(err, ledger.ErrTransactionNotFound):
		return fiber.NewError(http.StatusNotFound, "Transaction not found")
	case errors.Is(err, ledger.ErrAmountTooSmall):
		return fiber.NewError(http.StatusBadRequest, "Transaction too small for EMI (Min 2500).")
	case errors.Is(err, ledger.ErrInvalidTenure), errors.Is(err, ledger.ErrInvalidLimit):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
