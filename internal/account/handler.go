package account

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/onecard-bot/onecard_bot/internal/ledger"
)

const dateLayout = "2006-01-02"

// Handler exposes account ledger HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type openRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

// Open creates a new account pending KYC.
func (h *Handler) Open(c *fiber.Ctx) error {
	var req openRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	customer, err := h.service.OpenAccount(c.UserContext(), OpenInput{Name: req.Name, Phone: req.Phone})
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusCreated).JSON(OpenedResponse(customer))
}

// Status returns the verification status and balance overview.
func (h *Handler) Status(c *fiber.Ctx) error {
	st, err := h.service.GetStatus(c.UserContext(), c.Params("customerId"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(StatusResponse(st))
}

// Bill returns the current billing details.
func (h *Handler) Bill(c *fiber.Ctx) error {
	bill, err := h.service.GetBill(c.UserContext(), c.Params("customerId"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(BillResponse(bill))
}

// Pay applies a repayment against the outstanding balance.
func (h *Handler) Pay(c *fiber.Ctx) error {
	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.service.ApplyPayment(c.UserContext(), PaymentInput{
		CustomerID: c.Params("customerId"),
		Amount:     req.Amount,
		Method:     req.Method,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(PaymentResponse(res))
}

// Collections returns the collections risk of a customer.
func (h *Handler) Collections(c *fiber.Ctx) error {
	risk, err := h.service.GetCollectionsRisk(c.UserContext(), c.Params("customerId"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(RiskResponse(risk))
}

// OpenedResponse renders a freshly opened account.
func OpenedResponse(customer ledger.Customer) fiber.Map {
	return fiber.Map{
		"customer_id": customer.ID,
		"message":     "Account created. Please complete KYC.",
	}
}

// StatusResponse renders an account status.
func StatusResponse(st Status) fiber.Map {
	return fiber.Map{
		"customer_id": st.CustomerID,
		"name":        st.Name,
		"status":      st.Status,
		"balance_due": st.BalanceDue.InexactFloat64(),
	}
}

// BillResponse renders a bill; due_date is null when no cycle has been billed.
func BillResponse(bill Bill) fiber.Map {
	var dueDate any
	if bill.DueDate != nil {
		dueDate = bill.DueDate.Format(dateLayout)
	}
	return fiber.Map{
		"total_due":   bill.TotalDue.InexactFloat64(),
		"minimum_due": bill.MinimumDue.InexactFloat64(),
		"due_date":    dueDate,
		"status":      bill.Status,
	}
}

// PaymentResponse renders a payment outcome.
func PaymentResponse(res PaymentResult) fiber.Map {
	if res.Outcome == PaymentNoDues {
		return fiber.Map{
			"status":  res.Outcome,
			"message": res.Message,
		}
	}
	return fiber.Map{
		"status":      res.Outcome,
		"new_balance": res.NewBalance.InexactFloat64(),
		"txn_id":      res.TxnID,
	}
}

// RiskResponse renders a collections risk assessment.
func RiskResponse(risk Risk) fiber.Map {
	return fiber.Map{
		"total_outstanding": risk.Outstanding.InexactFloat64(),
		"risk_category":     risk.Category,
		"action_required":   risk.ActionRequired,
	}
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrCustomerNotFound):
		return fiber.NewError(http.StatusNotFound, "Customer not found")
	case errors.Is(err, ledger.ErrDuplicatePhone):
		return fiber.NewError(http.StatusConflict, "Phone number already registered.")
	case errors.Is(err, ledger.ErrInvalidMethod),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ErrInvalidInput):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
