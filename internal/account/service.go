package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/onecard-bot/onecard_bot/internal/ledger"
	"github.com/onecard-bot/onecard_bot/internal/notification"
)

// ErrInvalidInput indicates a missing name or phone when opening an account.
var ErrInvalidInput = errors.New("name and phone are required")

const (
	noDuesMessage   = "No dues pending."
	actionImmediate = "Immediate Payment"
	actionNone      = "None"
)

var highRiskThreshold = decimal.NewFromInt(5000)

var errNoDues = errors.New("no dues pending")

// Service is the account ledger: identity, status, billing, repayment and
// collections risk over a ledger.Store.
type Service struct {
	store    ledger.Store
	clock    ledger.Clock
	notifier notification.Notifier
}

// NewService builds an account service. A nil clock means the wall clock; the
// notifier is optional.
func NewService(store ledger.Store, clock ledger.Clock, notifier notification.Notifier) *Service {
	if clock == nil {
		clock = ledger.SystemClock
	}
	return &Service{store: store, clock: clock, notifier: notifier}
}

// OpenAccount creates a customer pending KYC with a zero balance and no due date.
func (s *Service) OpenAccount(ctx context.Context, input OpenInput) (ledger.Customer, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" {
		return ledger.Customer{}, ErrInvalidInput
	}

	customer := ledger.Customer{
		ID:          ledger.NewCustomerID(),
		Name:        name,
		Phone:       phone,
		Status:      ledger.StatusPendingVerification,
		CreditLimit: decimal.NewFromInt(100_000),
		BalanceDue:  decimal.Zero,
		MinDue:      decimal.Zero,
		CreatedAt:   s.clock().UTC(),
	}
	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return ledger.Customer{}, err
	}

	s.notify(ctx, notification.Message{
		Kind:        notification.KindAccountOpened,
		Destination: customer.ID,
		Body:        fmt.Sprintf("Welcome %s, your account %s is pending verification", customer.Name, customer.ID),
	})
	return customer, nil
}

// GetStatus returns the verification status and outstanding balance.
func (s *Service) GetStatus(ctx context.Context, customerID string) (Status, error) {
	c, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return Status{}, err
	}
	return Status{CustomerID: c.ID, Name: c.Name, Status: c.Status, BalanceDue: c.BalanceDue}, nil
}

// GetBill returns the bill for the current cycle. It is overdue only when a due
// date is set, something is owed and today is strictly after the due date; a
// zero balance still reads as unpaid.
func (s *Service) GetBill(ctx context.Context, customerID string) (Bill, error) {
	c, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return Bill{}, err
	}

	status := BillUnpaid
	if c.DueDate != nil && c.BalanceDue.IsPositive() && ledger.DateOf(s.clock()).After(ledger.DateOf(*c.DueDate)) {
		status = BillOverdue
	}
	return Bill{TotalDue: c.BalanceDue, MinimumDue: c.MinDue, DueDate: c.DueDate, Status: status}, nil
}

// ApplyPayment reduces the balance by amount, capped at zero, and records a
// repayment transaction in the same atomic update. Paying an account with
// nothing due is a no-op that creates no transaction. Amounts must be whole
// cents, matching the NUMERIC(14,2) columns.
func (s *Service) ApplyPayment(ctx context.Context, input PaymentInput) (PaymentResult, error) {
	if !input.Amount.IsPositive() || !input.Amount.Equal(input.Amount.Round(2)) {
		return PaymentResult{}, ledger.ErrInvalidAmount
	}
	method, err := ParseMethod(input.Method)
	if err != nil {
		return PaymentResult{}, err
	}

	var txnID string
	updated, err := s.store.UpdateCustomer(ctx, input.CustomerID, func(c *ledger.Customer) (*ledger.Transaction, error) {
		if !c.BalanceDue.IsPositive() {
			return nil, errNoDues
		}
		c.BalanceDue = decimal.Max(decimal.Zero, c.BalanceDue.Sub(input.Amount))
		txnID = ledger.NewPaymentID()
		return &ledger.Transaction{
			ID:       txnID,
			Merchant: ledger.RepaymentMerchant,
			Category: ledger.CategoryRepayment,
			Amount:   input.Amount.Neg(),
			Date:     s.clock().UTC(),
		}, nil
	})
	if errors.Is(err, errNoDues) {
		return PaymentResult{Outcome: PaymentNoDues, NewBalance: decimal.Zero, Message: noDuesMessage}, nil
	}
	if err != nil {
		return PaymentResult{}, err
	}

	s.notify(ctx, notification.Message{
		Kind:        notification.KindPaymentReceived,
		Destination: updated.ID,
		Body:        fmt.Sprintf("Payment of %s via %s received, outstanding %s", input.Amount.StringFixed(2), method, updated.BalanceDue.StringFixed(2)),
	})

	return PaymentResult{
		Outcome:    PaymentSuccess,
		NewBalance: updated.BalanceDue,
		TxnID:      txnID,
		Message:    fmt.Sprintf("Payment of %s received.", input.Amount.StringFixed(2)),
	}, nil
}

// GetCollectionsRisk buckets the customer by outstanding balance; more than
// 5000 is high risk.
func (s *Service) GetCollectionsRisk(ctx context.Context, customerID string) (Risk, error) {
	c, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return Risk{}, err
	}
	if c.BalanceDue.GreaterThan(highRiskThreshold) {
		return Risk{Outstanding: c.BalanceDue, Category: RiskHigh, ActionRequired: actionImmediate}, nil
	}
	return Risk{Outstanding: c.BalanceDue, Category: RiskLow, ActionRequired: actionNone}, nil
}

// ParseMethod accepts UPI, Card and Netbanking in any letter case.
func ParseMethod(raw string) (PaymentMethod, error) {
	for _, m := range []PaymentMethod{MethodUPI, MethodCard, MethodNetbanking} {
		if strings.EqualFold(strings.TrimSpace(raw), string(m)) {
			return m, nil
		}
	}
	return "", ledger.ErrInvalidMethod
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, msg)
	}
}
