package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerStatus is the KYC state of an account. Only an external KYC process
// moves it away from pending_verification.
type CustomerStatus string

const (
	StatusPendingVerification CustomerStatus = "pending_verification"
	StatusVerified            CustomerStatus = "verified"
	StatusBlocked             CustomerStatus = "blocked"
)

const (
	// CategoryRepayment marks payment transactions created by the ledger.
	CategoryRepayment = "Repayment"
	// RepaymentMerchant is the merchant recorded on payment transactions.
	RepaymentMerchant = "Credit Card Repayment"
)

// Customer is the ledger record of a cardholder.
type Customer struct {
	ID          string
	Name        string
	Phone       string
	Status      CustomerStatus
	CreditLimit decimal.Decimal
	BalanceDue  decimal.Decimal
	MinDue      decimal.Decimal
	DueDate     *time.Time
	CreatedAt   time.Time
}

// Clone returns a copy that shares no pointers with c.
func (c Customer) Clone() Customer {
	out := c
	if c.DueDate != nil {
		d := *c.DueDate
		out.DueDate = &d
	}
	return out
}

// Transaction is one entry of a customer's append-only log. Amount is positive
// for purchases and negative for payments.
type Transaction struct {
	ID         string
	CustomerID string
	Merchant   string
	Category   string
	Amount     decimal.Decimal
	Date       time.Time
}

// NewCustomerID returns an id in the cust_xxxxxxxx form.
func NewCustomerID() string { return "cust_" + shortHex(8) }

// NewPurchaseID returns an id in the txn_xxxxxxxx form.
func NewPurchaseID() string { return "txn_" + shortHex(8) }

// NewPaymentID returns an id in the PAY_XXXXXXXX form.
func NewPaymentID() string { return "PAY_" + strings.ToUpper(shortHex(8)) }

// NewEmiID returns an id in the EMI_xxxxxx form.
func NewEmiID() string { return "EMI_" + shortHex(6) }

func shortHex(n int) string {
	u := uuid.New()
	return strings.ReplaceAll(u.String(), "-", "")[:n]
}
