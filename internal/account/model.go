package account

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/onecard-bot/onecard_bot/internal/ledger"
)

// BillStatus classifies the current bill.
type BillStatus string

const (
	BillUnpaid  BillStatus = "unpaid"
	BillOverdue BillStatus = "overdue"
)

// RiskCategory is the collections risk bucket of a customer.
type RiskCategory string

const (
	RiskHigh RiskCategory = "High"
	RiskLow  RiskCategory = "Low"
)

// PaymentOutcome tells a real payment apart from the no-dues no-op.
type PaymentOutcome string

const (
	PaymentSuccess PaymentOutcome = "success"
	PaymentNoDues  PaymentOutcome = "no_dues"
)

// PaymentMethod is one of the accepted repayment channels.
type PaymentMethod string

const (
	MethodUPI        PaymentMethod = "UPI"
	MethodCard       PaymentMethod = "Card"
	MethodNetbanking PaymentMethod = "Netbanking"
)

// OpenInput captures the identity fields of a new account.
type OpenInput struct {
	Name  string
	Phone string
}

// Status is the verification state and balance overview of an account.
type Status struct {
	CustomerID string
	Name       string
	Status     ledger.CustomerStatus
	BalanceDue decimal.Decimal
}

// Bill is the current billing cycle summary.
type Bill struct {
	TotalDue   decimal.Decimal
	MinimumDue decimal.Decimal
	DueDate    *time.Time
	Status     BillStatus
}

// PaymentInput captures a repayment request.
type PaymentInput struct {
	CustomerID string
	Amount     decimal.Decimal
	Method     string
}

// PaymentResult is the outcome of ApplyPayment. TxnID is empty for PaymentNoDues.
type PaymentResult struct {
	Outcome    PaymentOutcome
	NewBalance decimal.Decimal
	TxnID      string
	Message    string
}

// Risk is the collections view of an account.
type Risk struct {
	Outstanding    decimal.Decimal
	Category       RiskCategory
	ActionRequired string
}
