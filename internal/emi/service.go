package emi

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/onecard-bot/onecard_bot/internal/ledger"
	"github.com/onecard-bot/onecard_bot/internal/notification"
)

const (
	// DefaultListLimit is the number of transactions returned when no limit is given.
	DefaultListLimit = 5
	// MinTenure and MaxTenure bound the EMI tenure in months, inclusive.
	MinTenure = 3
	MaxTenure = 24

	annotationPrefix = " (Converted to EMI "
)

var (
	// MinEmiAmount is the smallest purchase that can be converted.
	MinEmiAmount = decimal.NewFromInt(2500)
	// InterestRate is the flat rate applied once to the converted amount.
	InterestRate = decimal.NewFromFloat(0.14)
)

// Conversion is the repayment plan produced by Convert.
type Conversion struct {
	EmiID              string
	TxnID              string
	TenureMonths       int
	MonthlyInstallment decimal.Decimal
	TotalRepayment     decimal.Decimal
	Category           string
}

// Service lists a customer's transactions and converts purchases to EMI.
type Service struct {
	store    ledger.Store
	notifier notification.Notifier
}

// NewService builds the transaction and EMI service. The notifier is optional.
func NewService(store ledger.Store, notifier notification.Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// ListTransactions returns up to limit transactions of a customer, most recent first.
func (s *Service) ListTransactions(ctx context.Context, customerID string, limit int) ([]ledger.Transaction, error) {
	if limit <= 0 {
		return nil, ledger.ErrInvalidLimit
	}
	return s.store.ListTransactions(ctx, customerID, limit)
}

// Convert turns a purchase of at least 2500 into an EMI plan over tenureMonths.
// Only the transaction category is annotated; its amount and the customer's
// balance are left as they are.
func (s *Service) Convert(ctx context.Context, txnID string, tenureMonths int) (Conversion, error) {
	if tenureMonths < MinTenure || tenureMonths > MaxTenure {
		return Conversion{}, ledger.ErrInvalidTenure
	}

	var plan Conversion
	txn, err := s.store.UpdateTransaction(ctx, txnID, func(t *ledger.Transaction) error {
		if t.Amount.LessThan(MinEmiAmount) {
			return ledger.ErrAmountTooSmall
		}
		total, monthly := Installments(t.Amount, tenureMonths)
		plan = Conversion{
			EmiID:              ledger.NewEmiID(),
			TxnID:              t.ID,
			TenureMonths:       tenureMonths,
			MonthlyInstallment: monthly,
			TotalRepayment:     total,
		}
		t.Category = Annotate(t.Category, tenureMonths)
		return nil
	})
	if err != nil {
		return Conversion{}, err
	}
	plan.Category = txn.Category

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindEmiConverted,
			Destination: txn.CustomerID,
			Body:        fmt.Sprintf("Transaction %s converted to %d EMIs of %s", txn.ID, tenureMonths, plan.MonthlyInstallment.StringFixed(2)),
		})
	}
	return plan, nil
}

// Installments applies the flat interest rate once and splits the total evenly.
// Both figures are rounded to 2 decimal places.
func Installments(amount decimal.Decimal, tenureMonths int) (total, monthly decimal.Decimal) {
	total = amount.Mul(decimal.NewFromInt(1).Add(InterestRate))
	monthly = total.Div(decimal.NewFromInt(int64(tenureMonths))).Round(2)
	return total.Round(2), monthly
}

// Annotate records an EMI conversion on a category, replacing any earlier
// conversion note: "Shopping" becomes "Shopping (Converted to EMI 6m)".
func Annotate(category string, tenureMonths int) string {
	base, _, _ := strings.Cut(category, annotationPrefix)
	return fmt.Sprintf("%s%s%dm)", base, annotationPrefix, tenureMonths)
}
