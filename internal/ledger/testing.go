package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SeedBalance sets the balance, minimum due and due date of an existing
// customer. Tests use it to set up billing scenarios; the KYC status is left alone.
func SeedBalance(ctx context.Context, s Store, customerID string, balance decimal.Decimal, dueDate *time.Time) error {
	_, err := s.UpdateCustomer(ctx, customerID, func(c *Customer) (*Transaction, error) {
		c.BalanceDue = balance
		c.MinDue = balance.Mul(decimal.NewFromFloat(0.05)).Round(2)
		if dueDate != nil {
			d := DateOf(*dueDate)
			c.DueDate = &d
		} else {
			c.DueDate = nil
		}
		return nil, nil
	})
	return err
}
