package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCustomerNotFound is returned when a customer id does not resolve to a record.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrTransactionNotFound is returned when a transaction id does not resolve to a record.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDuplicatePhone occurs when an account is opened with a phone number that
	// already belongs to another customer.
	ErrDuplicatePhone = errors.New("phone number already registered")

	// ErrDuplicateTransaction indicates a transaction id is already present in the log.
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrInvalidMethod is returned for payment methods outside UPI, Card and Netbanking.
	ErrInvalidMethod = errors.New("invalid payment method")

	// ErrInvalidAmount is returned for non-positive payment amounts and for
	// amounts finer than one cent.
	ErrInvalidAmount = errors.New("amount must be positive with at most 2 decimal places")

	// ErrInvalidTenure is returned when an EMI tenure falls outside 3..24 months.
	ErrInvalidTenure = errors.New("tenure must be between 3 and 24 months")

	// ErrAmountTooSmall is returned when a transaction is below the EMI threshold.
	ErrAmountTooSmall = errors.New("transaction too small for EMI")

	// ErrInvalidLimit is returned when a transaction listing limit is not positive.
	ErrInvalidLimit = errors.New("limit must be a positive integer")

	// ErrCardNotFound is returned when a customer has no card on file.
	ErrCardNotFound = errors.New("card not found")

	// ErrNegativeBalance guards the balance_due >= 0 invariant at the storage boundary.
	ErrNegativeBalance = errors.New("balance due cannot be negative")
)

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }

// DateOf truncates t to its calendar date in t's own location, expressed as
// midnight UTC so dates compare independently of zones.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CustomerMutation mutates a locked customer copy. A non-nil transaction is
// inserted in the same atomic unit as the customer update.
type CustomerMutation func(c *Customer) (*Transaction, error)

// TransactionMutation mutates a locked transaction copy.
type TransactionMutation func(t *Transaction) error

// Store is the keyed-record storage capability shared by the account ledger and
// the EMI engine. Implementations: MemoryStore and PostgresStore.
type Store interface {
	CreateCustomer(ctx context.Context, c Customer) error
	GetCustomer(ctx context.Context, id string) (Customer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (Customer, error)
	CountCustomers(ctx context.Context) (int, error)
	UpdateCustomer(ctx context.Context, id string, fn CustomerMutation) (Customer, error)

	InsertTransaction(ctx context.Context, t Transaction) error
	GetTransaction(ctx context.Context, id string) (Transaction, error)
	UpdateTransaction(ctx context.Context, id string, fn TransactionMutation) (Transaction, error)
	ListTransactions(ctx context.Context, customerID string, limit int) ([]Transaction, error)
}

// applyCustomerMutation runs fn against a copy of current and enforces the
// record invariants shared by all stores.
func applyCustomerMutation(current Customer, fn CustomerMutation) (Customer, *Transaction, error) {
	updated := current.Clone()
	txn, err := fn(&updated)
	if err != nil {
		return Customer{}, nil, err
	}

	// identity fields are immutable
	updated.ID = current.ID
	updated.Name = current.Name
	updated.Phone = current.Phone
	updated.CreatedAt = current.CreatedAt

	if updated.BalanceDue.IsNegative() {
		return Customer{}, nil, ErrNegativeBalance
	}
	if txn != nil {
		if txn.CustomerID == "" {
			txn.CustomerID = current.ID
		}
		if txn.CustomerID != current.ID {
			return Customer{}, nil, ErrCustomerNotFound
		}
	}
	return updated, txn, nil
}

// applyTransactionMutation keeps txn_id, owner, amount and date fixed: only the
// category may be annotated after creation.
func applyTransactionMutation(current Transaction, fn TransactionMutation) (Transaction, error) {
	updated := current
	if err := fn(&updated); err != nil {
		return Transaction{}, err
	}
	updated.ID = current.ID
	updated.CustomerID = current.CustomerID
	updated.Merchant = current.Merchant
	updated.Amount = current.Amount
	updated.Date = current.Date
	return updated, nil
}
