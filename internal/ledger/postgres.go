package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const customerColumns = `id, name, phone, status, credit_limit, balance_due, min_due, due_date, created_at`

const transactionColumns = `id, customer_id, merchant, category, amount, txn_date`

// PostgresStore persists customers and transactions in PostgreSQL. Customer
// updates lock the row with SELECT ... FOR UPDATE and commit the optional
// payment transaction in the same SQL transaction.
type PostgresStore struct {
	db *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore constructs a Postgres-backed store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateCustomer inserts a customer, mapping the phone uniqueness constraint to ErrDuplicatePhone.
func (s *PostgresStore) CreateCustomer(ctx context.Context, c Customer) error {
	_, err := s.db.Exec(ctx, `INSERT INTO customers (`+customerColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Name, c.Phone, string(c.Status), c.CreditLimit, c.BalanceDue, c.MinDue, c.DueDate, c.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, "phone") {
			return ErrDuplicatePhone
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetCustomer fetches a customer by id.
func (s *PostgresStore) GetCustomer(ctx context.Context, id string) (Customer, error) {
	row := s.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	return scanCustomer(row)
}

// GetCustomerByPhone fetches a customer by the unique phone number.
func (s *PostgresStore) GetCustomerByPhone(ctx context.Context, phone string) (Customer, error) {
	row := s.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE phone = $1`, phone)
	return scanCustomer(row)
}

// CountCustomers returns the number of stored customers.
func (s *PostgresStore) CountCustomers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

// UpdateCustomer applies fn to the locked customer row and persists the result
// together with the transaction fn returns, if any.
func (s *PostgresStore) UpdateCustomer(ctx context.Context, id string, fn CustomerMutation) (Customer, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Customer{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	current, err := scanCustomer(tx.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return Customer{}, err
	}

	updated, txn, err := applyCustomerMutation(current, fn)
	if err != nil {
		return Customer{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE customers
        SET status = $2, credit_limit = $3, balance_due = $4, min_due = $5, due_date = $6
        WHERE id = $1`,
		updated.ID, string(updated.Status), updated.CreditLimit, updated.BalanceDue, updated.MinDue, updated.DueDate); err != nil {
		return Customer{}, fmt.Errorf("update customer: %w", err)
	}

	if txn != nil {
		if err := insertTransaction(ctx, tx, *txn); err != nil {
			return Customer{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Customer{}, err
	}
	return updated, nil
}

// InsertTransaction appends a transaction to its owner's log.
func (s *PostgresStore) InsertTransaction(ctx context.Context, t Transaction) error {
	return insertTransaction(ctx, s.db, t)
}

// GetTransaction fetches a transaction by id.
func (s *PostgresStore) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	row := s.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

// UpdateTransaction applies fn to the locked transaction row. Only the category is written back.
func (s *PostgresStore) UpdateTransaction(ctx context.Context, id string, fn TransactionMutation) (Transaction, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	current, err := scanTransaction(tx.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return Transaction{}, err
	}

	updated, err := applyTransactionMutation(current, fn)
	if err != nil {
		return Transaction{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE transactions SET category = $2 WHERE id = $1`, id, updated.Category); err != nil {
		return Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, err
	}
	return updated, nil
}

// ListTransactions returns up to limit transactions of a customer, most recent first.
func (s *PostgresStore) ListTransactions(ctx context.Context, customerID string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, customerID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("lookup customer: %w", err)
	}
	if !exists {
		return nil, ErrCustomerNotFound
	}

	rows, err := s.db.Query(ctx, `SELECT `+transactionColumns+` FROM transactions
        WHERE customer_id = $1
        ORDER BY txn_date DESC, seq DESC
        LIMIT $2`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]Transaction, 0, limit)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertTransaction(ctx context.Context, db execer, t Transaction) error {
	_, err := db.Exec(ctx, `INSERT INTO transactions (`+transactionColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.CustomerID, t.Merchant, t.Category, t.Amount, t.Date.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return ErrDuplicateTransaction
			case pgForeignKeyViolation:
				return ErrCustomerNotFound
			}
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func scanCustomer(row pgx.Row) (Customer, error) {
	var (
		c         Customer
		status    string
		dueDate   *time.Time
		createdAt time.Time
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &status, &c.CreditLimit, &c.BalanceDue, &c.MinDue, &dueDate, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, ErrCustomerNotFound
		}
		return Customer{}, fmt.Errorf("scan customer: %w", err)
	}
	c.Status = CustomerStatus(status)
	if dueDate != nil {
		d := DateOf(*dueDate)
		c.DueDate = &d
	}
	c.CreatedAt = createdAt.UTC()
	return c, nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var t Transaction
	if err := row.Scan(&t.ID, &t.CustomerID, &t.Merchant, &t.Category, &t.Amount, &t.Date); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrTransactionNotFound
		}
		return Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Date = t.Date.UTC()
	return t, nil
}
