package card

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onecard-bot/onecard_bot/internal/ledger"
)

// Repository persists cards.
type Repository interface {
	Create(ctx context.Context, card Card) error
	GetByCustomer(ctx context.Context, customerID string) (Card, error)
}

// PostgresRepository stores cards in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a card record.
func (r *PostgresRepository) Create(ctx context.Context, card Card) error {
	_, err := r.db.Exec(ctx, `INSERT INTO cards (id, customer_id, card_number, status, delivery_status, tracking_id)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		card.ID, card.CustomerID, card.Number, string(card.Status), string(card.DeliveryStatus), card.TrackingID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ledger.ErrCustomerNotFound
		}
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

// GetByCustomer returns the first card issued to a customer.
func (r *PostgresRepository) GetByCustomer(ctx context.Context, customerID string) (Card, error) {
	row := r.db.QueryRow(ctx, `SELECT id, customer_id, card_number, status, delivery_status, COALESCE(tracking_id, '')
        FROM cards WHERE customer_id = $1 ORDER BY id LIMIT 1`, customerID)
	var (
		c             Card
		status, stage string
	)
	if err := row.Scan(&c.ID, &c.CustomerID, &c.Number, &status, &stage, &c.TrackingID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Card{}, ledger.ErrCardNotFound
		}
		return Card{}, fmt.Errorf("scan card: %w", err)
	}
	c.Status = Status(status)
	c.DeliveryStatus = DeliveryStatus(stage)
	return c, nil
}
