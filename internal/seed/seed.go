package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/onecard-bot/onecard_bot/internal/card"
	"github.com/onecard-bot/onecard_bot/internal/ledger"
)

const maxPhoneAttempts = 5

var (
	creditLimits = []int64{50_000, 100_000, 200_000}
	categories   = []string{"Food", "Travel", "Utilities", "Shopping"}
	deliveries   = []string{string(card.DeliveryDelivered), string(card.DeliveryInTransit), string(card.DeliveryPending)}
)

// Seeder fills an empty store with demo customers, cards and purchases.
type Seeder struct {
	store  ledger.Store
	cards  *card.Service
	clock  ledger.Clock
	logger *slog.Logger
	faker  *gofakeit.Faker
}

// New builds a seeder. The same seed yields the same data set for a fixed clock.
func New(store ledger.Store, cards card.Repository, clock ledger.Clock, logger *slog.Logger, seed int64) *Seeder {
	if clock == nil {
		clock = ledger.SystemClock
	}
	return &Seeder{
		store:  store,
		cards:  card.NewService(cards, clock),
		clock:  clock,
		logger: logger,
		faker:  gofakeit.New(uint64(seed)),
	}
}

// Run creates n customers unless the store already holds some. It returns the
// number of customers created.
func (s *Seeder) Run(ctx context.Context, n int) (int, error) {
	existing, err := s.store.CountCustomers(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		s.logger.InfoContext(ctx, "store already contains data, skipping seed", "customers", existing)
		return 0, nil
	}

	now := s.clock().UTC()
	for i := 0; i < n; i++ {
		if err := s.customer(ctx, now); err != nil {
			return i, fmt.Errorf("seed customer %d: %w", i, err)
		}
	}
	s.logger.InfoContext(ctx, "seeded demo data", "customers", n)
	return n, nil
}

func (s *Seeder) customer(ctx context.Context, now time.Time) error {
	f := s.faker

	// one in three accounts carries a balance
	balance := decimal.Zero
	if f.IntRange(0, 2) == 0 {
		balance = decimal.NewFromFloat(f.Float64Range(1000, 50000)).Round(2)
	}
	due := ledger.DateOf(now).AddDate(0, 0, f.IntRange(-5, 20))

	c := ledger.Customer{
		ID:          "cust_" + s.hex(),
		Name:        f.Name(),
		Status:      ledger.StatusVerified,
		CreditLimit: decimal.NewFromInt(creditLimits[f.IntRange(0, len(creditLimits)-1)]),
		BalanceDue:  balance,
		MinDue:      balance.Mul(decimal.NewFromFloat(0.05)).Round(2),
		DueDate:     &due,
		CreatedAt:   now,
	}

	var err error
	for attempt := 0; attempt < maxPhoneAttempts; attempt++ {
		c.Phone = f.Phone()
		if err = s.store.CreateCustomer(ctx, c); !errors.Is(err, ledger.ErrDuplicatePhone) {
			break
		}
	}
	if err != nil {
		return err
	}

	stage := card.DeliveryStatus(f.RandomString(deliveries))
	if _, err := s.cards.Issue(ctx, card.Card{
		ID:             "card_" + s.hex(),
		CustomerID:     c.ID,
		Number:         card.Mask(f.CreditCardNumber(&gofakeit.CreditCardOptions{Types: []string{"visa"}})),
		Status:         card.StatusActive,
		DeliveryStatus: stage,
		TrackingID:     "TRK_" + strings.ToUpper(s.hex()),
	}); err != nil {
		return err
	}

	start := now.AddDate(0, 0, -30)
	for j, count := 0, f.IntRange(5, 10); j < count; j++ {
		if err := s.store.InsertTransaction(ctx, ledger.Transaction{
			ID:         "txn_" + s.hex(),
			CustomerID: c.ID,
			Merchant:   f.Company(),
			Category:   f.RandomString(categories),
			Amount:     decimal.NewFromFloat(f.Float64Range(100, 5000)).Round(2),
			Date:       f.DateRange(start, now).UTC(),
		}); err != nil {
			return err
		}
	}
	return nil
}

// hex draws ids from the seeded faker so reruns reproduce them.
func (s *Seeder) hex() string {
	return strings.ReplaceAll(s.faker.UUID(), "-", "")[:8]
}
