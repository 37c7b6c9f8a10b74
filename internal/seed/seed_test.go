package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/onecard-bot/onecard_bot/internal/card"
	"github.com/onecard-bot/onecard_bot/internal/ledger"
	"github.com/onecard-bot/onecard_bot/internal/logging"
)

var seedNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return seedNow }

// recordingStore remembers customers in creation order.
type recordingStore struct {
	*ledger.MemoryStore
	ids []string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: ledger.NewMemoryStore()}
}

func (s *recordingStore) CreateCustomer(ctx context.Context, c ledger.Customer) error {
	if err := s.MemoryStore.CreateCustomer(ctx, c); err != nil {
		return err
	}
	s.ids = append(s.ids, c.ID)
	return nil
}

func customers(t *testing.T, s *recordingStore) []ledger.Customer {
	t.Helper()
	out := make([]ledger.Customer, 0, len(s.ids))
	for _, id := range s.ids {
		c, err := s.GetCustomer(context.Background(), id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		out = append(out, c)
	}
	return out
}

func TestRunPopulatesStore(t *testing.T) {
	store := ledger.NewMemoryStore()
	cards := card.NewMemoryRepository()
	ctx := context.Background()

	created, err := New(store, cards, clock, logging.Discard(), 7).Run(ctx, 12)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if created != 12 {
		t.Fatalf("expected 12 customers, got %d", created)
	}
	n, _ := store.CountCustomers(ctx)
	if n != 12 {
		t.Fatalf("expected 12 stored customers, got %d", n)
	}

	// rerun on a populated store is a no-op
	again, err := New(store, cards, clock, logging.Discard(), 7).Run(ctx, 12)
	if err != nil || again != 0 {
		t.Fatalf("expected skip, got %d %v", again, err)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	ctx := context.Background()
	first := newRecordingStore()
	second := newRecordingStore()
	if _, err := New(first, card.NewMemoryRepository(), clock, logging.Discard(), 42).Run(ctx, 3); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := New(second, card.NewMemoryRepository(), clock, logging.Discard(), 42).Run(ctx, 3); err != nil {
		t.Fatalf("second run: %v", err)
	}

	a := customers(t, first)
	b := customers(t, second)
	if len(a) != 3 || len(b) != 3 {
		t.Fatalf("expected 3 customers each, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Phone != b[i].Phone || !a[i].BalanceDue.Equal(b[i].BalanceDue) {
			t.Fatalf("customer %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSeededRecordsRespectRanges(t *testing.T) {
	store := newRecordingStore()
	cards := card.NewMemoryRepository()
	ctx := context.Background()
	if _, err := New(store, cards, clock, logging.Discard(), 3).Run(ctx, 20); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, c := range customers(t, store) {
		if c.Status != ledger.StatusVerified {
			t.Fatalf("expected verified, got %s", c.Status)
		}
		if c.BalanceDue.IsNegative() || c.BalanceDue.GreaterThan(decimal.NewFromInt(50000)) {
			t.Fatalf("balance out of range: %s", c.BalanceDue)
		}
		if c.DueDate == nil {
			t.Fatal("expected due date")
		}
		issued, err := cards.GetByCustomer(ctx, c.ID)
		if err != nil {
			t.Fatalf("card for %s: %v", c.ID, err)
		}
		if !strings.HasPrefix(issued.ID, "card_") || !strings.HasPrefix(issued.TrackingID, "TRK_") {
			t.Fatalf("unexpected card ids %s %s", issued.ID, issued.TrackingID)
		}
		tr, err := card.NewService(cards, clock).Track(ctx, c.ID)
		if err != nil {
			t.Fatalf("track %s: %v", c.ID, err)
		}
		wantETA := "N/A"
		if issued.DeliveryStatus == card.DeliveryInTransit {
			wantETA = "2026-05-12"
		}
		if tr.ETA != wantETA {
			t.Fatalf("expected eta %s for %s, got %s", wantETA, issued.DeliveryStatus, tr.ETA)
		}
		txns, err := store.ListTransactions(ctx, c.ID, 100)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(txns) < 5 || len(txns) > 10 {
			t.Fatalf("expected 5..10 transactions, got %d", len(txns))
		}
		for _, txn := range txns {
			if txn.Date.After(seedNow) || txn.Date.Before(seedNow.AddDate(0, 0, -30)) {
				t.Fatalf("transaction date out of window: %s", txn.Date)
			}
		}
	}
}
