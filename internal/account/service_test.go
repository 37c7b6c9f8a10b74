package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/onecard-bot/onecard_bot/internal/ledger"
	"github.com/onecard-bot/onecard_bot/internal/notification"
)

var today = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return today }

func newTestService(t *testing.T) (*Service, *ledger.MemoryStore, *notification.Recorder) {
	t.Helper()
	store := ledger.NewMemoryStore()
	rec := &notification.Recorder{}
	return NewService(store, fixedClock, rec), store, rec
}

func openWithBalance(t *testing.T, svc *Service, store ledger.Store, phone string, balance int64, due *time.Time) string {
	t.Helper()
	ctx := context.Background()
	c, err := svc.OpenAccount(ctx, OpenInput{Name: "Asha Rao", Phone: phone})
	if err != nil {
		t.Fatalf("open account: %v", err)
	}
	if err := ledger.SeedBalance(ctx, store, c.ID, decimal.NewFromInt(balance), due); err != nil {
		t.Fatalf("seed balance: %v", err)
	}
	return c.ID
}

func TestOpenAccount(t *testing.T) {
	svc, _, rec := newTestService(t)
	ctx := context.Background()

	c, err := svc.OpenAccount(ctx, OpenInput{Name: "Asha Rao", Phone: "9876543210"})
	if err != nil {
		t.Fatalf("open account: %v", err)
	}
	if c.Status != ledger.StatusPendingVerification {
		t.Fatalf("expected pending_verification, got %s", c.Status)
	}
	if !c.BalanceDue.IsZero() || c.DueDate != nil {
		t.Fatalf("expected zero balance and no due date, got %s %v", c.BalanceDue, c.DueDate)
	}
	if rec.Last().Kind != notification.KindAccountOpened {
		t.Fatalf("expected account opened notification")
	}

	other, err := svc.OpenAccount(ctx, OpenInput{Name: "Ravi", Phone: "9876543211"})
	if err != nil {
		t.Fatalf("open second account: %v", err)
	}
	if other.ID == c.ID {
		t.Fatalf("customer ids must be unique")
	}
}

func TestOpenAccountDuplicatePhone(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.OpenAccount(ctx, OpenInput{Name: "Asha", Phone: "9876543210"}); err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := svc.OpenAccount(ctx, OpenInput{Name: "Someone Else", Phone: "9876543210"}); !errors.Is(err, ledger.ErrDuplicatePhone) {
		t.Fatalf("expected duplicate phone, got %v", err)
	}
}

func TestOpenAccountRequiresFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.OpenAccount(context.Background(), OpenInput{Name: " ", Phone: "1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestGetStatus(t *testing.T) {
	svc, store, _ := newTestService(t)
	id := openWithBalance(t, svc, store, "9000000001", 1200, nil)

	st, err := svc.GetStatus(context.Background(), id)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Status != ledger.StatusPendingVerification || !st.BalanceDue.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("unexpected status %+v", st)
	}

	if _, err := svc.GetStatus(context.Background(), "cust_missing"); !errors.Is(err, ledger.ErrCustomerNotFound) {
		t.Fatalf("expected customer not found, got %v", err)
	}
}

func TestGetBillStatus(t *testing.T) {
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	tests := []struct {
		name    string
		balance int64
		due     *time.Time
		want    BillStatus
	}{
		{name: "past due with balance", balance: 100, due: &yesterday, want: BillOverdue},
		{name: "due tomorrow", balance: 100, due: &tomorrow, want: BillUnpaid},
		{name: "due today", balance: 100, due: &today, want: BillUnpaid},
		{name: "past due but nothing owed", balance: 0, due: &yesterday, want: BillUnpaid},
		{name: "no due date", balance: 100, due: nil, want: BillUnpaid},
	}

	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, store, _ := newTestService(t)
			id := openWithBalance(t, svc, store, fmt.Sprintf("90000000%02d", i), tc.balance, tc.due)

			bill, err := svc.GetBill(context.Background(), id)
			if err != nil {
				t.Fatalf("bill: %v", err)
			}
			if bill.Status != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, bill.Status)
			}
			if !bill.TotalDue.Equal(decimal.NewFromInt(tc.balance)) {
				t.Fatalf("expected total due %d, got %s", tc.balance, bill.TotalDue)
			}
		})
	}
}

func TestApplyPaymentPartial(t *testing.T) {
	svc, store, rec := newTestService(t)
	ctx := context.Background()
	id := openWithBalance(t, svc, store, "9000000001", 1000, nil)

	res, err := svc.ApplyPayment(ctx, PaymentInput{CustomerID: id, Amount: decimal.NewFromInt(400), Method: "UPI"})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if res.Outcome != PaymentSuccess {
		t.Fatalf("expected success, got %s", res.Outcome)
	}
	if !res.NewBalance.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected 600, got %s", res.NewBalance)
	}

	txns, err := store.ListTransactions(ctx, id, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected exactly one transaction, got %d", len(txns))
	}
	if txns[0].ID != res.TxnID || !txns[0].Amount.Equal(decimal.NewFromInt(-400)) || txns[0].Category != ledger.CategoryRepayment {
		t.Fatalf("unexpected payment transaction %+v", txns[0])
	}
	if rec.Last().Kind != notification.KindPaymentReceived {
		t.Fatalf("expected payment notification")
	}
}

func TestApplyPaymentExactAndOverpay(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	exact := openWithBalance(t, svc, store, "9000000001", 750, nil)
	res, err := svc.ApplyPayment(ctx, PaymentInput{CustomerID: exact, Amount: decimal.NewFromInt(750), Method: "Card"})
	if err != nil {
		t.Fatalf("pay exact: %v", err)
	}
	if !res.NewBalance.IsZero() {
		t.Fatalf("expected zero balance, got %s", res.NewBalance)
	}

	over := openWithBalance(t, svc, store, "9000000002", 300, nil)
	res, err = svc.ApplyPayment(ctx, PaymentInput{CustomerID: over, Amount: decimal.NewFromInt(1000), Method: "netbanking"})
	if err != nil {
		t.Fatalf("overpay: %v", err)
	}
	if !res.NewBalance.IsZero() {
		t.Fatalf("overpayment must cap at zero, got %s", res.NewBalance)
	}
	txns, _ := store.ListTransactions(ctx, over, 10)
	if len(txns) != 1 || !txns[0].Amount.Equal(decimal.NewFromInt(-1000)) {
		t.Fatalf("expected one -1000 transaction, got %+v", txns)
	}
}

func TestApplyPaymentNoDues(t *testing.T) {
	svc, store, rec := newTestService(t)
	ctx := context.Background()
	id := openWithBalance(t, svc, store, "9000000001", 0, nil)
	sent := rec.Len()

	res, err := svc.ApplyPayment(ctx, PaymentInput{CustomerID: id, Amount: decimal.NewFromInt(100), Method: "UPI"})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if res.Outcome != PaymentNoDues || res.TxnID != "" || res.Message != "No dues pending." {
		t.Fatalf("expected no-dues result, got %+v", res)
	}
	txns, _ := store.ListTransactions(ctx, id, 10)
	if len(txns) != 0 {
		t.Fatalf("no transaction may be created, got %d", len(txns))
	}
	if rec.Len() != sent {
		t.Fatalf("no notification expected for a no-op payment")
	}
}

func TestApplyPaymentValidation(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	id := openWithBalance(t, svc, store, "9000000001", 500, nil)

	if _, err := svc.ApplyPayment(ctx, PaymentInput{CustomerID: id, Amount: decimal.NewFromInt(10), Method: "Cash"}); !errors.Is(err, ledger.ErrInvalidMethod) {
		t.Fatalf("expected invalid method, got %v", err)
	}
	if _, err := svc.ApplyPayment(ctx, PaymentInput{CustomerID: id, Amount: decimal.Zero, Method: "UPI"}); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := svc.ApplyPayment(ctx, PaymentInput{CustomerID: "cust_missing", Amount: decimal.NewFromInt(10), Method: "UPI"}); !errors.Is(err, ledger.ErrCustomerNotFound) {
		t.Fatalf("expected customer not found, got %v", err)
	}

	st, _ := svc.GetStatus(ctx, id)
	if !st.BalanceDue.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("failed payments must not touch the balance, got %s", st.BalanceDue)
	}
}

func TestApplyPaymentRejectsSubCentAmounts(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	id := openWithBalance(t, svc, store, "9000000001", 100, nil)

	for _, raw := range []string{"0.001", "10.005", "99.999"} {
		_, err := svc.ApplyPayment(ctx, PaymentInput{CustomerID: id, Amount: decimal.RequireFromString(raw), Method: "UPI"})
		if !errors.Is(err, ledger.ErrInvalidAmount) {
			t.Fatalf("amount %s: expected invalid amount, got %v", raw, err)
		}
	}
	txns, err := store.ListTransactions(ctx, id, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("rejected payments must not record transactions, got %d", len(txns))
	}

	// trailing zeros are still whole cents
	res, err := svc.ApplyPayment(ctx, PaymentInput{CustomerID: id, Amount: decimal.RequireFromString("0.100"), Method: "UPI"})
	if err != nil {
		t.Fatalf("pay 0.100: %v", err)
	}
	if !res.NewBalance.Equal(decimal.RequireFromString("99.90")) {
		t.Fatalf("expected 99.90, got %s", res.NewBalance)
	}
}

func TestApplyPaymentConcurrent(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	id := openWithBalance(t, svc, store, "9000000001", 5_000, nil)

	const workers = 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ApplyPayment(ctx, PaymentInput{CustomerID: id, Amount: decimal.NewFromInt(100), Method: "UPI"}); err != nil {
				t.Errorf("pay: %v", err)
			}
		}()
	}
	wg.Wait()

	st, _ := svc.GetStatus(ctx, id)
	if !st.BalanceDue.Equal(decimal.NewFromInt(2_500)) {
		t.Fatalf("expected 2500 after concurrent payments, got %s", st.BalanceDue)
	}
	txns, _ := store.ListTransactions(ctx, id, 100)
	if len(txns) != workers {
		t.Fatalf("expected %d payment transactions, got %d", workers, len(txns))
	}
}

func TestGetCollectionsRisk(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	high := openWithBalance(t, svc, store, "9000000001", 5001, nil)
	low := openWithBalance(t, svc, store, "9000000002", 5000, nil)

	risk, err := svc.GetCollectionsRisk(ctx, high)
	if err != nil {
		t.Fatalf("risk: %v", err)
	}
	if risk.Category != RiskHigh || risk.ActionRequired != "Immediate Payment" {
		t.Fatalf("expected high risk, got %+v", risk)
	}

	risk, err = svc.GetCollectionsRisk(ctx, low)
	if err != nil {
		t.Fatalf("risk: %v", err)
	}
	if risk.Category != RiskLow || risk.ActionRequired != "None" {
		t.Fatalf("expected low risk at the 5000 boundary, got %+v", risk)
	}

	if _, err := svc.GetCollectionsRisk(ctx, "cust_missing"); !errors.Is(err, ledger.ErrCustomerNotFound) {
		t.Fatalf("expected customer not found, got %v", err)
	}
}

func TestParseMethod(t *testing.T) {
	for raw, want := range map[string]PaymentMethod{"UPI": MethodUPI, "upi": MethodUPI, " Card ": MethodCard, "NETBANKING": MethodNetbanking} {
		got, err := ParseMethod(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMethod(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseMethod("wallet"); !errors.Is(err, ledger.ErrInvalidMethod) {
		t.Fatalf("expected invalid method, got %v", err)
	}
}
