package card

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/onecard-bot/onecard_bot/internal/ledger"
)

func TestTrackInTransitHasETA(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 2, 27, 23, 10, 0, 0, time.UTC) }
	svc := NewService(NewMemoryRepository(), clock)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, Card{CustomerID: "cust_1", Number: Mask("4111 1111 1111 1234"), Status: StatusInTransit, DeliveryStatus: DeliveryInTransit})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !strings.HasPrefix(issued.ID, "card_") || !strings.HasPrefix(issued.TrackingID, "TRK_") {
		t.Fatalf("unexpected ids %s %s", issued.ID, issued.TrackingID)
	}

	tr, err := svc.Track(ctx, "cust_1")
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if tr.ETA != "2026-03-01" {
		t.Fatalf("expected eta 2026-03-01, got %s", tr.ETA)
	}
	if tr.TrackingID != issued.TrackingID || tr.DeliveryStage != DeliveryInTransit {
		t.Fatalf("unexpected tracking %+v", tr)
	}
}

func TestTrackDeliveredHasNoETA(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	ctx := context.Background()
	for _, stage := range []DeliveryStatus{DeliveryDelivered, DeliveryPending} {
		customerID := "cust_" + string(stage)
		if _, err := svc.Issue(ctx, Card{CustomerID: customerID, Number: "************0001", Status: StatusActive, DeliveryStatus: stage}); err != nil {
			t.Fatalf("issue: %v", err)
		}
		tr, err := svc.Track(ctx, customerID)
		if err != nil {
			t.Fatalf("track: %v", err)
		}
		if tr.ETA != "N/A" {
			t.Fatalf("expected N/A for %s, got %s", stage, tr.ETA)
		}
	}
}

func TestTrackUnknownCustomer(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil)
	if _, err := svc.Track(context.Background(), "cust_missing"); !errors.Is(err, ledger.ErrCardNotFound) {
		t.Fatalf("expected card not found, got %v", err)
	}
}

func TestMask(t *testing.T) {
	if got := Mask("4111 1111 1111 1234"); got != "************1234" {
		t.Fatalf("unexpected mask %q", got)
	}
	if got := Mask("12"); got != "12" {
		t.Fatalf("unexpected short mask %q", got)
	}
}
