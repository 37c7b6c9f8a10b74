package card

import (
	"context"

	"github.com/onecard-bot/onecard_bot/internal/ledger"
)

const etaNotAvailable = "N/A"

// Service answers card delivery questions.
type Service struct {
	repo  Repository
	clock ledger.Clock
}

// NewService wires a card service. A nil clock means the wall clock.
func NewService(repo Repository, clock ledger.Clock) *Service {
	if clock == nil {
		clock = ledger.SystemClock
	}
	return &Service{repo: repo, clock: clock}
}

// Issue stores a new card for a customer, filling in the id and tracking reference.
func (s *Service) Issue(ctx context.Context, card Card) (Card, error) {
	if card.ID == "" {
		card.ID = NewID()
	}
	if card.TrackingID == "" {
		card.TrackingID = NewTrackingID()
	}
	if err := s.repo.Create(ctx, card); err != nil {
		return Card{}, err
	}
	return card, nil
}

// Track reports the delivery stage of a customer's card. Cards in transit are
// expected two days from today.
func (s *Service) Track(ctx context.Context, customerID string) (Tracking, error) {
	c, err := s.repo.GetByCustomer(ctx, customerID)
	if err != nil {
		return Tracking{}, err
	}
	eta := etaNotAvailable
	if c.DeliveryStatus == DeliveryInTransit {
		eta = ledger.DateOf(s.clock()).AddDate(0, 0, 2).Format("2006-01-02")
	}
	return Tracking{
		Status:        c.Status,
		DeliveryStage: c.DeliveryStatus,
		TrackingID:    c.TrackingID,
		ETA:           eta,
	}, nil
}
