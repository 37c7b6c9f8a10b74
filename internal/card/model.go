package card

import (
	"strings"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a plastic card.
type Status string

const (
	StatusActive    Status = "active"
	StatusBlocked   Status = "blocked"
	StatusInTransit Status = "in_transit"
)

// DeliveryStatus tracks the courier stage of a card.
type DeliveryStatus string

const (
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryInTransit DeliveryStatus = "in_transit"
	DeliveryPending   DeliveryStatus = "pending"
)

// Card is the physical card issued to a customer.
type Card struct {
	ID             string
	CustomerID     string
	Number         string
	Status         Status
	DeliveryStatus DeliveryStatus
	TrackingID     string
}

// Tracking is what a customer sees when asking where their card is.
type Tracking struct {
	Status        Status
	DeliveryStage DeliveryStatus
	TrackingID    string
	ETA           string
}

// NewID returns an id in the card_xxxxxxxx form.
func NewID() string { return "card_" + hex8() }

// NewTrackingID returns a courier reference in the TRK_XXXXXXXX form.
func NewTrackingID() string { return "TRK_" + strings.ToUpper(hex8()) }

// Mask keeps the last four digits of a card number.
func Mask(number string) string {
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

func hex8() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
