package card

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/onecard-bot/onecard_bot/internal/ledger"
)

// Handler exposes card endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a card handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Track returns the delivery status of the customer's card.
func (h *Handler) Track(c *fiber.Ctx) error {
	tr, err := h.service.Track(c.UserContext(), c.Params("customerId"))
	if err != nil {
		if errors.Is(err, ledger.ErrCardNotFound) {
			return fiber.NewError(http.StatusNotFound, "Card not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(TrackingResponse(tr))
}

// TrackingResponse renders a tracking result.
func TrackingResponse(tr Tracking) fiber.Map {
	return fiber.Map{
		"status":         tr.Status,
		"delivery_stage": tr.DeliveryStage,
		"tracking_id":    tr.TrackingID,
		"eta":            tr.ETA,
	}
}
