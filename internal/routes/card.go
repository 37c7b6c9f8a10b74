package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/onecard-bot/onecard_bot/internal/card"
)

// RegisterCardRoutes wires card tracking.
func RegisterCardRoutes(r fiber.Router, h *card.Handler) {
	r.Get("/card/status/:customerId", h.Track)
}
