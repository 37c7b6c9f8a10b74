package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/onecard-bot/onecard_bot/internal/account"
)

// RegisterAccountRoutes wires account, billing, payment and collections endpoints.
func RegisterAccountRoutes(r fiber.Router, h *account.Handler, openLimiter fiber.Handler) {
	r.Post("/account/open", openLimiter, h.Open)
	r.Get("/account/status/:customerId", h.Status)
	r.Get("/bill/:customerId", h.Bill)
	r.Post("/payment/initiate/:customerId", h.Pay)
	r.Get("/collections/status/:customerId", h.Collections)
}
