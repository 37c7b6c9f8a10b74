package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/onecard-bot/onecard_bot/internal/emi"
)

// RegisterTransactionRoutes wires transaction history and EMI conversion.
func RegisterTransactionRoutes(r fiber.Router, h *emi.Handler) {
	r.Get("/transactions/:customerId", h.List)
	r.Post("/emi/convert", h.Convert)
}
