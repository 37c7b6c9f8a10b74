package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/onecard-bot/onecard_bot/internal/tools"
)

// RegisterToolRoutes exposes the agent tool catalog.
func RegisterToolRoutes(r fiber.Router, h *tools.Handler) {
	r.Get("/tools", h.List)
	r.Post("/tools/:name", h.Invoke)
}
