package tools

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the tool catalog and invocation over HTTP.
type Handler struct {
	dispatcher *Dispatcher
}

// NewHandler constructs a tools handler.
func NewHandler(dispatcher *Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// List returns the tool catalog.
func (h *Handler) List(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"tools": Catalog()})
}

// Invoke runs one tool with the request body as its arguments.
func (h *Handler) Invoke(c *fiber.Ctx) error {
	result, err := h.dispatcher.Invoke(c.UserContext(), c.Params("name"), c.Body())
	if err != nil {
		if errors.Is(err, ErrUnknownTool) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(result)
}
