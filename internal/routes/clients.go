package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dpaula-bank/bank/internal/teller"
)

// RegisterClientRoutes wires client registration, lookup, update and removal.
func RegisterClientRoutes(r fiber.Router, h *teller.Handler) {
	group := r.Group("/clients")
	group.Post("/", h.RegisterClient)
	group.Get("/", h.ListClients)
	group.Get("/:id", h.GetClient)
	group.Patch("/:id", h.UpdateClient)
	group.Delete("/:id", h.RemoveClient)
	group.Post("/:id/accounts", h.OpenAccount)
}
