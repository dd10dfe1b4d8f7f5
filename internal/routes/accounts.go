package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dpaula-bank/bank/internal/teller"
)

// RegisterAccountRoutes wires account queries, closure and transactions.
func RegisterAccountRoutes(r fiber.Router, h *teller.Handler) {
	group := r.Group("/accounts")
	group.Get("/", h.ListAccounts)
	group.Get("/:number", h.GetAccount)
	group.Delete("/:number", h.CloseAccount)
	group.Post("/:number/deposits", h.Deposit)
	group.Post("/:number/withdrawals", h.Withdraw)
	group.Get("/:number/statement", h.Statement)
}

// RegisterAddressRoutes wires postal code lookups.
func RegisterAddressRoutes(r fiber.Router, h *teller.Handler) {
	r.Get("/addresses/:postalCode", h.LookupAddress)
}
