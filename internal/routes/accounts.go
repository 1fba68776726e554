package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jovejob/txledger/internal/account"
)

// RegisterAccountRoutes wires balance and transaction endpoints.
func RegisterAccountRoutes(r fiber.Router, h *account.Handler) {
	r.Get("/accounts/:accountId/balance", h.Balance)
	r.Post("/transactions", h.Transact)
}
