package account

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes account HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transactRequest struct {
	AccountID      string `json:"account_id"`
	IdempotencyKey string `json:"idempotency_key"`
	Amount         int64  `json:"amount"`
	Type           string `json:"type"`
}

// Transact applies a credit or debit transaction.
func (h *Handler) Transact(c *fiber.Ctx) error {
	var req transactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	err := h.service.Apply(c.UserContext(), TransactInput{
		AccountID:      req.AccountID,
		IdempotencyKey: req.IdempotencyKey,
		Amount:         req.Amount,
		Type:           Type(req.Type),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrDuplicateTransaction):
			return fiber.NewError(http.StatusConflict, "duplicate transaction")
		case errors.Is(err, ErrInsufficientFunds):
			return fiber.NewError(http.StatusUnprocessableEntity, "insufficient funds")
		default:
			return fiber.NewError(http.StatusServiceUnavailable, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"account_id":      req.AccountID,
		"idempotency_key": req.IdempotencyKey,
		"amount":          req.Amount,
		"type":            req.Type,
		"status":          "applied",
	})
}

// Balance returns the current account balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	accountID := c.Params("accountId")
	balance, err := h.service.GetBalance(c.UserContext(), accountID)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return fiber.NewError(http.StatusServiceUnavailable, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"account_id": accountID,
		"balance":    balance,
	})
}
