package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Otszy/Bear-App/internal/service"
)

type WithdrawalRequest struct {
	Amount      json.Number `json:"amount"`
	Method      string      `json:"method"`
	AccountInfo string      `json:"accountInfo"`
	InitData    string      `json:"initData"`
}

// ProcessWithdrawal handles payout requests. Amount parsing is strict: a
// malformed amount is rejected before any datastore work.
func (h *Handler) ProcessWithdrawal(c *fiber.Ctx) error {
	var req WithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, errInvalidBody)
	}
	if req.Amount == "" || req.Method == "" || req.AccountInfo == "" || req.InitData == "" {
		return h.fail(c, errMissingFields)
	}

	user, err := h.verifyInitData(req.InitData)
	if err != nil {
		return h.fail(c, err)
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		return h.fail(c, service.ErrInvalidAmount)
	}

	withdrawal, newBalance, err := h.withdrawalSvc.RequestWithdrawal(c.Context(), user.TelegramID(), amount, req.Method, req.AccountInfo)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"withdrawalId": withdrawal.ID,
		"newBalance":   newBalance.InexactFloat64(),
	})
}
