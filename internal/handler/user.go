package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Otszy/Bear-App/internal/service"
)

type ProfileRequest struct {
	InitData string `json:"initData"`
}

// GetProfile returns the caller's user row, creating it on first fetch. This
// and the bot's /start command are the only two places users come into
// existence.
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, errInvalidBody)
	}
	if req.InitData == "" {
		return h.fail(c, errMissingFields)
	}

	tgUser, err := h.verifyInitData(req.InitData)
	if err != nil {
		return h.fail(c, err)
	}

	profile := service.TelegramProfile{
		TelegramID: tgUser.TelegramID(),
	}
	if tgUser.Username != "" {
		profile.Username = &tgUser.Username
	}
	if tgUser.FirstName != "" {
		profile.FirstName = &tgUser.FirstName
	}
	if tgUser.LastName != "" {
		profile.LastName = &tgUser.LastName
	}

	user, _, err := h.userService.GetOrCreateUser(c.Context(), profile)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// GetTaskAttempts returns the caller's per-task attempt counters so the
// client can render remaining quota and reset countdowns.
func (h *Handler) GetTaskAttempts(c *fiber.Ctx) error {
	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, errInvalidBody)
	}
	if req.InitData == "" {
		return h.fail(c, errMissingFields)
	}

	tgUser, err := h.verifyInitData(req.InitData)
	if err != nil {
		return h.fail(c, err)
	}

	attempts, err := h.taskService.GetTaskAttempts(c.Context(), tgUser.TelegramID())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"taskAttempts": attempts,
	})
}
