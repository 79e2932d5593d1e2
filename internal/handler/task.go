package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Otszy/Bear-App/internal/model"
)

type ValidateAdTaskRequest struct {
	TaskID   string `json:"taskId"`
	TaskType string `json:"taskType"`
	InitData string `json:"initData"`
}

type ValidateFollowTaskRequest struct {
	ChannelUsername string `json:"channelUsername"`
	TaskType        string `json:"taskType"`
	InitData        string `json:"initData"`
}

// ValidateAdTask handles completion claims for repeatable ad tasks. The
// reward comes from the task registry, never the client.
func (h *Handler) ValidateAdTask(c *fiber.Ctx) error {
	var req ValidateAdTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, errInvalidBody)
	}
	if req.TaskID == "" || req.InitData == "" {
		return h.fail(c, errMissingFields)
	}

	user, err := h.verifyInitData(req.InitData)
	if err != nil {
		return h.fail(c, err)
	}

	taskType := model.TaskType(req.TaskType)
	if taskType == "" {
		taskType = model.TaskTypeAd
	}

	reward, newBalance, err := h.taskService.CompleteAdTask(c.Context(), user.TelegramID(), req.TaskID, taskType)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"reward":     reward.InexactFloat64(),
		"newBalance": newBalance.InexactFloat64(),
	})
}

// ValidateFollowTask handles one-shot channel-follow completions.
func (h *Handler) ValidateFollowTask(c *fiber.Ctx) error {
	var req ValidateFollowTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, errInvalidBody)
	}
	if req.ChannelUsername == "" || req.InitData == "" {
		return h.fail(c, errMissingFields)
	}

	user, err := h.verifyInitData(req.InitData)
	if err != nil {
		return h.fail(c, err)
	}

	taskType := model.TaskType(req.TaskType)
	if taskType == "" {
		taskType = model.TaskTypeFollow
	}

	reward, newBalance, err := h.taskService.CompleteFollowTask(c.Context(), user.TelegramID(), req.ChannelUsername, taskType)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"reward":     reward.InexactFloat64(),
		"newBalance": newBalance.InexactFloat64(),
	})
}
