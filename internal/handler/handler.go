package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Otszy/Bear-App/internal/auth"
	"github.com/Otszy/Bear-App/internal/config"
	"github.com/Otszy/Bear-App/internal/repository"
	"github.com/Otszy/Bear-App/internal/service"
	"github.com/Otszy/Bear-App/internal/telegram"
)

type Handler struct {
	cfg           *config.Config
	userService   *service.UserService
	taskService   *service.TaskService
	withdrawalSvc *service.WithdrawalService
	referralSvc   *service.ReferralService
	notifier      telegram.Notifier
	log           zerolog.Logger
}

func New(
	cfg *config.Config,
	userService *service.UserService,
	taskService *service.TaskService,
	withdrawalSvc *service.WithdrawalService,
	referralSvc *service.ReferralService,
	notifier telegram.Notifier,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		cfg:           cfg,
		userService:   userService,
		taskService:   taskService,
		withdrawalSvc: withdrawalSvc,
		referralSvc:   referralSvc,
		notifier:      notifier,
		log:           log,
	}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// verifyInitData authenticates the client-supplied credential. It is the
// only path from an HTTP request to a trusted user identity.
func (h *Handler) verifyInitData(initData string) (*auth.TelegramUser, error) {
	return auth.VerifyInitData(initData, h.cfg.Telegram.BotToken, h.cfg.Telegram.InitDataMaxAge(), time.Now())
}

var (
	errInvalidBody   = errors.New("invalid request body")
	errMissingFields = errors.New("missing required fields")
)

// clientFacing errors carry messages safe to echo back; anything else is
// reported as a generic failure and logged with detail.
var clientFacing = []error{
	errInvalidBody,
	errMissingFields,
	auth.ErrMissingSignature,
	auth.ErrSignatureMismatch,
	auth.ErrExpired,
	auth.ErrMissingUser,
	auth.ErrInvalidUser,
	service.ErrUserNotFound,
	service.ErrTaskNotFound,
	service.ErrTaskAlreadyCompleted,
	service.ErrRateLimited,
	service.ErrQuotaExceeded,
	service.ErrVerificationFailed,
	service.ErrInvalidAmount,
	service.ErrAmountTooLarge,
	service.ErrInsufficientBalance,
	service.ErrDuplicateRequest,
	service.ErrDailyLimitExceeded,
	repository.ErrConcurrentModification,
}

// fail answers with the uniform failure envelope. Every validation endpoint
// reports failures as HTTP 400 regardless of cause.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	message := "internal error"
	for _, known := range clientFacing {
		if errors.Is(err, known) {
			message = known.Error()
			break
		}
	}
	if message == "internal error" {
		h.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
