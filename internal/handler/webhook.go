package handler

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Otszy/Bear-App/internal/model"
	"github.com/Otszy/Bear-App/internal/service"
)

type TelegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *TelegramMessage `json:"message"`
}

type TelegramMessage struct {
	MessageID int64              `json:"message_id"`
	From      *TelegramSender `json:"from"`
	Chat      TelegramChat       `json:"chat"`
	Date      int64              `json:"date"`
	Text      string             `json:"text"`
}

type TelegramSender struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
}

type TelegramChat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// TelegramWebhook reacts to inbound bot updates. After the shared-secret
// gate it always acknowledges with 200 "OK" — malformed bodies and handler
// failures are logged, never surfaced, so Telegram does not retry-storm the
// endpoint.
func (h *Handler) TelegramWebhook(c *fiber.Ctx) error {
	secret := c.Get("X-Telegram-Bot-Api-Secret-Token")
	if h.cfg.Telegram.WebhookSecret == "" || secret != h.cfg.Telegram.WebhookSecret {
		return c.Status(fiber.StatusForbidden).SendString("Forbidden")
	}

	body := c.Body()
	if len(body) == 0 {
		return c.SendString("OK")
	}

	var update TelegramUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		h.log.Warn().Err(err).Msg("webhook: unparseable update body")
		return c.SendString("OK")
	}

	if update.Message == nil || update.Message.From == nil {
		return c.SendString("OK")
	}

	message := update.Message
	chatID := message.Chat.ID
	text := message.Text

	switch {
	case strings.HasPrefix(text, "/start"):
		h.handleStart(c, message)
	case text == "/balance":
		h.handleBalance(c, message.From, chatID)
	case text == "/help":
		h.handleHelp(chatID)
	}

	return c.SendString("OK")
}

func (h *Handler) handleStart(c *fiber.Ctx, message *TelegramMessage) {
	from := message.From
	chatID := message.Chat.ID

	profile := service.TelegramProfile{
		TelegramID: strconv.FormatInt(from.ID, 10),
	}
	if from.Username != "" {
		profile.Username = &from.Username
	}
	if from.FirstName != "" {
		profile.FirstName = &from.FirstName
	}
	if from.LastName != "" {
		profile.LastName = &from.LastName
	}

	user, isNew, err := h.userService.GetOrCreateUser(c.Context(), profile)
	if err != nil {
		h.log.Error().Err(err).Int64("telegram_id", from.ID).Msg("webhook: failed to get or create user")
		return
	}

	if isNew {
		h.attributeReferral(c, message, user)
	}

	greeting := "Thanks for joining us!"
	if !isNew {
		greeting = "Welcome back!"
	}
	welcome := "🐻 Welcome to BearApp!\n\n" + greeting + "\n\n" +
		"💰 Current Balance: $" + user.Balance.StringFixed(3) + "\n\n" +
		"🚀 Start earning by completing tasks and inviting friends!\n\n" +
		"Click the button below to open the app:"

	if err := h.notifier.SendWebAppMessage(chatID, welcome, "🚀 Open BearApp"); err != nil {
		h.log.Warn().Err(err).Int64("chat_id", chatID).Msg("webhook: failed to send welcome message")
	}
}

// attributeReferral links a brand-new user to the referrer named in the
// /start payload and notifies the referrer. Invalid or self-referencing
// parameters attribute nothing; none of this can fail the webhook.
func (h *Handler) attributeReferral(c *fiber.Ctx, message *TelegramMessage, user *model.User) {
	parts := strings.Fields(message.Text)
	if len(parts) < 2 {
		return
	}
	referrerTelegramID := service.ParseReferralParam(parts[1])
	if referrerTelegramID == "" {
		return
	}

	_, referrer, err := h.referralSvc.Attribute(c.Context(), user, referrerTelegramID)
	if err != nil {
		h.log.Warn().Err(err).
			Str("referred", user.TelegramID).
			Str("referrer", referrerTelegramID).
			Msg("webhook: referral attribution failed")
		return
	}

	referrerChatID, err := strconv.ParseInt(referrer.TelegramID, 10, 64)
	if err != nil {
		return
	}
	notice := "🎉 Great news! Someone joined using your referral link!\n" +
		"💰 You'll earn 10% commission from their earnings!"
	if err := h.notifier.SendMessage(referrerChatID, notice); err != nil {
		h.log.Warn().Err(err).Int64("chat_id", referrerChatID).Msg("webhook: failed to notify referrer")
	}
}

// handleBalance reports the balance without ever creating a user: unknown
// senders see a zero balance.
func (h *Handler) handleBalance(c *fiber.Ctx, from *TelegramSender, chatID int64) {
	balance := "0.000"
	user, err := h.userService.GetUserByTelegramID(c.Context(), strconv.FormatInt(from.ID, 10))
	if err == nil {
		balance = user.Balance.StringFixed(3)
	} else if !errors.Is(err, service.ErrUserNotFound) {
		h.log.Error().Err(err).Int64("telegram_id", from.ID).Msg("webhook: balance lookup failed")
	}

	if err := h.notifier.SendMessage(chatID, "💰 Your current balance: $"+balance); err != nil {
		h.log.Warn().Err(err).Int64("chat_id", chatID).Msg("webhook: failed to send balance")
	}
}

func (h *Handler) handleHelp(chatID int64) {
	help := `🐻 BearApp Commands:

/start - Start the bot and open app
/balance - Check your balance
/help - Show this help message

💡 Use the mini app to:
• Complete advertisement tasks
• Invite friends for 10% commission
• Withdraw your earnings

Click "Open BearApp" to get started!`

	if err := h.notifier.SendWebAppMessage(chatID, help, "🚀 Open BearApp"); err != nil {
		h.log.Warn().Err(err).Int64("chat_id", chatID).Msg("webhook: failed to send help")
	}
}
