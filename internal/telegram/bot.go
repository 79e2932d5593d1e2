package telegram

import (
	"fmt"

	tele "gopkg.in/telebot.v3"

	"github.com/Otszy/Bear-App/internal/config"
)

// Notifier delivers outbound bot messages. Delivery is fire-and-forget for
// callers: a failed send must never fail the request that triggered it.
type Notifier interface {
	SendMessage(chatID int64, text string) error
	SendWebAppMessage(chatID int64, text, buttonText string) error
}

// Bot is a send-only Telegram client. Inbound updates arrive through the
// webhook handler, not through polling, so no poller is started.
type Bot struct {
	bot       *tele.Bot
	webAppURL string
}

func NewBot(cfg *config.Config) (*Bot, error) {
	pref := tele.Settings{
		Token: cfg.Telegram.BotToken,
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		bot:       bot,
		webAppURL: cfg.Telegram.WebAppURL,
	}, nil
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	_, err := b.bot.Send(&tele.User{ID: chatID}, text, tele.ModeHTML)
	return err
}

// SendWebAppMessage sends a message with a single inline button opening the
// mini-app.
func (b *Bot) SendWebAppMessage(chatID int64, text, buttonText string) error {
	keyboard := &tele.ReplyMarkup{}
	keyboard.Inline(
		keyboard.Row(
			keyboard.WebApp(buttonText, &tele.WebApp{URL: b.webAppURL}),
		),
	)

	_, err := b.bot.Send(&tele.User{ID: chatID}, text, keyboard, tele.ModeHTML)
	return err
}

var _ Notifier = (*Bot)(nil)
