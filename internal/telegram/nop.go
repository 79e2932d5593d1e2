package telegram

// NopNotifier drops every message. Used when no bot token is configured so
// the rest of the system keeps working without outbound notifications.
type NopNotifier struct{}

func (NopNotifier) SendMessage(chatID int64, text string) error { return nil }

func (NopNotifier) SendWebAppMessage(chatID int64, text, buttonText string) error { return nil }

var _ Notifier = NopNotifier{}
