package bot

import (
	"context"

	"github.com/Houeta/storewatch/internal/models"
	"github.com/Houeta/storewatch/internal/services/notifier"
	"gopkg.in/telebot.v4"
)

type API interface {
	// Handle lets you set the handler for some command name or one of the supported endpoints. It also applies middleware if such passed to the function.
	Handle(endpoint interface{}, h telebot.HandlerFunc, m ...telebot.MiddlewareFunc)
	// Start brings bot into motion by consuming incoming updates (see Bot.Updates channel).
	Start()
	// Stop gracefully shuts the poller down.
	Stop()

	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)

	Edit(msg telebot.Editable, what interface{}, opts ...interface{}) (*telebot.Message, error)

	Delete(msg telebot.Editable) error
}

// PreferenceStore keeps per-chat notification settings.
type PreferenceStore interface {
	Get(chatID int64) models.Preferences
	Set(ctx context.Context, chatID int64, update func(*models.Preferences)) models.Preferences
	Register(ctx context.Context, chatID int64) bool
	Len() int
}

// Deliverer sends an ordered message sequence to one chat.
type Deliverer interface {
	Deliver(ctx context.Context, chatID int64, notifications []notifier.Notification) error
}
