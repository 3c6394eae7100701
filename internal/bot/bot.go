package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Houeta/storewatch/internal/cache"
	"github.com/Houeta/storewatch/internal/services/checker"
	"gopkg.in/telebot.v4"
)

// Reply keyboard labels. Each one triggers the same handler as its command.
const (
	btnPrices   = "🛒 Mostra Prezzi"
	btnCheck    = "🔄 Controlla Ora"
	btnSettings = "⚙️ Impostazioni"
	btnInfo     = "ℹ️ Info"
)

// Bot contains the bot API instance and other information.
type Bot struct {
	ctx      context.Context //nolint:containedctx // handlers have no request context
	bot      API
	log      *slog.Logger
	watcher  checker.Interface
	prefs    PreferenceStore
	deliver  Deliverer
	awaiting cache.Service
}

// Deps are the services the bot front-end talks to.
type Deps struct {
	Watcher  checker.Interface
	Prefs    PreferenceStore
	Deliver  Deliverer
	Awaiting cache.Service
}

// NewClient connects to the Telegram bot API.
func NewClient(log *slog.Logger, token string, poller time.Duration) (*telebot.Bot, error) {
	client, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: poller},
		OnError: func(err error, c telebot.Context) {
			attrs := []any{"error", err}
			if c != nil && c.Chat() != nil {
				attrs = append(attrs, "chat_id", c.Chat().ID)
			}
			log.Error("Telegram handler failed", attrs...)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on account", "account", client.Me.Username)

	return client, nil
}

// NewBot wires the handlers onto api. ctx bounds the work started by handlers.
func NewBot(ctx context.Context, log *slog.Logger, api API, deps Deps) *Bot {
	botInstance := &Bot{
		ctx:      ctx,
		bot:      api,
		log:      log,
		watcher:  deps.Watcher,
		prefs:    deps.Prefs,
		deliver:  deps.Deliver,
		awaiting: deps.Awaiting,
	}

	botInstance.registerRoutes()

	return botInstance
}

// Start launches the bot to listen for updates.
func (b *Bot) Start() {
	b.log.Info("Telegram bot is starting...")
	b.bot.Start()
}

// Stop gracefully stops the Telegram bot and logs the action.
func (b *Bot) Stop() {
	b.log.Info("Telegram bot is stopped...")
	b.bot.Stop()
}

// registerRoutes configures all routes (commands).
func (b *Bot) registerRoutes() {
	// Public routes.
	b.bot.Handle("/start", b.startHandler)

	b.bot.Handle("/prezzi", b.pricesHandler)
	b.bot.Handle(btnPrices, b.pricesHandler)

	b.bot.Handle("/controlla", b.checkHandler)
	b.bot.Handle(btnCheck, b.checkHandler)

	b.bot.Handle("/impostazioni", b.settingsHandler)
	b.bot.Handle(btnSettings, b.settingsHandler)

	b.bot.Handle("/info", b.infoHandler)
	b.bot.Handle(btnInfo, b.infoHandler)

	b.bot.Handle(telebot.OnCallback, b.callbackHandler)
	b.bot.Handle(telebot.OnText, b.textHandler)
}

func mainMenu() *telebot.ReplyMarkup {
	menu := &telebot.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text(btnPrices), menu.Text(btnCheck)),
		menu.Row(menu.Text(btnSettings), menu.Text(btnInfo)),
	)
	return menu
}
