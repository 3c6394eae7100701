package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Houeta/storewatch/internal/cache"
	"github.com/Houeta/storewatch/internal/models"
	"gopkg.in/telebot.v4"
)

// Inline keyboard callback data.
const (
	cbToggleNew           = "toggle_new"
	cbToggleRemoved       = "toggle_removed"
	cbToggleIncrease      = "toggle_increase"
	cbToggleAll           = "toggle_all"
	cbToggleNotifications = "toggle_notifications"
	cbSetThreshold        = "set_threshold"
	cbCloseSettings       = "close_settings"
)

const (
	thresholdTTL      = 5 * time.Minute
	thresholdArmed    = "armed"
	thresholdRetrying = "retrying"

	msgThresholdPrompt  = "✏️ Invia la soglia di ribasso in percentuale, da 0 a 100.\n0 = qualsiasi ribasso."
	msgThresholdInvalid = "⚠️ Valore non valido. Invia un numero intero da 0 a 100."
	msgThresholdAborted = "⚠️ Valore non valido. Impostazione annullata: riapri ⚙️ Impostazioni per riprovare."
)

var toggles = map[string]func(*models.Preferences){
	cbToggleNew:           func(p *models.Preferences) { p.NotifyNew = !p.NotifyNew },
	cbToggleRemoved:       func(p *models.Preferences) { p.NotifyRemoved = !p.NotifyRemoved },
	cbToggleIncrease:      func(p *models.Preferences) { p.NotifyPriceIncrease = !p.NotifyPriceIncrease },
	cbToggleAll:           func(p *models.Preferences) { p.NotifyAllChanges = !p.NotifyAllChanges },
	cbToggleNotifications: func(p *models.Preferences) { p.NotificationsEnabled = !p.NotificationsEnabled },
}

// settingsHandler shows the preferences of the chat with an inline keyboard.
func (b *Bot) settingsHandler(ctx telebot.Context) error {
	prefs := b.prefs.Get(ctx.Chat().ID)

	if err := ctx.Send(settingsText(prefs), settingsKeyboard(prefs), telebot.ModeHTML); err != nil {
		return fmt.Errorf("failed to send settings: %w", err)
	}
	return nil
}

// callbackHandler handles the settings keyboard.
func (b *Bot) callbackHandler(ctx telebot.Context) error {
	chatID := ctx.Chat().ID
	data := strings.TrimSpace(ctx.Callback().Data)

	if toggle, ok := toggles[data]; ok {
		prefs := b.prefs.Set(b.ctx, chatID, toggle)
		if err := ctx.Respond(&telebot.CallbackResponse{Text: "✅ Aggiornato"}); err != nil {
			b.log.Warn("Failed to answer callback", "chat_id", chatID, "error", err)
		}
		if err := ctx.Edit(settingsText(prefs), settingsKeyboard(prefs), telebot.ModeHTML); err != nil {
			return fmt.Errorf("failed to refresh settings: %w", err)
		}
		return nil
	}

	switch data {
	case cbSetThreshold:
		if err := b.armThreshold(chatID, thresholdArmed); err != nil {
			b.log.Error("Failed to wait for threshold", "chat_id", chatID, "error", err)
			return ctx.Respond(&telebot.CallbackResponse{Text: "⚠️ Riprova più tardi"})
		}
		if err := ctx.Respond(); err != nil {
			b.log.Warn("Failed to answer callback", "chat_id", chatID, "error", err)
		}
		if err := ctx.Send(msgThresholdPrompt); err != nil {
			return fmt.Errorf("failed to send threshold prompt: %w", err)
		}
	case cbCloseSettings:
		if err := ctx.Respond(); err != nil {
			b.log.Warn("Failed to answer callback", "chat_id", chatID, "error", err)
		}
		if err := ctx.Delete(); err != nil {
			return fmt.Errorf("failed to close settings: %w", err)
		}
	default:
		b.log.Debug("Unknown callback", "chat_id", chatID, "data", data)
		return ctx.Respond()
	}

	return nil
}

func thresholdKey(chatID int64) string {
	return "threshold:" + strconv.FormatInt(chatID, 10)
}

func (b *Bot) armThreshold(chatID int64, state string) error {
	return b.awaiting.Set(thresholdKey(chatID), []byte(state), thresholdTTL)
}

// handleThresholdReply consumes text sent after the threshold prompt. It
// reports false when the chat was not asked for a threshold.
func (b *Bot) handleThresholdReply(chatID int64, text string) (string, bool) {
	key := thresholdKey(chatID)

	state, err := b.awaiting.Get(key)
	if errors.Is(err, cache.ErrMiss) {
		return "", false
	}
	if err != nil {
		b.log.Error("Failed to read pending question", "chat_id", chatID, "error", err)
		return "", false
	}

	value, ok := parseThreshold(text)
	if !ok {
		if string(state) == thresholdArmed {
			if err = b.armThreshold(chatID, thresholdRetrying); err != nil {
				b.log.Error("Failed to wait for threshold", "chat_id", chatID, "error", err)
			}
			return msgThresholdInvalid, true
		}
		b.clearThreshold(key)
		return msgThresholdAborted, true
	}

	b.clearThreshold(key)
	b.prefs.Set(b.ctx, chatID, func(p *models.Preferences) { p.PriceDecreaseThreshold = value })

	if value == 0 {
		return "✅ Soglia impostata: riceverai ogni ribasso di prezzo.", true
	}
	return fmt.Sprintf("✅ Soglia impostata: riceverai i ribassi di almeno il %d%%.", value), true
}

func (b *Bot) clearThreshold(key string) {
	if err := b.awaiting.Delete(key); err != nil {
		b.log.Error("Failed to clear pending question", "key", key, "error", err)
	}
}

func parseThreshold(text string) (int, bool) {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "%"))
	v, err := strconv.Atoi(text)
	if err != nil || v < models.MinThreshold || v > models.MaxThreshold {
		return 0, false
	}
	return v, true
}

func settingsText(p models.Preferences) string {
	var sb strings.Builder

	sb.WriteString("⚙️ <b>Impostazioni notifiche</b>\n\n")
	fmt.Fprintf(&sb, "🔔 Notifiche: %s\n", onOff(p.NotificationsEnabled))
	fmt.Fprintf(&sb, "🆕 Nuovi prodotti: %s\n", mark(p.NotifyNew))
	fmt.Fprintf(&sb, "🗑 Prodotti rimossi: %s\n", mark(p.NotifyRemoved))
	fmt.Fprintf(&sb, "📈 Aumenti di prezzo: %s\n", mark(p.NotifyPriceIncrease))
	fmt.Fprintf(&sb, "🔁 Tutte le modifiche: %s\n", mark(p.NotifyAllChanges))
	fmt.Fprintf(&sb, "📉 Soglia ribasso: %s", thresholdLabel(p.PriceDecreaseThreshold))

	return sb.String()
}

func settingsKeyboard(p models.Preferences) *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{InlineKeyboard: [][]telebot.InlineButton{
		{
			{Text: "🆕 Nuovi " + mark(p.NotifyNew), Data: cbToggleNew},
			{Text: "🗑 Rimossi " + mark(p.NotifyRemoved), Data: cbToggleRemoved},
		},
		{
			{Text: "📈 Aumenti " + mark(p.NotifyPriceIncrease), Data: cbToggleIncrease},
			{Text: "🔁 Tutte " + mark(p.NotifyAllChanges), Data: cbToggleAll},
		},
		{{Text: "📉 Soglia: " + thresholdLabel(p.PriceDecreaseThreshold), Data: cbSetThreshold}},
		{{Text: "🔔 Notifiche " + mark(p.NotificationsEnabled), Data: cbToggleNotifications}},
		{{Text: "✖️ Chiudi", Data: cbCloseSettings}},
	}}
}

func thresholdLabel(v int) string {
	if v == 0 {
		return "qualsiasi"
	}
	return strconv.Itoa(v) + "%"
}

func onOff(v bool) string {
	if v {
		return "✅ attive"
	}
	return "❌ disattivate"
}

func mark(v bool) string {
	if v {
		return "✅"
	}
	return "❌"
}
