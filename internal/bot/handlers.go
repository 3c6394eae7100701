package bot

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/Houeta/storewatch/internal/services/checker"
	"github.com/Houeta/storewatch/internal/services/dispatcher"
	"github.com/Houeta/storewatch/internal/services/notifier"
	"gopkg.in/telebot.v4"
)

const (
	msgPricesWait  = "⏳ Recupero la lista dei prodotti, attendi un momento..."
	msgPricesEmpty = "📭 La lista dei prodotti è ancora vuota o in fase di caricamento. Riprova tra poco."
	msgPricesDone  = "✅ Lista prodotti inviata!"
	msgCheckWait   = "⏳ Avvio controllo manuale dei prodotti..."
	msgCheckFailed = "⚠️ Si è verificato un errore durante il controllo manuale. Riprova più tardi."
	msgCheckNone   = "✅ Controllo manuale completato. Nessun cambiamento trovato."

	lastCheckLayout = "02/01/2006 15:04"
)

// startHandler process command /start.
func (b *Bot) startHandler(ctx telebot.Context) error {
	b.log.Info("User started the bot", "username", ctx.Sender().Username, "chat_id", ctx.Chat().ID)

	if b.prefs.Register(b.ctx, ctx.Chat().ID) {
		b.log.Info("New recipient registered", "chat_id", ctx.Chat().ID)
	}

	greeting := fmt.Sprintf("Ciao %s! 👋 Sono il bot che monitora i prodotti del negozio. "+
		"Riceverai una notifica quando qualcosa cambia. "+
		"Usa i bottoni qui sotto o il comando /prezzi per vedere la lista attuale.",
		html.EscapeString(ctx.Sender().FirstName))

	if err := ctx.Send(greeting, mainMenu(), telebot.ModeHTML); err != nil {
		return fmt.Errorf("failed to send greeting message: %w", err)
	}

	return nil
}

// pricesHandler sends the current baseline, one message per product.
func (b *Bot) pricesHandler(ctx telebot.Context) error {
	chat := ctx.Chat()

	wait, err := b.bot.Send(chat, msgPricesWait)
	if err != nil {
		return fmt.Errorf("failed to send wait message: %w", err)
	}

	snapshot := b.watcher.Snapshot()
	if len(snapshot) == 0 {
		if _, err = b.bot.Edit(wait, msgPricesEmpty); err != nil {
			return fmt.Errorf("failed to edit wait message: %w", err)
		}
		return nil
	}

	if err = b.bot.Delete(wait); err != nil {
		b.log.Warn("Failed to delete wait message", "chat_id", chat.ID, "error", err)
	}

	listing := make([]notifier.Notification, 0, len(snapshot)+2) //nolint:mnd // header and footer
	listing = append(listing, notifier.Notification{
		Kind: notifier.KindListing,
		Text: fmt.Sprintf("🛒 <b>Lista prodotti attuali (%d)</b>", len(snapshot)),
	})
	for _, p := range snapshot {
		listing = append(listing, notifier.Notification{
			Kind:    notifier.KindListing,
			Text:    "📦 " + notifier.RenderProduct(p),
			Product: p,
		})
	}
	listing = append(listing, notifier.Notification{Kind: notifier.KindListing, Text: msgPricesDone})

	err = b.deliver.Deliver(b.ctx, chat.ID, listing)
	if errors.Is(err, dispatcher.ErrRecipientUnreachable) {
		b.log.Info("Chat left while receiving the product list", "chat_id", chat.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to deliver product list: %w", err)
	}

	return nil
}

// checkHandler runs a check cycle on demand and reports its outcome.
func (b *Bot) checkHandler(ctx telebot.Context) error {
	chat := ctx.Chat()
	b.log.Info("Manual check requested", "chat_id", chat.ID)

	wait, err := b.bot.Send(chat, msgCheckWait)
	if err != nil {
		return fmt.Errorf("failed to send wait message: %w", err)
	}

	res, checkErr := b.watcher.CheckForUpdates(b.ctx)
	if checkErr != nil {
		b.log.Error("Manual check failed", "chat_id", chat.ID, "error", checkErr)
	}

	if _, err = b.bot.Edit(wait, checkOutcome(res, checkErr)); err != nil {
		return fmt.Errorf("failed to edit wait message: %w", err)
	}

	return nil
}

func checkOutcome(res *checker.Result, err error) string {
	switch {
	case err != nil || res == nil:
		return msgCheckFailed
	case res.Seeded:
		return fmt.Sprintf("✅ Controllo manuale completato. Prima lettura: %d prodotti memorizzati.", res.Products)
	case res.Changes.IsEmpty():
		return msgCheckNone
	default:
		return fmt.Sprintf("✅ Controllo manuale completato. Trovati %d cambiamenti, le notifiche sono state inviate.",
			res.Changes.Total())
	}
}

// infoHandler reports what the watcher is doing.
func (b *Bot) infoHandler(ctx telebot.Context) error {
	if err := ctx.Send(b.infoText(), telebot.ModeHTML); err != nil {
		return fmt.Errorf("failed to send info message: %w", err)
	}
	return nil
}

func (b *Bot) infoText() string {
	lastCheck := "mai"
	if ts := b.watcher.LastCheck(); !ts.IsZero() {
		lastCheck = ts.Local().Format(lastCheckLayout)
	}

	var sb strings.Builder
	sb.WriteString("ℹ️ <b>Stato del monitoraggio</b>\n\n")
	fmt.Fprintf(&sb, "📦 Prodotti monitorati: %d\n", len(b.watcher.Snapshot()))
	fmt.Fprintf(&sb, "👥 Destinatari: %d\n", b.prefs.Len())
	fmt.Fprintf(&sb, "🕒 Ultimo controllo: %s", lastCheck)

	return sb.String()
}

// textHandler catches free text, used for answers to pending questions.
func (b *Bot) textHandler(ctx telebot.Context) error {
	reply, handled := b.handleThresholdReply(ctx.Chat().ID, ctx.Text())
	if !handled {
		return nil
	}

	if err := ctx.Send(reply, telebot.ModeHTML); err != nil {
		return fmt.Errorf("failed to send threshold reply: %w", err)
	}
	return nil
}
