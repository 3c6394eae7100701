package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/Houeta/storewatch/internal/models"
)

const (
	maxValueLen   = 50
	truncatedLen  = 47
	missingValue  = "N/D"
	linkLabel     = "Vedi su Amazon"
	diffSeparator = " → "
)

var fieldLabels = map[string]string{
	models.FieldTitle:  "Titolo",
	models.FieldPrice:  "Prezzo",
	models.FieldLink:   "Link",
	models.FieldImage:  "Immagine",
	models.FieldRating: "Valutazione",
}

// RenderProduct formats a single snapshot entry.
func RenderProduct(p models.Product) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>%s</b>\n", esc(p.Title))
	fmt.Fprintf(&b, "💰 Prezzo: %s", esc(orMissing(p.Price)))
	if p.Rating != "" {
		fmt.Fprintf(&b, "\n⭐ Valutazione: %s", esc(p.Rating))
	}
	if p.Link != "" {
		fmt.Fprintf(&b, "\n🔗 <a href=\"%s\">%s</a>", esc(p.Link), linkLabel)
	}

	return b.String()
}

func renderSummary(changes models.Changes) string {
	var b strings.Builder

	b.WriteString("🔔 <b>Aggiornamento prodotti</b>\n")
	fmt.Fprintf(&b, "\n🆕 Nuovi: %d", len(changes.Added))
	fmt.Fprintf(&b, "\n❌ Rimossi: %d", len(changes.Removed))
	fmt.Fprintf(&b, "\n✏️ Modificati: %d", len(changes.Changed))

	return b.String()
}

func renderCount(oldCount, newCount int) string {
	return fmt.Sprintf("ℹ️ Il numero totale di prodotti è cambiato da %d a %d.", oldCount, newCount)
}

func renderAdded(p models.Product) string {
	return "🆕 <b>Nuovo prodotto</b>\n\n" + RenderProduct(p)
}

func renderRemoved(p models.Product) string {
	return "❌ <b>Prodotto rimosso</b>\n\n" + RenderProduct(p)
}

func renderChanged(change models.ChangeInfo) string {
	var b strings.Builder

	b.WriteString("✏️ <b>Prodotto modificato</b>\n\n")
	fmt.Fprintf(&b, "<b>%s</b>\n", esc(change.New.Title))

	for _, fd := range change.Fields {
		fmt.Fprintf(&b, "\n• %s: <s>%s</s>%s<b>%s</b>",
			fieldLabels[fd.Field], esc(shorten(fd.Old)), diffSeparator, esc(shorten(fd.New)))
		if fd.Field == models.FieldPrice {
			b.WriteString(renderMove(fd.Old, fd.New))
		}
	}

	if change.New.Link != "" {
		fmt.Fprintf(&b, "\n\n🔗 <a href=\"%s\">%s</a>", esc(change.New.Link), linkLabel)
	}

	return b.String()
}

func renderMove(oldPrice, newPrice string) string {
	move, pct := comparePrices(oldPrice, newPrice)
	switch move {
	case priceDecrease:
		return fmt.Sprintf(" 📉 -%.0f%%", pct)
	case priceIncrease:
		return fmt.Sprintf(" 📈 +%.0f%%", pct)
	case priceOther:
	}
	return ""
}

// shorten cuts display values longer than maxValueLen runes.
func shorten(s string) string {
	s = orMissing(s)
	runes := []rune(s)
	if len(runes) <= maxValueLen {
		return s
	}
	return string(runes[:truncatedLen]) + "..."
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return missingValue
	}
	return s
}

func esc(s string) string {
	return html.EscapeString(s)
}
