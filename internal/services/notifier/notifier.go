package notifier

import (
	"github.com/Houeta/storewatch/internal/models"
)

// Kind tells which part of a change set a notification describes.
type Kind string

const (
	KindSummary Kind = "summary"
	KindAdded   Kind = "added"
	KindRemoved Kind = "removed"
	KindChanged Kind = "changed"
	KindListing Kind = "listing"
	KindCount   Kind = "count"
)

// Notification is one rendered message for one recipient.
type Notification struct {
	Kind Kind
	// Text is Telegram HTML.
	Text string
	// Product is the record the message is about; its image may be attached.
	Product models.Product
	// TextOnly forbids attaching the product image.
	TextOnly bool
}

// Classify decides which entries of changes the recipient wants to hear about
// and renders them. The result is empty when notifications are disabled or
// there is nothing to report.
func Classify(changes models.Changes, prefs models.Preferences) []Notification {
	if !prefs.NotificationsEnabled || changes.IsEmpty() {
		return nil
	}

	out := []Notification{{Kind: KindSummary, Text: renderSummary(changes)}}

	if prefs.NotifyNew {
		for _, p := range changes.Added {
			out = append(out, Notification{Kind: KindAdded, Text: renderAdded(p), Product: p})
		}
	}

	if prefs.NotifyRemoved || prefs.NotifyAllChanges {
		for _, p := range changes.Removed {
			out = append(out, Notification{Kind: KindRemoved, Text: renderRemoved(p), Product: p, TextOnly: true})
		}
	}

	for _, change := range changes.Changed {
		if wantsChange(change, prefs) {
			out = append(out, Notification{Kind: KindChanged, Text: renderChanged(change), Product: change.New})
		}
	}

	return out
}

// CountChanged reports a product count that moved while no individual product
// did, which happens when a page lists the same product more than once.
func CountChanged(oldCount, newCount int, prefs models.Preferences) []Notification {
	if !prefs.NotificationsEnabled || oldCount == newCount {
		return nil
	}

	return []Notification{{Kind: KindCount, Text: renderCount(oldCount, newCount), TextOnly: true}}
}

func wantsChange(change models.ChangeInfo, prefs models.Preferences) bool {
	if prefs.NotifyAllChanges {
		return true
	}

	for _, fd := range change.Fields {
		if fd.Field != models.FieldPrice {
			continue
		}
		move, pct := comparePrices(fd.Old, fd.New)
		switch move {
		case priceDecrease:
			if prefs.PriceDecreaseThreshold == 0 || pct >= float64(prefs.PriceDecreaseThreshold) {
				return true
			}
		case priceIncrease:
			if prefs.NotifyPriceIncrease {
				return true
			}
		case priceOther:
		}
	}

	return false
}
