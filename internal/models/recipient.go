package models

import "time"

// Threshold bounds for a price decrease, in percent.
const (
	MinThreshold = 0
	MaxThreshold = 100
)

// Preferences holds the per-recipient notification rules.
type Preferences struct {
	NotifyNew              bool
	NotifyRemoved          bool
	NotifyPriceIncrease    bool
	NotifyAllChanges       bool
	PriceDecreaseThreshold int // 0 means any decrease qualifies
	NotificationsEnabled   bool
}

// DefaultPreferences returns the preferences applied to new and legacy recipients.
func DefaultPreferences() Preferences {
	return Preferences{
		NotifyNew:              true,
		NotifyRemoved:          true,
		NotifyPriceIncrease:    false,
		NotifyAllChanges:       false,
		PriceDecreaseThreshold: 0,
		NotificationsEnabled:   true,
	}
}

// ClampThreshold forces a threshold into [MinThreshold, MaxThreshold].
func ClampThreshold(v int) int {
	return max(MinThreshold, min(MaxThreshold, v))
}

// Recipient is a chat that receives change notifications.
type Recipient struct {
	ChatID       int64
	Preferences  Preferences
	Registered   bool
	RegisteredAt time.Time
}
