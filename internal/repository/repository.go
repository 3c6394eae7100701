package repository

import (
	"context"

	"github.com/Houeta/storewatch/internal/models"
)

// RecipientRepository is the key-value persistence contract of the recipient store.
type RecipientRepository interface {
	// LoadRecipients returns every stored recipient keyed by chat ID.
	LoadRecipients(ctx context.Context) (map[int64]models.Recipient, error)
	// SaveRecipients replaces the stored set with recipients.
	SaveRecipients(ctx context.Context, recipients map[int64]models.Recipient) error
}
