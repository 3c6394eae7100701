package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/Houeta/storewatch/internal/models"
)

// LoadRecipients returns all stored recipients. Missing preference values are
// back-filled with defaults.
func (r *Repository) LoadRecipients(ctx context.Context) (map[int64]models.Recipient, error) {
	const opn = "repository.sqlite.LoadRecipients"

	rows, err := r.db.QueryContext(ctx, `SELECT chat_id, notify_new, notify_removed, notify_price_increase,
		notify_all_changes, price_decrease_threshold, notifications_enabled, registered_at FROM recipients`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	defer rows.Close()

	recipients := make(map[int64]models.Recipient)
	for rows.Next() {
		var (
			chatID                                   int64
			notifyNew, notifyRemoved, notifyIncrease sql.NullBool
			notifyAll, notificationsEnabled          sql.NullBool
			threshold                                sql.NullInt64
			registeredAt                             sql.NullString
		)
		if err = rows.Scan(&chatID, &notifyNew, &notifyRemoved, &notifyIncrease,
			&notifyAll, &threshold, &notificationsEnabled, &registeredAt); err != nil {
			return nil, fmt.Errorf("%s: failed to scan recipient: %w", opn, err)
		}

		prefs := models.DefaultPreferences()
		backfill(&prefs.NotifyNew, notifyNew)
		backfill(&prefs.NotifyRemoved, notifyRemoved)
		backfill(&prefs.NotifyPriceIncrease, notifyIncrease)
		backfill(&prefs.NotifyAllChanges, notifyAll)
		backfill(&prefs.NotificationsEnabled, notificationsEnabled)
		if threshold.Valid {
			prefs.PriceDecreaseThreshold = models.ClampThreshold(int(threshold.Int64))
		}

		recipient := models.Recipient{ChatID: chatID, Preferences: prefs, Registered: true}
		if registeredAt.Valid {
			if ts, parseErr := time.Parse(time.RFC3339, registeredAt.String); parseErr == nil {
				recipient.RegisteredAt = ts
			}
		}
		recipients[chatID] = recipient
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return recipients, nil
}

// SaveRecipients atomically replaces the stored recipients using a transaction.
func (r *Repository) SaveRecipients(ctx context.Context, recipients map[int64]models.Recipient) error {
	const opn = "repository.sqlite.SaveRecipients"

	// 1. begin transaction
	tx, err := r.db.BeginTx(ctx, nil) //nolint:varnamelen // tx its a default naming for transaction
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer tx.Rollback() //nolint:errcheck // after Commit the rollback only returns sql.ErrTxDone

	// 2. Completely clear the table to record the new current state.
	if _, err = tx.ExecContext(ctx, "DELETE FROM recipients"); err != nil {
		return fmt.Errorf("%s: failed to delete old recipients: %w", opn, err)
	}

	// 3. Preparing a request for the effective insertion of recipients.
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO recipients (chat_id, notify_new, notify_removed,
		notify_price_increase, notify_all_changes, price_decrease_threshold, notifications_enabled, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare insert statement: %w", opn, err)
	}
	defer stmt.Close()

	// 4. Insert recipients in chat ID order.
	ids := make([]int64, 0, len(recipients))
	for id := range recipients {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		rcp := recipients[id]
		prefs := rcp.Preferences
		if _, err = stmt.ExecContext(ctx, id, prefs.NotifyNew, prefs.NotifyRemoved, prefs.NotifyPriceIncrease,
			prefs.NotifyAllChanges, prefs.PriceDecreaseThreshold, prefs.NotificationsEnabled,
			formatTime(rcp.RegisteredAt)); err != nil {
			return fmt.Errorf("%s: failed to insert recipient %d: %w", opn, id, err)
		}
	}

	// 5. If all operations went through without errors - confirm the transaction.
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}

	return nil
}

func backfill(dst *bool, v sql.NullBool) {
	if v.Valid {
		*dst = v.Bool
	}
}

func formatTime(ts time.Time) sql.NullString {
	if ts.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: ts.UTC().Format(time.RFC3339), Valid: true}
}
