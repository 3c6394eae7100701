package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Houeta/storewatch/internal/services/notifier"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPause       = 500 * time.Millisecond
	defaultConcurrency = 4
)

// Remover forgets a recipient that can no longer be reached.
type Remover interface {
	Delete(ctx context.Context, chatID int64) bool
}

// Dispatcher sends notification sequences through a Transport.
type Dispatcher struct {
	log         *slog.Logger
	transport   Transport
	remover     Remover
	pause       time.Duration
	concurrency int
}

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithPause sets the delay between two messages to the same chat.
func WithPause(d time.Duration) Option {
	return func(dp *Dispatcher) {
		if d >= 0 {
			dp.pause = d
		}
	}
}

// WithConcurrency limits how many chats are served at once by Broadcast.
func WithConcurrency(n int) Option {
	return func(dp *Dispatcher) {
		if n > 0 {
			dp.concurrency = n
		}
	}
}

// New creates a Dispatcher. remover may be nil.
func New(log *slog.Logger, transport Transport, remover Remover, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		log:         log,
		transport:   transport,
		remover:     remover,
		pause:       defaultPause,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Deliver sends notifications to chatID in order.
//
// A photo rejected as a bad request is resent once as text. Any other failure
// skips the message, except a forbidden chat: it is removed and the rest of the
// sequence is abandoned with ErrRecipientUnreachable.
func (d *Dispatcher) Deliver(ctx context.Context, chatID int64, notifications []notifier.Notification) error {
	const opn = "dispatcher.Deliver"
	log := d.log.With("op", opn, "chat_id", chatID)

	for i, n := range notifications {
		if i > 0 {
			if err := d.wait(ctx); err != nil {
				return fmt.Errorf("%s: %w", opn, err)
			}
		}

		err := d.send(ctx, chatID, n)
		if err == nil {
			continue
		}

		if KindOf(err) == KindForbidden {
			log.WarnContext(ctx, "Chat refused delivery, removing recipient", "error", err)
			if d.remover != nil {
				d.remover.Delete(ctx, chatID)
			}
			return fmt.Errorf("%s: chat %d: %w", opn, chatID, ErrRecipientUnreachable)
		}

		log.ErrorContext(ctx, "Failed to deliver notification, skipping", "kind", n.Kind, "error", err)
	}

	return nil
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, n notifier.Notification) error {
	content := contentFor(n)

	err := d.transport.Deliver(ctx, chatID, content)
	if _, isPhoto := content.(ContentPhoto); isPhoto && KindOf(err) == KindBadRequest {
		d.log.DebugContext(ctx, "Photo rejected, falling back to text", "chat_id", chatID, "error", err)
		return d.transport.Deliver(ctx, chatID, ContentText{Text: n.Text})
	}

	return err
}

func (d *Dispatcher) wait(ctx context.Context) error {
	if d.pause <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d.pause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Report sums up a Broadcast.
type Report struct {
	Recipients  int
	Delivered   int
	Unreachable []int64
	Failed      int
}

// Broadcast delivers every batch concurrently, at most concurrency chats at a
// time. Chats with an empty batch are skipped.
func (d *Dispatcher) Broadcast(ctx context.Context, batches map[int64][]notifier.Notification) Report {
	const opn = "dispatcher.Broadcast"

	ids := make([]int64, 0, len(batches))
	for id, batch := range batches {
		if len(batch) > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	var (
		mu     sync.Mutex
		report = Report{Recipients: len(ids)}
		group  errgroup.Group
	)
	group.SetLimit(d.concurrency)

	for _, id := range ids {
		group.Go(func() error {
			err := d.Deliver(ctx, id, batches[id])

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				report.Delivered++
			case errors.Is(err, ErrRecipientUnreachable):
				report.Unreachable = append(report.Unreachable, id)
			default:
				report.Failed++
			}
			return nil
		})
	}
	_ = group.Wait()

	slices.Sort(report.Unreachable)
	d.log.InfoContext(ctx, "Broadcast complete", "op", opn,
		"recipients", report.Recipients, "delivered", report.Delivered,
		"unreachable", len(report.Unreachable), "failed", report.Failed)

	return report
}
