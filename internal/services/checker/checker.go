package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Houeta/storewatch/internal/models"
	"github.com/Houeta/storewatch/internal/parser"
	"github.com/Houeta/storewatch/internal/services/dispatcher"
	"github.com/Houeta/storewatch/internal/services/notifier"
)

// ErrFetch marks a cycle aborted because the page could not be retrieved.
var ErrFetch = errors.New("fetch failed")

// RecipientLister provides the chats to notify.
type RecipientLister interface {
	Recipients() []models.Recipient
}

// Broadcaster delivers per-chat notification batches.
type Broadcaster interface {
	Broadcast(ctx context.Context, batches map[int64][]notifier.Notification) dispatcher.Report
}

// Publisher receives every non-empty change set.
type Publisher interface {
	Publish(ctx context.Context, changes models.Changes) error
}

// Result describes one finished check cycle.
type Result struct {
	Changes models.Changes
	// Seeded is set when the cycle stored the first baseline without notifying.
	Seeded bool
	// Unchanged is set when the page was identical to the last one seen.
	Unchanged bool
	// CountChanged is set when only the number of listed products moved.
	CountChanged bool
	// Products is the size of the baseline after the cycle.
	Products int
	Report   dispatcher.Report
}

// Checker is an orchestrator that performs a full verification cycle.
type Checker struct {
	log        *slog.Logger
	parser     parser.PageParser
	recipients RecipientLister
	broadcast  Broadcaster
	publisher  Publisher

	// cycleMu serializes whole cycles; mu guards the fields below.
	cycleMu   sync.Mutex
	mu        sync.RWMutex
	snapshot  models.Snapshot
	pageHash  string
	lastCheck time.Time
}

type Interface interface {
	// CheckForUpdates performs the full change checking algorithm.
	CheckForUpdates(ctx context.Context) (*Result, error)
	// Snapshot returns a copy of the current baseline.
	Snapshot() models.Snapshot
	// LastCheck returns the time of the last successful fetch.
	LastCheck() time.Time
}

// Option customises a Checker.
type Option func(*Checker)

// WithPublisher forwards every non-empty change set to pub.
func WithPublisher(pub Publisher) Option {
	return func(c *Checker) { c.publisher = pub }
}

// NewChecker creates a new Checker instance.
func NewChecker(
	log *slog.Logger,
	parser parser.PageParser,
	recipients RecipientLister,
	broadcast Broadcaster,
	opts ...Option,
) *Checker {
	c := &Checker{log: log, parser: parser, recipients: recipients, broadcast: broadcast}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CheckForUpdates performs the full change checking algorithm. Concurrent
// calls wait for the running cycle to finish.
func (c *Checker) CheckForUpdates(ctx context.Context) (*Result, error) {
	const opn = "checker.CheckForUpdates"
	log := c.log.With("op", opn)

	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()

	// 1. Retrieving the page and calculating a new hash
	log.InfoContext(ctx, "Fetching page to check for updates")
	body, err := c.parser.FetchPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", opn, ErrFetch, err)
	}

	newPageHash := calculateHash(body)
	log.DebugContext(ctx, "Calculated new page hash", "hash", newPageHash)

	c.mu.Lock()
	c.lastCheck = time.Now()
	baseline, oldPageHash := c.snapshot, c.pageHash
	c.mu.Unlock()

	// 2. Hash comparison
	if len(baseline) > 0 && oldPageHash == newPageHash {
		log.InfoContext(ctx, "Page hash has not changed. No updates.")
		return &Result{Unchanged: true, Products: len(baseline)}, nil
	}

	// 3. Full page parsing
	newProducts := c.parser.Extract(ctx, body)
	log.InfoContext(ctx, "Successfully parsed products", "count", len(newProducts))

	if len(newProducts) == 0 {
		if len(baseline) == 0 {
			log.InfoContext(ctx, "No products yet, nothing to store")
		} else {
			log.WarnContext(ctx, "Page yielded no products, keeping previous baseline", "baseline", len(baseline))
		}
		return &Result{Products: len(baseline)}, nil
	}

	// 4. First run: remember what is there without notifying anyone
	if len(baseline) == 0 {
		c.commit(newProducts, newPageHash)
		log.InfoContext(ctx, "Baseline seeded", "count", len(newProducts))
		return &Result{Seeded: true, Products: len(newProducts)}, nil
	}

	// 5. Product list comparison
	changes := DetectChanges(baseline, newProducts)
	log.InfoContext(ctx, "Change detection complete",
		"added", len(changes.Added),
		"removed", len(changes.Removed),
		"changed", len(changes.Changed),
	)

	result := &Result{Changes: changes, Products: len(newProducts)}
	switch {
	case !changes.IsEmpty():
		result.Report = c.notify(ctx, func(prefs models.Preferences) []notifier.Notification {
			return notifier.Classify(changes, prefs)
		})
		c.publish(ctx, changes)
	case len(baseline) != len(newProducts):
		log.InfoContext(ctx, "Product count changed without keyed changes",
			"old", len(baseline), "new", len(newProducts))
		result.CountChanged = true
		result.Report = c.notify(ctx, func(prefs models.Preferences) []notifier.Notification {
			return notifier.CountChanged(len(baseline), len(newProducts), prefs)
		})
	}

	// 6. Replacing the baseline and returning the result
	c.commit(newProducts, newPageHash)

	return result, nil
}

// notify renders per-recipient batches with classify and broadcasts them.
func (c *Checker) notify(ctx context.Context, classify func(models.Preferences) []notifier.Notification) dispatcher.Report {
	batches := make(map[int64][]notifier.Notification)
	for _, r := range c.recipients.Recipients() {
		if n := classify(r.Preferences); len(n) > 0 {
			batches[r.ChatID] = n
		}
	}

	if len(batches) == 0 {
		c.log.InfoContext(ctx, "No recipient wants these changes", "op", "checker.notify")
		return dispatcher.Report{}
	}

	return c.broadcast.Broadcast(ctx, batches)
}

func (c *Checker) publish(ctx context.Context, changes models.Changes) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, changes); err != nil {
		c.log.ErrorContext(ctx, "Failed to publish changes", "op", "checker.publish", "error", err)
	}
}

func (c *Checker) commit(products []models.Product, pageHash string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = slices.Clone(products)
	c.pageHash = pageHash
}

// Snapshot returns a copy of the current baseline.
func (c *Checker) Snapshot() models.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.snapshot)
}

// LastCheck returns the time of the last successful fetch, zero if none.
func (c *Checker) LastCheck() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastCheck
}

// Run performs the first check after initialDelay and then one every interval
// until ctx is canceled. Cycle errors are logged.
func (c *Checker) Run(ctx context.Context, initialDelay, interval time.Duration) {
	const opn = "checker.Run"
	log := c.log.With("op", opn)

	timer := time.NewTimer(initialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.InfoContext(ctx, "Periodic checks stopped")
			return
		case <-timer.C:
			if _, err := c.CheckForUpdates(ctx); err != nil {
				log.ErrorContext(ctx, "Check failed", "error", err)
			}
			timer.Reset(interval)
		}
	}
}
