package recipients

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Houeta/storewatch/internal/models"
	"github.com/Houeta/storewatch/internal/repository"
)

// Store holds recipient preferences in memory and mirrors every mutation to
// the repository. Memory is authoritative: persistence failures are logged.
type Store struct {
	log  *slog.Logger
	repo repository.RecipientRepository
	now  func() time.Time

	mu         sync.Mutex
	recipients map[int64]models.Recipient
}

// NewStore loads the stored recipients. A nil repo keeps the store in memory only.
func NewStore(ctx context.Context, log *slog.Logger, repo repository.RecipientRepository) *Store {
	const opn = "recipients.NewStore"

	s := &Store{
		log:        log.With("op", opn),
		repo:       repo,
		now:        time.Now,
		recipients: make(map[int64]models.Recipient),
	}

	if repo == nil {
		s.log.WarnContext(ctx, "No repository configured, recipients will not survive a restart")
		return s
	}

	loaded, err := repo.LoadRecipients(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load recipients, starting empty", "error", err)
		return s
	}
	s.recipients = loaded
	s.log.InfoContext(ctx, "Loaded recipients", "count", len(loaded))

	return s
}

// Get returns the preferences of chatID, or the defaults for an unknown chat.
func (s *Store) Get(chatID int64) models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.recipients[chatID]; ok {
		return r.Preferences
	}
	return models.DefaultPreferences()
}

// Register adds chatID with default preferences. It reports whether the chat was new.
func (s *Store) Register(ctx context.Context, chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipients[chatID]; ok {
		return false
	}

	s.recipients[chatID] = models.Recipient{
		ChatID:       chatID,
		Preferences:  models.DefaultPreferences(),
		Registered:   true,
		RegisteredAt: s.now().UTC().Truncate(time.Second),
	}
	s.persistLocked(ctx)

	return true
}

// Set applies update to the preferences of chatID, registering the chat when
// needed, and returns the stored result.
func (s *Store) Set(ctx context.Context, chatID int64, update func(*models.Preferences)) models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipients[chatID]
	if !ok {
		r = models.Recipient{
			ChatID:       chatID,
			Preferences:  models.DefaultPreferences(),
			Registered:   true,
			RegisteredAt: s.now().UTC().Truncate(time.Second),
		}
	}

	update(&r.Preferences)
	r.Preferences.PriceDecreaseThreshold = models.ClampThreshold(r.Preferences.PriceDecreaseThreshold)
	s.recipients[chatID] = r
	s.persistLocked(ctx)

	return r.Preferences
}

// Delete removes chatID. It reports whether the chat was known.
func (s *Store) Delete(ctx context.Context, chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipients[chatID]; !ok {
		return false
	}

	delete(s.recipients, chatID)
	s.persistLocked(ctx)

	return true
}

// Recipients returns a copy of all recipients ordered by chat ID.
func (s *Store) Recipients() []models.Recipient {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Recipient, 0, len(s.recipients))
	for _, r := range s.recipients {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b models.Recipient) int { return cmp.Compare(a.ChatID, b.ChatID) })

	return out
}

// Len returns the number of recipients.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.recipients)
}

// Persist writes the current set to the repository.
func (s *Store) Persist(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.repo == nil {
		return
	}

	snapshot := make(map[int64]models.Recipient, len(s.recipients))
	for id, r := range s.recipients {
		snapshot[id] = r
	}

	if err := s.repo.SaveRecipients(ctx, snapshot); err != nil {
		s.log.ErrorContext(ctx, "Failed to persist recipients", "error", err, "count", len(snapshot))
	}
}
