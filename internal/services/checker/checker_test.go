package checker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Houeta/storewatch/internal/models"
	"github.com/Houeta/storewatch/internal/services/checker"
	"github.com/Houeta/storewatch/internal/services/dispatcher"
	"github.com/Houeta/storewatch/internal/services/notifier"
	"github.com/Houeta/storewatch/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	productA    = models.Product{Title: "A", Price: "10,00 €", Link: "https://www.amazon.it/dp/A", Image: "https://m.media-amazon.com/images/I/a.jpg"}
	productB    = models.Product{Title: "B", Price: "20,00 €", Link: "https://www.amazon.it/dp/B", Image: "https://m.media-amazon.com/images/I/b.jpg"}
	productBNew = models.Product{Title: "B", Price: "15,00 €", Link: "https://www.amazon.it/dp/B", Image: "https://m.media-amazon.com/images/I/b.jpg"}
	productC    = models.Product{Title: "C", Price: "30,00 €", Link: "https://www.amazon.it/dp/C", Image: "https://m.media-amazon.com/images/I/c.jpg"}
)

type checkerMocks struct {
	parser     *mocks.PageParser
	recipients *mocks.RecipientLister
	broadcast  *mocks.Broadcaster
	publisher  *mocks.Publisher
}

func newChecker(t *testing.T) (*checker.Checker, checkerMocks) {
	t.Helper()

	m := checkerMocks{
		parser:     mocks.NewPageParser(t),
		recipients: mocks.NewRecipientLister(t),
		broadcast:  mocks.NewBroadcaster(t),
		publisher:  mocks.NewPublisher(t),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := checker.NewChecker(logger, m.parser, m.recipients, m.broadcast, checker.WithPublisher(m.publisher))

	return c, m
}

// seed runs a first cycle that stores products as the baseline.
func seed(t *testing.T, c *checker.Checker, m checkerMocks, products ...models.Product) {
	t.Helper()

	body := []byte("seed page")
	m.parser.On("FetchPage", mock.Anything).Return(body, nil).Once()
	m.parser.On("Extract", mock.Anything, body).Return(products).Once()

	res, err := c.CheckForUpdates(t.Context())
	require.NoError(t, err)
	require.True(t, res.Seeded)
}

func TestChecker_FetchError(t *testing.T) {
	t.Parallel()

	c, m := newChecker(t)
	netErr := errors.New("network error")
	m.parser.On("FetchPage", mock.Anything).Return(nil, netErr).Once()

	res, err := c.CheckForUpdates(t.Context())

	require.Error(t, err)
	assert.Nil(t, res)
	require.ErrorIs(t, err, checker.ErrFetch)
	require.ErrorIs(t, err, netErr)
	assert.Empty(t, c.Snapshot())
	assert.True(t, c.LastCheck().IsZero())
}

func TestChecker_FirstRunSeedsSilently(t *testing.T) {
	t.Parallel()

	c, m := newChecker(t)

	seed(t, c, m, productA, productB)

	assert.Equal(t, models.Snapshot{productA, productB}, c.Snapshot())
	assert.False(t, c.LastCheck().IsZero())
	m.recipients.AssertNotCalled(t, "Recipients")
	m.broadcast.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)
}

func TestChecker_UnchangedPageSkipsExtraction(t *testing.T) {
	t.Parallel()

	c, m := newChecker(t)
	seed(t, c, m, productA)

	m.parser.On("FetchPage", mock.Anything).Return([]byte("seed page"), nil).Once()

	res, err := c.CheckForUpdates(t.Context())

	require.NoError(t, err)
	assert.True(t, res.Unchanged)
	assert.Equal(t, 1, res.Products)
	m.parser.AssertNumberOfCalls(t, "Extract", 1)
}

func TestChecker_EmptyExtraction(t *testing.T) {
	t.Parallel()

	t.Run("without baseline", func(t *testing.T) {
		t.Parallel()

		c, m := newChecker(t)
		m.parser.On("FetchPage", mock.Anything).Return([]byte("blank"), nil).Once()
		m.parser.On("Extract", mock.Anything, mock.Anything).Return(nil).Once()

		res, err := c.CheckForUpdates(t.Context())

		require.NoError(t, err)
		assert.False(t, res.Seeded)
		assert.True(t, res.Changes.IsEmpty())
		assert.Empty(t, c.Snapshot())
	})

	t.Run("keeps baseline", func(t *testing.T) {
		t.Parallel()

		c, m := newChecker(t)
		seed(t, c, m, productA, productB)

		m.parser.On("FetchPage", mock.Anything).Return([]byte("broken page"), nil).Once()
		m.parser.On("Extract", mock.Anything, []byte("broken page")).Return([]models.Product{}).Once()

		res, err := c.CheckForUpdates(t.Context())

		require.NoError(t, err)
		assert.True(t, res.Changes.IsEmpty())
		assert.Equal(t, 2, res.Products)
		assert.Equal(t, models.Snapshot{productA, productB}, c.Snapshot())
	})
}

func TestChecker_NotifiesAndCommits(t *testing.T) {
	t.Parallel()

	c, m := newChecker(t)
	seed(t, c, m, productA, productB)

	muted := models.DefaultPreferences()
	muted.NotificationsEnabled = false
	m.recipients.On("Recipients").Return([]models.Recipient{
		{ChatID: 1, Preferences: models.DefaultPreferences(), Registered: true},
		{ChatID: 2, Preferences: muted, Registered: true},
	}).Once()

	body := []byte("new page")
	m.parser.On("FetchPage", mock.Anything).Return(body, nil).Once()
	m.parser.On("Extract", mock.Anything, body).Return([]models.Product{productBNew, productC}).Once()

	report := dispatcher.Report{Recipients: 1, Delivered: 1}
	m.broadcast.On("Broadcast", mock.Anything, mock.MatchedBy(func(batches map[int64][]notifier.Notification) bool {
		_, mutedIncluded := batches[2]
		// summary, added C, removed A, changed B
		return len(batches) == 1 && len(batches[1]) == 4 && !mutedIncluded
	})).Return(report).Once()

	m.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(ch models.Changes) bool {
		return ch.Total() == 3
	})).Return(nil).Once()

	res, err := c.CheckForUpdates(t.Context())

	require.NoError(t, err)
	assert.Equal(t, []models.Product{productC}, res.Changes.Added)
	assert.Equal(t, []models.Product{productA}, res.Changes.Removed)
	require.Len(t, res.Changes.Changed, 1)
	assert.Equal(t, productBNew, res.Changes.Changed[0].New)
	assert.Equal(t, report, res.Report)
	assert.Equal(t, models.Snapshot{productBNew, productC}, c.Snapshot())
}

func TestChecker_PublishErrorDoesNotAbortCycle(t *testing.T) {
	t.Parallel()

	c, m := newChecker(t)
	seed(t, c, m, productA)

	m.recipients.On("Recipients").Return([]models.Recipient{}).Once()
	m.parser.On("FetchPage", mock.Anything).Return([]byte("page 2"), nil).Once()
	m.parser.On("Extract", mock.Anything, mock.Anything).Return([]models.Product{productA, productC}).Once()
	m.publisher.On("Publish", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	res, err := c.CheckForUpdates(t.Context())

	require.NoError(t, err)
	assert.Equal(t, []models.Product{productC}, res.Changes.Added)
	assert.Equal(t, models.Snapshot{productA, productC}, c.Snapshot())
	m.broadcast.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)
}

func TestChecker_NoChangesNoNotifications(t *testing.T) {
	t.Parallel()

	c, m := newChecker(t)
	seed(t, c, m, productA)

	m.parser.On("FetchPage", mock.Anything).Return([]byte("same products, other markup"), nil).Once()
	m.parser.On("Extract", mock.Anything, mock.Anything).Return([]models.Product{productA}).Once()

	res, err := c.CheckForUpdates(t.Context())

	require.NoError(t, err)
	assert.False(t, res.Unchanged)
	assert.True(t, res.Changes.IsEmpty())
	m.recipients.AssertNotCalled(t, "Recipients")
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestChecker_SnapshotIsACopy(t *testing.T) {
	t.Parallel()

	c, m := newChecker(t)
	seed(t, c, m, productA)

	snap := c.Snapshot()
	snap[0].Title = "mutated"

	assert.Equal(t, "A", c.Snapshot()[0].Title)
}

func TestChecker_Run(t *testing.T) {
	t.Parallel()

	c, m := newChecker(t)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	m.parser.On("FetchPage", mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, errors.New("offline")).Once()

	done := make(chan struct{})
	go func() {
		c.Run(ctx, 0, time.Hour)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestChecker_CountChangeWithoutKeyedChanges(t *testing.T) {
	t.Parallel()

	c, m := newChecker(t)
	seed(t, c, m, productA, productB)

	m.recipients.On("Recipients").Return([]models.Recipient{
		{ChatID: 1, Preferences: models.DefaultPreferences(), Registered: true},
	}).Once()

	body := []byte("page with a duplicate")
	m.parser.On("FetchPage", mock.Anything).Return(body, nil).Once()
	m.parser.On("Extract", mock.Anything, body).Return([]models.Product{productA, productB, productB}).Once()

	m.broadcast.On("Broadcast", mock.Anything, mock.MatchedBy(func(batches map[int64][]notifier.Notification) bool {
		n := batches[1]
		return len(batches) == 1 && len(n) == 1 && n[0].Kind == notifier.KindCount
	})).Return(dispatcher.Report{Recipients: 1, Delivered: 1}).Once()

	res, err := c.CheckForUpdates(t.Context())

	require.NoError(t, err)
	assert.True(t, res.Changes.IsEmpty())
	assert.True(t, res.CountChanged)
	assert.Equal(t, 3, res.Products)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestChecker_ConcurrentChecksRunOneAtATime(t *testing.T) {
	t.Parallel()

	c, m := newChecker(t)
	seed(t, c, m, productA)

	entered := make(chan struct{})
	release := make(chan struct{})
	body := []byte("page 2")

	m.parser.On("FetchPage", mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(body, nil).Once()
	m.parser.On("FetchPage", mock.Anything).Return(body, nil).Once()
	m.parser.On("Extract", mock.Anything, body).Return([]models.Product{productA, productC}).Once()
	m.recipients.On("Recipients").Return([]models.Recipient{}).Once()
	m.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	first := make(chan *checker.Result, 1)
	go func() {
		res, err := c.CheckForUpdates(context.Background())
		assert.NoError(t, err)
		first <- res
	}()
	<-entered

	second := make(chan *checker.Result, 1)
	go func() {
		res, err := c.CheckForUpdates(context.Background())
		assert.NoError(t, err)
		second <- res
	}()

	// The second check must wait for the running cycle.
	assert.Never(t, func() bool { return len(second) > 0 }, 100*time.Millisecond, 10*time.Millisecond)
	m.parser.AssertNumberOfCalls(t, "FetchPage", 2)

	close(release)

	res1 := <-first
	res2 := <-second
	assert.Equal(t, []models.Product{productC}, res1.Changes.Added)
	// The second cycle sees the baseline committed by the first one.
	assert.True(t, res2.Unchanged)
	assert.Equal(t, 2, res2.Products)
	m.parser.AssertNumberOfCalls(t, "FetchPage", 3)
	m.parser.AssertNumberOfCalls(t, "Extract", 2)
}
