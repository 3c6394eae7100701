package bot

import (
	"io"
	"log/slog"
	"testing"

	"github.com/Houeta/storewatch/internal/cache"
	"github.com/Houeta/storewatch/internal/services/recipients"
	"github.com/Houeta/storewatch/test/mocks"
	"github.com/stretchr/testify/mock"
	"gopkg.in/telebot.v4"
)

type testBot struct {
	*Bot
	api     *mocks.API
	watcher *mocks.Watcher
	deliver *mocks.Deliverer
	store   *recipients.Store
}

func newTestBot(t *testing.T) testBot {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tb := testBot{
		api:     mocks.NewAPI(t),
		watcher: mocks.NewWatcher(t),
		deliver: mocks.NewDeliverer(t),
		store:   recipients.NewStore(t.Context(), logger, nil),
	}
	tb.Bot = &Bot{
		ctx:      t.Context(),
		bot:      tb.api,
		log:      logger,
		watcher:  tb.watcher,
		prefs:    tb.store,
		deliver:  tb.deliver,
		awaiting: cache.NewMemoryService(),
	}

	return tb
}

// fakeContext records what handlers answer. Methods not overridden panic.
type fakeContext struct {
	telebot.Context

	chat      *telebot.Chat
	sender    *telebot.User
	text      string
	callback  *telebot.Callback
	sent      []interface{}
	edited    []interface{}
	responded int
	deleted   bool
}

func newFakeContext(chatID int64) *fakeContext {
	return &fakeContext{
		chat:   &telebot.Chat{ID: chatID},
		sender: &telebot.User{ID: chatID, FirstName: "Giulia", Username: "giulia"},
	}
}

func (f *fakeContext) Chat() *telebot.Chat         { return f.chat }
func (f *fakeContext) Sender() *telebot.User       { return f.sender }
func (f *fakeContext) Text() string                { return f.text }
func (f *fakeContext) Callback() *telebot.Callback { return f.callback }

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	f.sent = append(f.sent, what)
	return nil
}

func (f *fakeContext) Edit(what interface{}, _ ...interface{}) error {
	f.edited = append(f.edited, what)
	return nil
}

func (f *fakeContext) Respond(_ ...*telebot.CallbackResponse) error {
	f.responded++
	return nil
}

func (f *fakeContext) Delete() error {
	f.deleted = true
	return nil
}

func TestStart(t *testing.T) {
	t.Parallel()

	mockBot := mocks.NewAPI(t)
	mockBot.On("Start").Once()

	logger := slog.Default()
	testBot := Bot{bot: mockBot, log: logger}

	testBot.Start()

	mockBot.AssertExpectations(t)
}

func TestStop(t *testing.T) {
	t.Parallel()

	mockBot := mocks.NewAPI(t)
	mockBot.On("Stop").Once()

	logger := slog.Default()
	testBot := Bot{bot: mockBot, log: logger}

	testBot.Stop()

	mockBot.AssertExpectations(t)
}

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	mockBot := mocks.NewAPI(t)

	endpoints := []string{
		"/start",
		"/prezzi", btnPrices,
		"/controlla", btnCheck,
		"/impostazioni", btnSettings,
		"/info", btnInfo,
		telebot.OnCallback,
		telebot.OnText,
	}
	for _, endpoint := range endpoints {
		mockBot.On("Handle", endpoint, mock.AnythingOfType("telebot.HandlerFunc")).Once()
	}

	logger := slog.Default()
	testBot := Bot{bot: mockBot, log: logger}

	testBot.registerRoutes()

	mockBot.AssertExpectations(t)
	mockBot.AssertNumberOfCalls(t, "Handle", len(endpoints))
}
