package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Houeta/storewatch/internal/bot"
	"github.com/Houeta/storewatch/internal/cache"
	"github.com/Houeta/storewatch/internal/config"
	"github.com/Houeta/storewatch/internal/httpserver"
	"github.com/Houeta/storewatch/internal/parser"
	"github.com/Houeta/storewatch/internal/repository"
	"github.com/Houeta/storewatch/internal/repository/sqlite"
	"github.com/Houeta/storewatch/internal/services/checker"
	"github.com/Houeta/storewatch/internal/services/dispatcher"
	"github.com/Houeta/storewatch/internal/services/publisher"
	"github.com/Houeta/storewatch/internal/services/recipients"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Recipient persistence: without a database the bot still runs, in memory only.
	var recipientRepo repository.RecipientRepository
	repo, err := sqlite.NewRepository(ctx, logger, cfg.StoragePath)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open recipient database, running in memory", "error", err)
	} else {
		recipientRepo = repo
		defer repo.Close()
	}
	store := recipients.NewStore(ctx, logger, recipientRepo)

	client, err := bot.NewClient(logger, cfg.Tg.Token, cfg.Tg.Timeout)
	if err != nil {
		log.Fatalf("Failed to init bot: %v", err)
	}

	deliverer := dispatcher.New(logger, bot.NewTransport(client), store,
		dispatcher.WithPause(cfg.Dispatch.Pause),
		dispatcher.WithConcurrency(cfg.Dispatch.Concurrency),
	)

	pageParser := parser.NewParser(logger, cfg.URL,
		parser.WithFormat(parser.ParseFormat(cfg.Source.Format)),
		parser.WithSelector(cfg.Source.Selector),
		parser.WithTimeout(cfg.Source.Timeout),
	)

	var checkerOpts []checker.Option
	if cfg.Redis.Addr != "" {
		feed := publisher.NewRedisPublisher(cfg.Redis.Addr, cfg.Redis.Stream, cfg.Redis.MaxLen)
		if err = feed.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "Change feed unreachable, publishing anyway", "error", err)
		}
		defer feed.Close()
		checkerOpts = append(checkerOpts, checker.WithPublisher(feed))
	}
	watcher := checker.NewChecker(logger, pageParser, store, deliverer, checkerOpts...)

	tgBot := bot.NewBot(ctx, logger, client, bot.Deps{
		Watcher:  watcher,
		Prefs:    store,
		Deliver:  deliverer,
		Awaiting: setupAwaitingCache(logger, cfg.Memcache.Addr),
	})

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		watcher.Run(ctx, cfg.Check.InitialDelay, cfg.Check.Interval)
	}()

	if cfg.HTTPAddr != "" {
		server := httpserver.New(logger, cfg.HTTPAddr, httpserver.NewRouter(watcher, store))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.Run(ctx); err != nil {
				logger.Error("HTTP server failed", "error", err)
			}
		}()
	}

	// Start the bot in a goroutine to allow main to listen for signals.
	go tgBot.Start()

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	// Stop the bot gracefully.
	tgBot.Stop()
	wg.Wait()

	// Flush recipients once more before the database closes.
	store.Persist(context.WithoutCancel(ctx))

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// setupAwaitingCache picks memcache when configured and reachable, memory otherwise.
func setupAwaitingCache(log *slog.Logger, addr string) cache.Service {
	if addr == "" {
		return cache.NewMemoryService()
	}

	mc := cache.NewMemcacheService(addr, "storewatch:")
	if err := mc.Ping(); err != nil {
		log.Warn("Memcache unreachable, keeping pending questions in memory", "addr", addr, "error", err)
		return cache.NewMemoryService()
	}

	return mc
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified	 or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
