package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrEmptyToken = errors.New("error getting SW_TELEGRAM_TOKEN: variable not specified or contains an empty string")

// DefaultDestURL is the reader-proxy view of the watched storefront page.
const DefaultDestURL = "https://r.jina.ai/https://www.amazon.it/stores/page/BA1E70A5-3500-44A3-BC30-B0FB450B17BB"

type Config struct {
	Env         string // Env is the current environment: local, development, production.
	URL         string
	StoragePath string
	HTTPAddr    string // HTTPAddr is the status server address, empty disables it.
	Source      Source
	Check       Check
	Dispatch    Dispatch
	Tg          Telegram
	Redis       Redis
	Memcache    Memcache
}

type Source struct {
	Format   string        // Format is one of auto, text, markup.
	Selector string        // Selector narrows markup pages before conversion.
	Timeout  time.Duration // Timeout bounds a single page fetch.
}

type Check struct {
	Interval     time.Duration
	InitialDelay time.Duration
}

type Dispatch struct {
	Pause       time.Duration // Pause between two messages to the same chat.
	Concurrency int           // Concurrency is the number of chats served in parallel.
}

type Telegram struct {
	Token   string        // Token is an unique telgram bot token.
	Timeout time.Duration // Timeout is a poller timeout duration.
}

type Redis struct {
	Addr   string // Addr enables the change feed when not empty.
	Stream string
	MaxLen int64
}

type Memcache struct {
	Addr string // Addr switches the awaiting-reply cache to memcache when not empty.
}

// MustLoad loads the configuration from environment variables and returns a Config struct.
func MustLoad() *Config {
	// A missing .env file is fine, the real environment still applies.
	_ = godotenv.Load()

	// Automatically binds environment variables to config keys
	viper.SetEnvPrefix("SW")
	viper.AutomaticEnv()

	// optional args
	viper.SetDefault("ENV", "production")
	viper.SetDefault("TELEGRAM_TIMEOUT", "15s")
	viper.SetDefault("DEST_URL", DefaultDestURL)
	viper.SetDefault("STORAGE_PATH", "storewatch.db")
	viper.SetDefault("HTTP_ADDR", ":3000")
	viper.SetDefault("SOURCE_FORMAT", "auto")
	viper.SetDefault("SOURCE_SELECTOR", "body")
	viper.SetDefault("FETCH_TIMEOUT", "30s")
	viper.SetDefault("CHECK_INTERVAL", "15m")
	viper.SetDefault("INITIAL_DELAY", "5s")
	viper.SetDefault("DISPATCH_PAUSE", "500ms")
	viper.SetDefault("DISPATCH_CONCURRENCY", 4)
	viper.SetDefault("REDIS_STREAM", "storewatch:changes")
	viper.SetDefault("REDIS_STREAM_MAXLEN", 1000)

	if viper.GetString("TELEGRAM_TOKEN") == "" {
		panic(ErrEmptyToken)
	}

	return &Config{
		Env:         viper.GetString("ENV"),
		URL:         viper.GetString("DEST_URL"),
		StoragePath: viper.GetString("STORAGE_PATH"),
		HTTPAddr:    viper.GetString("HTTP_ADDR"),
		Source: Source{
			Format:   viper.GetString("SOURCE_FORMAT"),
			Selector: viper.GetString("SOURCE_SELECTOR"),
			Timeout:  viper.GetDuration("FETCH_TIMEOUT"),
		},
		Check: Check{
			Interval:     viper.GetDuration("CHECK_INTERVAL"),
			InitialDelay: viper.GetDuration("INITIAL_DELAY"),
		},
		Dispatch: Dispatch{
			Pause:       viper.GetDuration("DISPATCH_PAUSE"),
			Concurrency: viper.GetInt("DISPATCH_CONCURRENCY"),
		},
		Tg: Telegram{
			Token:   viper.GetString("TELEGRAM_TOKEN"),
			Timeout: viper.GetDuration("TELEGRAM_TIMEOUT"),
		},
		Redis: Redis{
			Addr:   viper.GetString("REDIS_ADDR"),
			Stream: viper.GetString("REDIS_STREAM"),
			MaxLen: viper.GetInt64("REDIS_STREAM_MAXLEN"),
		},
		Memcache: Memcache{
			Addr: viper.GetString("MEMCACHE_ADDR"),
		},
	}
}
