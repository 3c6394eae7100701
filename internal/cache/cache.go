package cache

import (
	"errors"
	"time"
)

// ErrMiss is returned by Get for an absent or expired key.
var ErrMiss = errors.New("cache: miss")

// Service represents a small key-value store with expiring entries.
type Service interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache. Deleting an absent key is not an error.
	Delete(key string) error
}
