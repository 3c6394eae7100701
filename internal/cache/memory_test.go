package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryService(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	mc := NewMemoryService()
	mc.now = func() time.Time { return now }

	t.Run("miss", func(t *testing.T) {
		_, err := mc.Get("absent")
		require.ErrorIs(t, err, ErrMiss)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, mc.Set("k", []byte("v"), time.Minute))

		value, err := mc.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v", string(value))
	})

	t.Run("expires", func(t *testing.T) {
		require.NoError(t, mc.Set("ttl", []byte("v"), time.Minute))

		now = now.Add(time.Minute)

		_, err := mc.Get("ttl")
		require.ErrorIs(t, err, ErrMiss)
	})

	t.Run("no expiration", func(t *testing.T) {
		require.NoError(t, mc.Set("forever", []byte("v"), 0))

		now = now.Add(24 * time.Hour)

		value, err := mc.Get("forever")
		require.NoError(t, err)
		assert.Equal(t, "v", string(value))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, mc.Set("gone", []byte("v"), time.Minute))
		require.NoError(t, mc.Delete("gone"))
		require.NoError(t, mc.Delete("gone"))

		_, err := mc.Get("gone")
		require.ErrorIs(t, err, ErrMiss)
	})

	t.Run("stored value is a copy", func(t *testing.T) {
		buf := []byte("abc")
		require.NoError(t, mc.Set("copy", buf, time.Minute))
		buf[0] = 'x'

		value, err := mc.Get("copy")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(value))
	})
}
