//go:build integration

package store_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/dvsilva/shortr/internal/shorturl"
	"github.com/dvsilva/shortr/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func TestRedisStoreIntegration(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	s := store.NewRedisStore(client)

	t.Run("create and get record", func(t *testing.T) {
		record := newRecord("itcreate1")

		err := s.Create(ctx, record)
		require.NoError(t, err)

		got, err := s.Get(ctx, "itcreate1")
		require.NoError(t, err)
		assert.Equal(t, record.OriginalURL, got.OriginalURL)
		assert.Equal(t, record.Code, got.Code)

		// Cleanup
		client.Del(ctx, "url:itcreate1")
	})

	t.Run("create rejects an existing code", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, newRecord("itdup1")))

		err := s.Create(ctx, newRecord("itdup1"))
		assert.ErrorIs(t, err, shorturl.ErrAliasTaken)

		// Cleanup
		client.Del(ctx, "url:itdup1")
	})

	t.Run("get non-existent returns ErrNotFound", func(t *testing.T) {
		got, err := s.Get(ctx, "itnonexistent")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shorturl.ErrNotFound)
	})

	t.Run("mutate updates hits and analytics together", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, newRecord("itmutate1")))

		got, err := s.Mutate(ctx, "itmutate1", func(r *shorturl.Record) error {
			r.Hits++
			r.Analytics = append(r.Analytics, shorturl.AnalyticsEntry{
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				Location:  "Localhost",
				Browser:   "Chrome",
			})

			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Hits)
		assert.Len(t, got.Analytics, 1)

		// Cleanup
		client.Del(ctx, "url:itmutate1")
	})

	t.Run("concurrent mutations all land", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, newRecord("itconcur1")))

		const visitors = 10

		var wg sync.WaitGroup

		for range visitors {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := s.Mutate(ctx, "itconcur1", func(r *shorturl.Record) error {
					r.Hits++

					return nil
				})
				assert.NoError(t, err)
			}()
		}

		wg.Wait()

		got, err := s.Get(ctx, "itconcur1")
		require.NoError(t, err)
		assert.Equal(t, int64(visitors), got.Hits)

		// Cleanup
		client.Del(ctx, "url:itconcur1")
	})

	t.Run("mutate non-existent returns ErrNotFound", func(t *testing.T) {
		_, err := s.Mutate(ctx, "itnonexistent", func(*shorturl.Record) error {
			return nil
		})

		assert.ErrorIs(t, err, shorturl.ErrNotFound)
	})

	t.Run("delete then exists", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, newRecord("itdelete1")))

		require.NoError(t, s.Delete(ctx, "itdelete1"))

		exists, err := s.Exists(ctx, "itdelete1")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("incr counts and expires within the window", func(t *testing.T) {
		defer client.Del(ctx, "rate_limit:itclient1")

		count, err := s.Incr(ctx, "itclient1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = s.Incr(ctx, "itclient1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		ttl, err := client.TTL(ctx, "rate_limit:itclient1").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})
}
