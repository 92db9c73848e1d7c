package shorturl_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dvsilva/shortr/internal/shorturl"
	"github.com/dvsilva/shortr/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLocator struct {
	location string
}

func (s *stubLocator) Locate(_ context.Context, _ string) string {
	return s.location
}

const chromeUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

func newRecorder(repo shorturl.Repository, location string) *shorturl.VisitRecorder {
	return shorturl.NewVisitRecorder(repo, &stubLocator{location: location}, zap.NewNop())
}

func TestVisitRecorder_Record(t *testing.T) {
	t.Run("returns original url and appends one entry", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		_ = memStore.Create(context.Background(), newRecord("abc123"))
		recorder := newRecorder(memStore, "Lisbon, Lisbon, Portugal")

		result, err := recorder.Record(context.Background(), "abc123", shorturl.Visit{
			ClientIP:  "203.0.113.7",
			UserAgent: chromeUA,
		})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", result.OriginalURL)
		assert.Equal(t, "Lisbon, Lisbon, Portugal", result.Entry.Location)
		assert.Equal(t, "Chrome", result.Entry.Browser)

		record, err := memStore.Get(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, int64(1), record.Hits)
		assert.Len(t, record.Analytics, 1)
	})

	t.Run("hit count tracks analytics length across visits", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		_ = memStore.Create(context.Background(), newRecord("abc123"))
		recorder := newRecorder(memStore, "Localhost")

		for i := 0; i < 5; i++ {
			_, err := recorder.Record(context.Background(), "abc123", shorturl.Visit{UserAgent: chromeUA})
			require.NoError(t, err)
		}

		record, err := memStore.Get(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, int64(5), record.Hits)
		assert.Len(t, record.Analytics, 5)
	})

	t.Run("entries keep chronological order", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		_ = memStore.Create(context.Background(), newRecord("abc123"))
		recorder := newRecorder(memStore, "Localhost")

		for i := 0; i < 3; i++ {
			_, err := recorder.Record(context.Background(), "abc123", shorturl.Visit{UserAgent: chromeUA})
			require.NoError(t, err)
		}

		record, _ := memStore.Get(context.Background(), "abc123")

		var prev time.Time

		for _, entry := range record.Analytics {
			ts, err := time.Parse(time.RFC3339, entry.Timestamp)
			require.NoError(t, err)
			assert.False(t, ts.Before(prev))
			prev = ts
		}
	})

	t.Run("returns ErrNotFound for unknown code", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		recorder := newRecorder(memStore, "")

		result, err := recorder.Record(context.Background(), "missing", shorturl.Visit{})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, shorturl.ErrNotFound)
	})

	t.Run("expired record fails with ErrExpired and is deleted", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		past := time.Now().Add(-time.Hour)
		_ = memStore.Create(context.Background(),
			shorturl.NewRecord("old123", "https://example.com", &past, past.Add(-time.Hour)))
		recorder := newRecorder(memStore, "")

		result, err := recorder.Record(context.Background(), "old123", shorturl.Visit{})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, shorturl.ErrExpired)

		// Lazy expiration: the next resolve sees no record at all.
		_, err = recorder.Record(context.Background(), "old123", shorturl.Visit{})
		assert.ErrorIs(t, err, shorturl.ErrNotFound)
	})

	t.Run("future expiration still resolves", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		future := time.Now().Add(time.Hour)
		_ = memStore.Create(context.Background(),
			shorturl.NewRecord("abc123", "https://example.com", &future, time.Now()))
		recorder := newRecorder(memStore, "")

		result, err := recorder.Record(context.Background(), "abc123", shorturl.Visit{})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", result.OriginalURL)
	})

	t.Run("failed location lookup records Unknown", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		_ = memStore.Create(context.Background(), newRecord("abc123"))
		recorder := newRecorder(memStore, "")

		result, err := recorder.Record(context.Background(), "abc123", shorturl.Visit{
			ClientIP:  "203.0.113.7",
			UserAgent: chromeUA,
		})

		require.NoError(t, err)
		assert.Equal(t, shorturl.UnknownLocation, result.Entry.Location)
	})

	t.Run("empty user agent records Unknown browser", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		_ = memStore.Create(context.Background(), newRecord("abc123"))
		recorder := newRecorder(memStore, "Localhost")

		result, err := recorder.Record(context.Background(), "abc123", shorturl.Visit{})

		require.NoError(t, err)
		assert.Equal(t, "Unknown", result.Entry.Browser)
	})
}

func TestVisitRecorder_ConcurrentVisits(t *testing.T) {
	memStore := store.NewMemoryStore()
	_ = memStore.Create(context.Background(), newRecord("hot123"))
	recorder := newRecorder(memStore, "Localhost")

	const visitors = 20

	var wg sync.WaitGroup

	for i := 0; i < visitors; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := recorder.Record(context.Background(), "hot123", shorturl.Visit{UserAgent: chromeUA})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	record, err := memStore.Get(context.Background(), "hot123")
	require.NoError(t, err)

	// No visit may be lost between concurrent visitors.
	assert.Equal(t, int64(visitors), record.Hits)
	assert.Len(t, record.Analytics, visitors)
}
