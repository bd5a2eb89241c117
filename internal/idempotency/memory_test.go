package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_InsertIfAbsent(t *testing.T) {
	s := NewMemoryStore(DefaultTTL)
	ctx := context.Background()

	inserted, err := s.InsertIfAbsent(ctx, Record{Key: "k1", Status: 201, Body: []byte(`{"success":true}`)})
	require.NoError(t, err)
	assert.True(t, inserted)

	// Second writer loses cleanly: no error, no overwrite.
	inserted, err = s.InsertIfAbsent(ctx, Record{Key: "k1", Status: 500, Body: []byte(`{"success":false}`)})
	require.NoError(t, err)
	assert.False(t, inserted)

	rec, ok, err := s.Lookup(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 201, rec.Status)
	assert.Equal(t, []byte(`{"success":true}`), rec.Body)
}

func TestMemoryStore_LookupMiss(t *testing.T) {
	s := NewMemoryStore(DefaultTTL)

	_, ok, err := s.Lookup(context.Background(), "unknown")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.Lookup(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_ExpiredRecordNotReturned(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	s.records["old"] = Record{
		Key:       "old",
		Status:    201,
		Body:      []byte(`{}`),
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
	}

	_, ok, err := s.Lookup(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)

	// After expiry the key is available to a new logical operation: the
	// stale row does not block caching the new response.
	inserted, err := s.InsertIfAbsent(ctx, Record{Key: "old", Status: 201, Body: []byte(`{"fresh":true}`)})
	require.NoError(t, err)
	assert.True(t, inserted)

	rec, ok, err := s.Lookup(ctx, "old")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"fresh":true}`), rec.Body)
}

func TestMemoryStore_CleanExpired(t *testing.T) {
	s := NewMemoryStore(time.Hour)

	s.records["fresh"] = Record{Key: "fresh", Status: 201, CreatedAt: time.Now().UTC()}
	s.records["stale1"] = Record{Key: "stale1", Status: 201, CreatedAt: time.Now().UTC().Add(-2 * time.Hour)}
	s.records["stale2"] = Record{Key: "stale2", Status: 201, CreatedAt: time.Now().UTC().Add(-3 * time.Hour)}

	assert.Equal(t, 2, s.CleanExpired())

	_, ok, _ := s.Lookup(context.Background(), "fresh")
	assert.True(t, ok)
}
