package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKeyValue runs the behaviour every KeyValue backend must share.
func exerciseKeyValue(t *testing.T, kv KeyValue, key string) {
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "fresh key should be absent")

	require.NoError(t, kv.Set(ctx, key, `{"a":1}`))
	v, ok, err := kv.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, v)

	require.NoError(t, kv.Set(ctx, key, `{"a":2}`))
	v, _, err = kv.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, v, "set overwrites")

	require.NoError(t, kv.Set(ctx, key, ""))
	v, ok, err = kv.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok, "empty value is still present")
	assert.Empty(t, v)
}

func TestMemoryStore(t *testing.T) {
	exerciseKeyValue(t, NewMemoryStore(), "calorieData")
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	exerciseKeyValue(t, s, "calorieData")
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "userGoal", `{"dailyCalorieTarget":1800}`))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, "userGoal")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"dailyCalorieTarget":1800}`, v)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis-dependent test - REDIS_URL not set")
	}
	s, err := NewRedisStore(url)
	require.NoError(t, err)
	defer s.Close()

	exerciseKeyValue(t, s, "test-"+uuid.NewString())
}

func TestNewRedisStoreRejectsBadURL(t *testing.T) {
	_, err := NewRedisStore("not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}
