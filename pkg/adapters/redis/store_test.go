package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/caesartm/pkg/adapters/redis"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/aretw0/caesartm/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	run := &domain.Run{
		ID:     "run-ttl",
		Key:    1,
		Input:  "A",
		Output: "B",
	}

	err := store.Save(ctx, run)
	assert.NoError(t, err)

	runs, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, runs, run.ID)

	// Key expiration in miniredis
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, run.ID)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	// The index prune compares against time.Now(), so real time has to pass.
	time.Sleep(1200 * time.Millisecond)

	runs, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRedisStore_ListOrderedByCreation(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client)
	ctx := context.Background()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, &domain.Run{ID: "aaa-new", CreatedAt: t0.Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, &domain.Run{ID: "zzz-old", CreatedAt: t0}))
	require.NoError(t, store.Save(ctx, &domain.Run{ID: "mmm-mid", CreatedAt: t0.Add(time.Minute)}))

	runs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"zzz-old", "mmm-mid", "aaa-new"}, runs)
	assert.False(t, mr.Exists(redis.DefaultPrefix+"expiry"), "no expiry index without a TTL")
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, &domain.Run{ID: "my-run", Key: 2, Input: "AB", Output: "CD"})
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:my-run"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, "my-run")
}

func TestRedisStore_Ping(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close())
}
