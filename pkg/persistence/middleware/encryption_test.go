package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/caesartm/pkg/adapters/memory"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/aretw0/caesartm/pkg/persistence/middleware"
	"github.com/aretw0/caesartm/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func secure(t *testing.T, next ports.RunStore, cfg middleware.EncryptionConfig) ports.RunStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return middleware.Chain(next, mw)
}

func sampleRun(id string) *domain.Run {
	return &domain.Run{
		ID:        id,
		Key:       3,
		Input:     "ATTACK",
		Output:    "DWWDFN",
		CreatedAt: time.Now(),
		History: []domain.Snapshot{
			domain.NewSnapshot(0, domain.StateProcessing, 0, []domain.Symbol("ATTACK#")),
		},
	}
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunStoreContract(t, secure(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)}))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	store := secure(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRun("r1")))

	// The underlying store only sees the envelope.
	raw, err := underlying.Load(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw.Input, middleware.EnvelopePrefix))
	assert.Empty(t, raw.Output)
	assert.Empty(t, raw.History)
	assert.Zero(t, raw.Key)
	assert.NotContains(t, raw.Input, "ATTACK")

	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "ATTACK", loaded.Input)
	assert.Equal(t, "DWWDFN", loaded.Output)
	assert.Equal(t, "ATTACK#", loaded.History[0].TapeString())
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	oldStore := secure(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey})
	require.NoError(t, oldStore.Save(ctx, sampleRun("rot")))

	newStore := secure(t, underlying, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})
	loaded, err := newStore.Load(ctx, "rot")
	require.NoError(t, err, "fallback key should decrypt")
	assert.Equal(t, "DWWDFN", loaded.Output)

	// Re-saving moves the run to the new key.
	require.NoError(t, newStore.Save(ctx, loaded))
	_, err = oldStore.Load(ctx, "rot")
	assert.Error(t, err, "old key alone must no longer decrypt")
}

func TestEncryptionMiddleware_RejectsPlainRuns(t *testing.T) {
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(context.Background(), sampleRun("plain")))

	store := secure(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := store.Load(context.Background(), "plain")
	assert.ErrorContains(t, err, "envelope")
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)

	got, err := middleware.ParseKey(hex.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	got, err = middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.ParseKey("deadbeef")
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)
}
