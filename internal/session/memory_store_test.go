package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	s := Session{
		SessionID: "sid",
		UserID:    "uid",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, m.Create(ctx, s))

	got, err := m.Get(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "uid", got.UserID)

	require.NoError(t, m.Delete(ctx, "sid"))
	got, err = m.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	assert.Error(t, m.Create(ctx, Session{UserID: "uid", ExpiresAt: time.Now().Add(time.Hour)}))
	assert.Error(t, m.Create(ctx, Session{SessionID: "sid", ExpiresAt: time.Now().Add(time.Hour)}))
	assert.Error(t, m.Create(ctx, Session{SessionID: "sid", UserID: "uid", ExpiresAt: time.Now().Add(-time.Minute)}))
}

func TestMemoryStoreExpiry(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, m.Create(ctx, Session{
		SessionID: "sid",
		UserID:    "uid",
		ExpiresAt: time.Now().Add(20 * time.Millisecond),
	}))

	time.Sleep(30 * time.Millisecond)

	got, err := m.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got, "expired sessions must not be returned")
}

func TestMemoryStoreRollingUpdate(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, m.Create(ctx, Session{
		SessionID: "sid",
		UserID:    "uid",
		ExpiresAt: time.Now().Add(time.Minute),
	}))

	renewed := time.Now().Add(TTL)
	require.NoError(t, m.Update(ctx, Session{
		SessionID: "sid",
		UserID:    "uid",
		ExpiresAt: renewed,
	}))

	got, err := m.Get(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.WithinDuration(t, renewed, got.ExpiresAt, time.Second)
}

func TestGenerateIDUnique(t *testing.T) {
	a, err := GenerateID()
	require.NoError(t, err)
	b, err := GenerateID()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
