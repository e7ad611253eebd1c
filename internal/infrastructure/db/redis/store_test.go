package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_KeyNamespacing(t *testing.T) {
	assert.Equal(t, "dompet:token", NewStore(nil, "dompet").key("token"))
	assert.Equal(t, "userData", NewStore(nil, "").key("userData"))
}

// TestStore_RoundTrip runs against a live server when REDIS_TEST_ADDR is set.
func TestStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()

	client, err := Connect(ctx, Config{Addr: addr, Timeout: 2 * time.Second})
	require.NoError(t, err)
	defer client.Close()

	s := NewStore(client, "finance-gateway-test-"+time.Now().Format("150405.000"))

	_, found, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "token", `{"token":"t"}`))
	v, found, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"token":"t"}`, v)

	require.NoError(t, s.Remove(ctx, "token"))
	require.NoError(t, s.Remove(ctx, "token"))
	_, found, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, found)
}
