package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_KeyNamespacing(t *testing.T) {
	s := &Store{namespace: "dompet"}
	assert.Equal(t, "dompet:userData", s.key("userData"))

	s.namespace = ""
	assert.Equal(t, "token", s.key("token"))
}

// TestStore_RoundTrip runs against a live server when MONGO_TEST_URI is set.
func TestStore_RoundTrip(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()

	client, db, err := Connect(ctx, Config{URI: uri, Database: "finance_gateway_test", Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer func() { _ = client.Disconnect(ctx) }()

	s := NewStore(db, "test-"+time.Now().Format("150405.000"))

	require.NoError(t, s.Set(ctx, "userData", `{"id":"1"}`))
	require.NoError(t, s.Set(ctx, "userData", `{"id":"2"}`))

	v, found, err := s.Get(ctx, "userData")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"id":"2"}`, v)

	require.NoError(t, s.Remove(ctx, "userData"))
	_, found, err = s.Get(ctx, "userData")
	require.NoError(t, err)
	assert.False(t, found)
}
