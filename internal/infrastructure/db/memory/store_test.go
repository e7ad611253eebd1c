package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, found, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "token", `{"token":"a"}`))
	require.NoError(t, s.Set(ctx, "token", `{"token":"b"}`))

	v, found, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"token":"b"}`, v)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Remove(ctx, "token"))
	require.NoError(t, s.Remove(ctx, "token"))
	assert.Equal(t, 0, s.Len())
}
