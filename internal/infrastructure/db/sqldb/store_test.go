package sqldb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T, namespace string) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	s, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: path, Namespace: namespace})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStore_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := openSQLite(t, "dompet")

	_, found, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "token", `{"token":"a"}`))
	require.NoError(t, s.Set(ctx, "token", `{"token":"b"}`))

	v, found, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"token":"b"}`, v)

	require.NoError(t, s.Remove(ctx, "token"))
	require.NoError(t, s.Remove(ctx, "token"))
	_, found, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_SQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openSQLite(t, "")
	require.NoError(t, s.Set(ctx, "userData", `{"id":"1"}`))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, Config{Driver: DriverSQLite, DSN: path})
	require.NoError(t, err)
	defer reopened.Close()

	v, found, err := reopened.Get(ctx, "userData")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"id":"1"}`, v)
}

func TestStore_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")

	a, err := Open(ctx, Config{Driver: DriverSQLite, DSN: path, Namespace: "a"})
	require.NoError(t, err)
	defer a.Close()
	b, err := Open(ctx, Config{Driver: DriverSQLite, DSN: path, Namespace: "b"})
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Set(ctx, "token", "x"))
	_, found, err := b.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}

// TestStore_PostgresRoundTrip runs when POSTGRES_TEST_DSN is set.
func TestStore_PostgresRoundTrip(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()

	s, err := Open(ctx, Config{Driver: DriverPostgres, DSN: dsn, Namespace: "test"})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "token", "v1"))
	require.NoError(t, s.Set(ctx, "token", "v2"))
	v, found, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", v)
	require.NoError(t, s.Remove(ctx, "token"))
}
