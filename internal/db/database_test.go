package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/config"
)

func TestOpen_SQLiteMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	gdb, err := Open(ctx, config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Migrate(ctx, gdb))
	require.NoError(t, Ping(ctx, gdb))

	for _, table := range []string{"users", "categories", "products", "cart_items"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}
}

func TestOpen_Rejects(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), config.DriverSQLite, "")
	require.Error(t, err)

	_, err = Open(context.Background(), "mysql", "dsn")
	require.Error(t, err)
}

func TestMonotonicClock(t *testing.T) {
	t.Parallel()

	clock := monotonicClock()
	prev := clock()
	for i := 0; i < 1000; i++ {
		next := clock()
		require.True(t, next.After(prev))
		prev = next
	}
}
