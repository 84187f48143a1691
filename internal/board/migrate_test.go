package board

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationsDir = "../../migrations"

func TestMigrateUpAndVersion(t *testing.T) {
	t.Parallel()

	b, err := Open(filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.MigrateUp(migrationsDir))

	version, dirty, err := b.MigrateVersion(migrationsDir)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)

	// The baseline migration must coexist with the schema Open applies.
	ctx := context.Background()
	_, err = b.Write(ctx, "migrated-pin", "", "application/json", time.Now(), []byte(`{}`))
	require.NoError(t, err)
	_, meta, err := b.Resolve(ctx, "migrated-pin")
	require.NoError(t, err)
	assert.Equal(t, "migrated-pin", meta.Name)
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	t.Parallel()

	b, err := Open(filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.MigrateUp(migrationsDir))
	require.NoError(t, b.MigrateUp(migrationsDir))
}

func TestMigrateVersionBeforeAnyMigration(t *testing.T) {
	t.Parallel()

	b, err := Open(filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	defer b.Close()

	version, dirty, err := b.MigrateVersion(migrationsDir)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Zero(t, version)
}

func TestMigrateDown(t *testing.T) {
	t.Parallel()

	b, err := Open(filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.MigrateUp(migrationsDir))
	require.NoError(t, b.MigrateDown(migrationsDir))

	version, dirty, err := b.MigrateVersion(migrationsDir)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Zero(t, version)
}
