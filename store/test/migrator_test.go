package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	version, err := ts.GetCurrentSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	require.NoError(t, ts.Migrate(ctx))
	again, err := ts.GetCurrentSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, version, again)

	var count int
	require.NoError(t, ts.GetDriver().GetDB().QueryRowContext(ctx, "SELECT COUNT(*) FROM migration_history").Scan(&count))
	assert.Equal(t, 2, count)
}
