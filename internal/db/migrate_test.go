package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationVersionsAreEmbeddedInOrder(t *testing.T) {
	versions, err := MigrationVersions()
	require.NoError(t, err)
	require.NotEmpty(t, versions)
	assert.Equal(t, "0001_init.sql", versions[0])
	assert.IsNonDecreasing(t, versions)
}

func TestInitMigrationCreatesTables(t *testing.T) {
	body, err := migrationFiles.ReadFile("migrations/0001_init.sql")
	require.NoError(t, err)

	sql := string(body)
	for _, table := range []string{"items", "fx_entries", "weight_entries"} {
		assert.True(t, strings.Contains(sql, "CREATE TABLE IF NOT EXISTS "+table+" ("), "missing table %s", table)
	}
}
