package migrations

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions(t *testing.T) {
	m := NewMigrator(nil, zerolog.Nop())

	versions, err := m.Versions()
	require.NoError(t, err)
	assert.Equal(t, []string{"001"}, versions)
}

func TestVersionOf(t *testing.T) {
	assert.Equal(t, "001", versionOf("001_init.sql"))
	assert.Equal(t, "002", versionOf("sql/002_add_index.sql"))
	assert.Equal(t, "plain.sql", versionOf("plain.sql"))
}
