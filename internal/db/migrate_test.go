package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMigrationVersion(t *testing.T) {
	v, err := parseMigrationVersion("0007_add_index.sql")
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = parseMigrationVersion("init.sql")
	assert.Error(t, err)
}

func TestLoadMigrations_OrderedAndComplete(t *testing.T) {
	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].version, migrations[i].version)
	}

	schema := migrations[0].sql
	for _, table := range []string{
		"customers", "messages", "orders", "customer_tags", "reminders",
		"activity_timeline", "ai_replies", "ai_summaries", "message_templates",
	} {
		assert.True(t, strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table+" "), table)
	}

	last := migrations[len(migrations)-1]
	assert.GreaterOrEqual(t, last.version, 2)
	var all strings.Builder
	for _, m := range migrations {
		all.WriteString(m.sql)
	}
	assert.Contains(t, all.String(), "UNIQUE (customer_id, message_hash)")
	assert.Contains(t, all.String(), "DROP CONSTRAINT IF EXISTS uq_ai_replies_customer_message")
}
