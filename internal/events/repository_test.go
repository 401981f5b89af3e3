package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestLockEventRowEmitsRowLock(t *testing.T) {
	db := dryRunDB(t)

	var event Event
	stmt := lockEventRow(db, "EV00001", &event).Statement

	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")
}
