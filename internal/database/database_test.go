package database_test

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestSQLiteAutoMigration(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)

	for _, model := range models.AllModels() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}

	user := models.User{Email: "test@example.com", Username: "tester", FirstName: "T", LastName: "U", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	assert.NotZero(t, user.ID)
}

func TestSQLMigrationsApplyAndRollback(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	// SetupTestDatabase already applied everything, so nothing is pending.
	applied, err := database.ApplySQLMigrations(sqlDB, testhelpers.MigrationsDir())
	require.NoError(t, err)
	assert.Empty(t, applied)

	name, err := database.RollbackLastMigration(sqlDB, testhelpers.MigrationsDir())
	require.NoError(t, err)
	assert.Equal(t, "0001_init.sql", name)
	assert.False(t, tableExists(t, sqlDB, "recipes"))

	_, err = database.RollbackLastMigration(sqlDB, testhelpers.MigrationsDir())
	assert.ErrorIs(t, err, database.ErrNothingToRollback)

	applied, err = database.ApplySQLMigrations(sqlDB, testhelpers.MigrationsDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql"}, applied)
	assert.True(t, tableExists(t, sqlDB, "recipes"))
}

func TestSQLMigrationFailureIsNotRecorded(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0002_broken.sql"), []byte("CREATE TABLE broken (;"), 0o600))

	_, err = database.ApplySQLMigrations(sqlDB, dir)
	require.Error(t, err)

	var count int
	require.NoError(t, sqlDB.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = $1", "0002_broken.sql").Scan(&count))
	assert.Zero(t, count)
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (
		SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1
	)`, name).Scan(&exists)
	require.NoError(t, err)
	return exists
}
