package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hypersenta/backend/internal/models"
)

func openMigrationTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite", DSN: "file:migrations_test?mode=memory&cache=shared"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func TestMigrateAppliesAllVersions(t *testing.T) {
	db := openMigrationTestDB(t)

	require.NoError(t, Migrate(db))

	for _, table := range []any{&models.User{}, &models.Organization{}, &models.OrganizationMember{}, &models.Message{}} {
		require.True(t, db.Migrator().HasTable(table), "expected table for %T", table)
	}

	var applied int64
	require.NoError(t, db.Model(&SchemaMigration{}).Count(&applied).Error)
	require.EqualValues(t, len(migrations()), applied)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openMigrationTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var applied int64
	require.NoError(t, db.Model(&SchemaMigration{}).Count(&applied).Error)
	require.EqualValues(t, len(migrations()), applied)
}

func TestRollbackRevertsLatestVersion(t *testing.T) {
	db := openMigrationTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Rollback(db))

	require.False(t, db.Migrator().HasTable(&models.Message{}))
	require.True(t, db.Migrator().HasTable(&models.User{}))

	var applied int64
	require.NoError(t, db.Model(&SchemaMigration{}).Count(&applied).Error)
	require.EqualValues(t, len(migrations())-1, applied)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
}

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{User: "senta", Name: "hypersenta", Host: "db", Port: 5433, Password: "pw"})
	require.NoError(t, err)
	require.Contains(t, dsn, "host=db")
	require.Contains(t, dsn, "port=5433")
	require.Contains(t, dsn, "sslmode=disable")

	_, err = buildPostgresDSN(Config{})
	require.Error(t, err)
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{User: "senta", Password: "pw", Name: "hypersenta"})
	require.NoError(t, err)
	require.Contains(t, dsn, "senta:pw@tcp(127.0.0.1:3306)/hypersenta")
	require.Contains(t, dsn, "parseTime=True")
}
