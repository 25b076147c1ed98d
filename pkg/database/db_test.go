package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteSingleConnectionWithForeignKeys(t *testing.T) {
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer Close(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)

	assert.NoError(t, Ping(context.Background(), db))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}

func TestEnsureDatabase_NonMySQLIsNoop(t *testing.T) {
	for _, driver := range []string{"sqlite", "postgres", "sqlserver"} {
		assert.NoError(t, EnsureDatabase(context.Background(), driver, "ignored"))
	}
}

func TestEnsureDatabase_BadMySQLDSN(t *testing.T) {
	err := EnsureDatabase(context.Background(), "mysql", "not a dsn")
	assert.ErrorContains(t, err, "parse dsn")
}

func TestEnsureDatabase_NoDatabaseName(t *testing.T) {
	assert.NoError(t, EnsureDatabase(context.Background(), "mysql", "root:@tcp(127.0.0.1:3306)/"))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, "`app_test_db`", quoteIdent("app_test_db"))
	assert.Equal(t, "`we``ird`", quoteIdent("we`ird"))
}
