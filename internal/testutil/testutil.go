// Package testutil opens throwaway databases for package tests
package testutil

import (
	"context"
	"testing"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/database"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TablePrefix is the prefix test stores use
const TablePrefix = "mmtest_"

// OpenSQLite opens a private in-memory sqlite database that lives until the
// test ends
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database, so pin one
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewStore returns a store over a fresh database with the schema created
func NewStore(t testing.TB) *store.Store {
	t.Helper()

	s := store.New(OpenSQLite(t), TablePrefix)
	require.NoError(t, s.CreateSchema(context.Background()))
	return s
}

// CreateUser inserts a user with the given login and display name
func CreateUser(t testing.TB, s *store.Store, login, displayName string) *models.User {
	t.Helper()

	u := &models.User{
		Login:       login,
		DisplayName: displayName,
		Email:       login + "@example.com",
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}
