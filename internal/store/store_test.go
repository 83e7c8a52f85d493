package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agentryleigh/decoherence-log/backend/internal/database"
	"github.com/agentryleigh/decoherence-log/backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@decoherence.log",
		Password: "hashed",
		Role:     models.RoleUser,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestAdmin(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	admin := models.User{
		Username: username,
		Email:    username + "@decoherence.log",
		Password: "hashed",
		Role:     models.RoleAdmin,
	}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

func createTestPost(t *testing.T, db *gorm.DB, author models.User, body, tags string) *models.Post {
	t.Helper()

	post, err := NewPostStore(db).Create(author, body, tags, "", "")
	require.NoError(t, err)
	return post
}
