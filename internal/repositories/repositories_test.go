package repositories

import (
	"testing"

	"github.com/coded-movies/films-api/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with foreign keys enforced,
// migrated to the application schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Film{}, &models.Comment{}))
	return db
}

func mustCreateFilm(t *testing.T, db *gorm.DB, id uint, title string, date models.Date) models.Film {
	t.Helper()
	film := models.Film{ID: id, Title: title, ReleaseDate: date}
	require.NoError(t, db.Create(&film).Error)
	return film
}
