package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coded-movies/films-api/internal/films"
	"github.com/coded-movies/films-api/internal/mirror"
	"github.com/coded-movies/films-api/internal/models"
	"github.com/coded-movies/films-api/internal/repositories"
	"github.com/coded-movies/films-api/validators"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

// newAPIServer builds an Echo instance with the film and comment routes
// wired against the given source.
func newAPIServer(t *testing.T, source films.Source, engine *mirror.Engine, commentRepo repositories.CommentRepository) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()

	api := e.Group("/api")
	NewFilmHandler(source, engine).RegisterFilmRoutes(api)
	NewCommentHandler(commentRepo, source).RegisterCommentRoutes(api)
	return e
}

// newTestServer wires the mirror-backed API against an in-memory store.
func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)

	filmRepo := repositories.NewPostgresFilmRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	source := films.NewMirror(filmRepo, nil, false)

	return newAPIServer(t, source, nil, commentRepo), db
}

func createFilm(t *testing.T, db *gorm.DB, id uint, title string, date models.Date) {
	t.Helper()
	require.NoError(t, db.Create(&models.Film{ID: id, Title: title, ReleaseDate: date}).Error)
}

func doRequest(e *echo.Echo, method, target string, body io.Reader, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// envelope mirrors the pagination response shape.
type envelope struct {
	Count    int64             `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []json.RawMessage `json:"results"`
}

func someDate() models.Date {
	return models.NewDate(1977, time.May, 25)
}
