package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coded-movies/films-api/internal/films"
	"github.com/coded-movies/films-api/internal/mirror"
	"github.com/coded-movies/films-api/internal/models"
	"github.com/coded-movies/films-api/internal/repositories"
	"github.com/coded-movies/films-api/internal/swapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFilmsPaginationEnvelope(t *testing.T) {
	e, db := newTestServer(t)
	for i := uint(1); i <= 12; i++ {
		createFilm(t, db, i, fmt.Sprintf("Film %d", i), models.NewDate(1977, time.May, int(i)))
	}

	rec := doRequest(e, http.MethodGet, "/api/films/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page envelope
	decodeJSON(t, rec, &page)
	assert.EqualValues(t, 12, page.Count)
	assert.Len(t, page.Results, 10)
	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "offset=10")
	assert.Nil(t, page.Previous)

	// Follow the next page.
	next := (*page.Next)[strings.Index(*page.Next, "/api"):]
	rec = doRequest(e, http.MethodGet, next, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	decodeJSON(t, rec, &page)
	assert.EqualValues(t, 12, page.Count)
	assert.Len(t, page.Results, 2)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Contains(t, *page.Previous, "offset=0")
}

func TestListFilmsSortStability(t *testing.T) {
	e, db := newTestServer(t)
	shared := models.NewDate(1980, time.May, 21)
	createFilm(t, db, 7, "Tie B", shared)
	createFilm(t, db, 3, "Tie A", shared)

	for i := 0; i < 3; i++ {
		rec := doRequest(e, http.MethodGet, "/api/films/", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page envelope
		decodeJSON(t, rec, &page)
		require.Len(t, page.Results, 2)

		var first, second models.FilmView
		require.NoError(t, json.Unmarshal(page.Results[0], &first))
		require.NoError(t, json.Unmarshal(page.Results[1], &second))
		assert.EqualValues(t, 3, first.ID)
		assert.EqualValues(t, 7, second.ID)
	}
}

func TestGetFilm(t *testing.T) {
	e, db := newTestServer(t)
	createFilm(t, db, 42, "The Answer", models.NewDate(1980, time.January, 1))
	require.NoError(t, db.Create(&models.Comment{FilmID: 42, Text: "nice"}).Error)

	rec := doRequest(e, http.MethodGet, "/api/films/42/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view models.FilmView
	decodeJSON(t, rec, &view)
	assert.EqualValues(t, 42, view.ID)
	assert.Equal(t, "The Answer", view.Title)
	assert.EqualValues(t, 1, view.CommentCount)
	assert.Equal(t, "1980-01-01", view.ReleaseDate.String())
}

func TestGetFilmNotFound(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/api/films/9999/", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetFilmInvalidID(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/api/films/abc/", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncFilmsEndpoint(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"results": [
				{"url": "https://swapi.dev/api/films/1/", "title": "Film 1", "release_date": "1977-05-25"}
			],
			"next": null
		}`))
	}))
	defer upstream.Close()

	db := newTestDB(t)
	filmRepo := repositories.NewPostgresFilmRepository(db)
	engine := mirror.NewEngine(swapi.NewClient(upstream.URL, time.Second), filmRepo)
	source := films.NewMirror(filmRepo, engine, false)

	e := newAPIServer(t, source, engine, repositories.NewPostgresCommentRepository(db))

	rec := doRequest(e, http.MethodPost, "/api/films/sync/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int
	decodeJSON(t, rec, &body)
	assert.Equal(t, 1, body["synced"])

	rec = doRequest(e, http.MethodGet, "/api/films/1/", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSyncFilmsUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer upstream.Close()

	db := newTestDB(t)
	filmRepo := repositories.NewPostgresFilmRepository(db)
	engine := mirror.NewEngine(swapi.NewClient(upstream.URL, time.Second), filmRepo)
	source := films.NewMirror(filmRepo, engine, false)

	e := newAPIServer(t, source, engine, repositories.NewPostgresCommentRepository(db))

	rec := doRequest(e, http.MethodPost, "/api/films/sync/", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
