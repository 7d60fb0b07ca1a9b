package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/coded-movies/films-api/internal/films"
	"github.com/coded-movies/films-api/internal/mirror"
	"github.com/coded-movies/films-api/internal/swapi"
	"github.com/labstack/echo/v4"
)

// FilmHandler handles HTTP requests related to films
type FilmHandler struct {
	source films.Source
	engine *mirror.Engine // nil when films are served from the snapshot
}

// NewFilmHandler creates a new FilmHandler
func NewFilmHandler(source films.Source, engine *mirror.Engine) *FilmHandler {
	return &FilmHandler{source: source, engine: engine}
}

// RegisterFilmRoutes registers film-related routes
func (h *FilmHandler) RegisterFilmRoutes(g *echo.Group) {
	g.GET("/films/", h.ListFilms)
	g.GET("/films/:id/", h.GetFilm)
	if h.engine != nil {
		g.POST("/films/sync/", h.SyncFilms)
	}
}

// ListFilms returns one page of films enriched with their comment counts
func (h *FilmHandler) ListFilms(c echo.Context) error {
	offset, limit, err := parsePagination(c)
	if err != nil {
		return err
	}

	views, total, err := h.source.List(c.Request().Context(), offset, limit)
	if err != nil {
		return sourceError(err)
	}

	return c.JSON(http.StatusOK, newPagedResult(c, total, offset, limit, views))
}

// GetFilm returns a single film with its live comment count
func (h *FilmHandler) GetFilm(c echo.Context) error {
	id, err := parseFilmID(c)
	if err != nil {
		return err
	}

	view, err := h.source.Get(c.Request().Context(), id)
	if err != nil {
		return sourceError(err)
	}

	return c.JSON(http.StatusOK, view)
}

// SyncFilms triggers a full catalog sync and reports how many films the
// upstream currently has
func (h *FilmHandler) SyncFilms(c echo.Context) error {
	n, err := h.engine.SyncAll(c.Request().Context())
	if err != nil {
		return sourceError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"synced": n})
}

func parseFilmID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid film ID")
	}
	return uint(id), nil
}

// sourceError translates film source and sync failures into HTTP errors.
// Upstream outages map to 503 and malformed upstream data to 502, both with
// no local state change.
func sourceError(err error) error {
	var unavailable *swapi.UnavailableError
	if errors.As(err, &unavailable) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Upstream catalog unavailable")
	}
	var malformed *swapi.MalformedRecordError
	if errors.As(err, &malformed) {
		return echo.NewHTTPError(http.StatusBadGateway, "Upstream catalog returned malformed data")
	}
	if errors.Is(err, films.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Film not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
