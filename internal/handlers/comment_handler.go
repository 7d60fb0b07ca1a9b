package handlers

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coded-movies/films-api/internal/films"
	"github.com/coded-movies/films-api/internal/models"
	"github.com/coded-movies/films-api/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Field-scoped validation messages, keyed the way clients read them back.
const (
	msgTextRequired = "Comment text is required."
	msgTextTooLong  = "Comment cannot exceed 500 characters."
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	filmSource        films.Source // to verify the film exists before touching comments
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, filmSource films.Source) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		filmSource:        filmSource,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/films/:id/comments/", h.ListCommentsByFilm)
	g.POST("/films/:id/comments/", h.CreateComment)
	g.GET("/comments/", h.ListComments)
	g.POST("/comments/", h.CreateFlatComment)
	g.GET("/comments/:id/", h.GetComment)
	g.DELETE("/comments/:id/", h.DeleteComment)
}

// ListCommentsByFilm returns one page of a film's comments ordered by
// creation time
func (h *CommentHandler) ListCommentsByFilm(c echo.Context) error {
	filmID, err := parseFilmID(c)
	if err != nil {
		return err
	}
	if err := h.requireFilm(c, filmID); err != nil {
		return err
	}

	offset, limit, err := parsePagination(c)
	if err != nil {
		return err
	}

	comments, total, err := h.commentRepository.GetCommentsByFilmID(c.Request().Context(), filmID, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, newPagedResult(c, total, offset, limit, comments))
}

// CreateComment creates a new comment on a film
func (h *CommentHandler) CreateComment(c echo.Context) error {
	filmID, err := parseFilmID(c)
	if err != nil {
		return err
	}
	if err := h.requireFilm(c, filmID); err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if errs := h.validateText(c, &req); errs != nil {
		return c.JSON(http.StatusBadRequest, errs)
	}

	return h.create(c, filmID, req.Text)
}

// CreateFlatComment creates a comment through the flat collection, with the
// target film carried in the payload
func (h *CommentHandler) CreateFlatComment(c echo.Context) error {
	var req models.CreateFlatCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, translateFieldErrors(err))
	}
	if errs := validateCommentText(req.Text); errs != nil {
		return c.JSON(http.StatusBadRequest, errs)
	}
	if err := h.requireFilm(c, req.Film); err != nil {
		return err
	}

	return h.create(c, req.Film, req.Text)
}

func (h *CommentHandler) create(c echo.Context, filmID uint, text string) error {
	comment := &models.Comment{
		FilmID:    filmID,
		Text:      text,
		IPAddress: clientIP(c),
	}
	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, comment)
}

// ListComments returns one page of comments across all films
func (h *CommentHandler) ListComments(c echo.Context) error {
	offset, limit, err := parsePagination(c)
	if err != nil {
		return err
	}

	comments, total, err := h.commentRepository.GetAllComments(c.Request().Context(), offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, newPagedResult(c, total, offset, limit, comments))
}

// GetComment retrieves a single comment
func (h *CommentHandler) GetComment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes a comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	if err := h.commentRepository.DeleteComment(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// requireFilm verifies the film exists, translating absence into a 404
// distinct from any validation error.
func (h *CommentHandler) requireFilm(c echo.Context, filmID uint) error {
	ok, err := h.filmSource.Exists(c.Request().Context(), filmID)
	if err != nil {
		return sourceError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Film not found")
	}
	return nil
}

// validateText runs the bound struct through the wired validator and then
// applies the trim rule the tag cannot express.
func (h *CommentHandler) validateText(c echo.Context, req *models.CreateCommentRequest) map[string][]string {
	if err := c.Validate(req); err != nil {
		return translateFieldErrors(err)
	}
	return validateCommentText(req.Text)
}

// validateCommentText enforces the 1..500 character contract: emptiness is
// judged after trimming, length on the raw text with 500 itself allowed.
func validateCommentText(text string) map[string][]string {
	if strings.TrimSpace(text) == "" {
		return map[string][]string{"text": {msgTextRequired}}
	}
	if utf8.RuneCountInString(text) > 500 {
		return map[string][]string{"text": {msgTextTooLong}}
	}
	return nil
}

// translateFieldErrors turns validator tag failures into the field-scoped
// message map clients receive.
func translateFieldErrors(err error) map[string][]string {
	out := map[string][]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["non_field_errors"] = []string{err.Error()}
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch {
		case field == "text" && fe.Tag() == "max":
			out[field] = append(out[field], msgTextTooLong)
		case fe.Tag() == "required":
			out[field] = append(out[field], "This field is required.")
		default:
			out[field] = append(out[field], "Invalid value.")
		}
	}
	return out
}

// clientIP extracts the submitter address best-effort: first hop of
// X-Forwarded-For when present, else the peer address without its port.
// Returns nil rather than failing the request when neither is usable.
func clientIP(c echo.Context) *string {
	if xff := c.Request().Header.Get(echo.HeaderXForwardedFor); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip != "" {
			return &ip
		}
	}
	remote := c.Request().RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil && host != "" {
		return &host
	}
	if remote != "" {
		return &remote
	}
	return nil
}
