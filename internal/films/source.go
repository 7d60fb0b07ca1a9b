// Package films provides the two read paths for the public film listing:
// Mirror serves from the locally synced relational store, Snapshot serves
// from a TTL-cached copy of the upstream catalog. Both enrich each film
// with its live comment count.
package films

import (
	"context"
	"errors"

	"github.com/coded-movies/films-api/internal/models"
)

// ErrNotFound reports that a film id is not known to the source.
var ErrNotFound = errors.New("film not found")

// Source serves the enriched film listing. List returns one page ordered by
// (release_date, id) ascending plus the total before pagination.
type Source interface {
	List(ctx context.Context, offset, limit int) ([]models.FilmView, int64, error)
	Get(ctx context.Context, id uint) (*models.FilmView, error)
	Exists(ctx context.Context, id uint) (bool, error)
}
