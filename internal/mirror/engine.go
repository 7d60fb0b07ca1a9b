// Package mirror reconciles the local film table with the upstream catalog:
// every sync run pages through the catalog, upserts each film by its
// upstream id and prunes local rows the catalog no longer knows.
package mirror

import (
	"context"
	"sync"

	"github.com/coded-movies/films-api/internal/models"
	"github.com/coded-movies/films-api/internal/repositories"
	"github.com/coded-movies/films-api/internal/swapi"
	"github.com/rs/zerolog/log"
)

// Engine performs full-mirror syncs. At most one sync is in flight at a
// time; overlapping calls queue behind the mutex so a prune from one run can
// never race an upsert from another.
type Engine struct {
	client *swapi.Client
	films  repositories.FilmRepository

	mu sync.Mutex
}

// NewEngine creates a sync engine over the given upstream client and film
// repository.
func NewEngine(client *swapi.Client, films repositories.FilmRepository) *Engine {
	return &Engine{client: client, films: films}
}

// SyncAll fetches every upstream page, then replaces the local film set with
// the observed snapshot in one transaction. Any page fetch failure or
// malformed record aborts the run with the local store unchanged. Returns
// the number of films observed upstream.
func (e *Engine) SyncAll(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	films, err := e.fetchAll(ctx)
	if err != nil {
		return 0, err
	}

	if err := e.films.ReplaceAll(ctx, films); err != nil {
		return 0, err
	}

	log.Info().Int("films", len(films)).Msg("catalog sync complete")
	return len(films), nil
}

// fetchAll pages through the catalog until next is absent. Pruning later
// only ever sees ids observed by the point all pages are exhausted.
func (e *Engine) fetchAll(ctx context.Context) ([]models.Film, error) {
	var films []models.Film
	pageURL := ""
	for {
		page, err := e.client.FetchPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		for _, entry := range page.Results {
			rec, err := swapi.Normalize(entry)
			if err != nil {
				return nil, err
			}
			films = append(films, models.Film{
				ID:          rec.ID,
				Title:       rec.Title,
				ReleaseDate: rec.ReleaseDate,
			})
		}
		if page.Next == nil || *page.Next == "" {
			return films, nil
		}
		pageURL = *page.Next
	}
}
