package films

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/coded-movies/films-api/internal/cache"
	"github.com/coded-movies/films-api/internal/models"
	"github.com/coded-movies/films-api/internal/repositories"
	"github.com/coded-movies/films-api/internal/swapi"
	"github.com/rs/zerolog/log"
)

// snapshotKey is the fixed cache key for the film snapshot.
const snapshotKey = "films:snapshot"

// DefaultSnapshotTTL bounds snapshot staleness.
const DefaultSnapshotTTL = 6 * time.Hour

// Snapshot serves films straight from the upstream catalog through a TTL
// cache, writing no film rows locally. Comment counts still come from the
// local comments table. Malformed upstream records are skipped rather than
// failing the listing, which stays best-effort for display.
type Snapshot struct {
	client   *swapi.Client
	cache    cache.Cache
	ttl      time.Duration
	comments repositories.CommentRepository
}

// NewSnapshot creates a Snapshot source. A non-positive ttl falls back to
// DefaultSnapshotTTL.
func NewSnapshot(client *swapi.Client, c cache.Cache, ttl time.Duration, comments repositories.CommentRepository) *Snapshot {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &Snapshot{client: client, cache: c, ttl: ttl, comments: comments}
}

// films returns the current snapshot, fetching from upstream when the cache
// is cold or expired. The snapshot is kept sorted by (release_date, id).
func (s *Snapshot) films(ctx context.Context) ([]models.Film, error) {
	if raw, ok, err := s.cache.Get(ctx, snapshotKey); err == nil && ok {
		var cached []models.Film
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		log.Warn().Msg("discarding undecodable film snapshot")
	} else if err != nil {
		log.Warn().Err(err).Msg("film snapshot cache lookup failed")
	}

	fetched, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(fetched); err == nil {
		if err := s.cache.Set(ctx, snapshotKey, raw, s.ttl); err != nil {
			log.Warn().Err(err).Msg("failed to cache film snapshot")
		}
	}
	return fetched, nil
}

func (s *Snapshot) fetchAll(ctx context.Context) ([]models.Film, error) {
	films := []models.Film{}
	pageURL := ""
	for {
		page, err := s.client.FetchPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		for _, entry := range page.Results {
			rec, err := swapi.Normalize(entry)
			if err != nil {
				log.Warn().Err(err).Msg("skipping malformed film record")
				continue
			}
			films = append(films, models.Film{
				ID:          rec.ID,
				Title:       rec.Title,
				ReleaseDate: rec.ReleaseDate,
			})
		}
		if page.Next == nil || *page.Next == "" {
			break
		}
		pageURL = *page.Next
	}

	sort.Slice(films, func(i, j int) bool {
		if !films[i].ReleaseDate.Equal(films[j].ReleaseDate.Time) {
			return films[i].ReleaseDate.Before(films[j].ReleaseDate.Time)
		}
		return films[i].ID < films[j].ID
	})
	return films, nil
}

func (s *Snapshot) List(ctx context.Context, offset, limit int) ([]models.FilmView, int64, error) {
	all, err := s.films(ctx)
	if err != nil {
		return nil, 0, err
	}

	counts, err := s.comments.CountsByFilm(ctx)
	if err != nil {
		return nil, 0, err
	}

	total := int64(len(all))
	if offset >= len(all) {
		return []models.FilmView{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	views := make([]models.FilmView, 0, end-offset)
	for _, f := range all[offset:end] {
		views = append(views, f.View(counts[f.ID]))
	}
	return views, total, nil
}

func (s *Snapshot) Get(ctx context.Context, id uint) (*models.FilmView, error) {
	all, err := s.films(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range all {
		if f.ID == id {
			count, err := s.comments.CountByFilm(ctx, id)
			if err != nil {
				return nil, err
			}
			view := f.View(count)
			return &view, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Snapshot) Exists(ctx context.Context, id uint) (bool, error) {
	all, err := s.films(ctx)
	if err != nil {
		return false, err
	}
	for _, f := range all {
		if f.ID == id {
			return true, nil
		}
	}
	return false, nil
}
