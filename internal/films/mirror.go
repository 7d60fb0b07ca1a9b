package films

import (
	"context"
	"errors"

	"github.com/coded-movies/films-api/internal/mirror"
	"github.com/coded-movies/films-api/internal/models"
	"github.com/coded-movies/films-api/internal/repositories"
	"gorm.io/gorm"
)

// Mirror serves films from the locally synced relational store. Comment
// counts come from a SQL aggregation over the comments table.
type Mirror struct {
	films      repositories.FilmRepository
	engine     *mirror.Engine
	syncOnRead bool
}

// NewMirror creates a Mirror source. When syncOnRead is set, every read
// first runs a full catalog sync and propagates its failure, so clients
// always see the latest upstream state at the cost of one upstream pass per
// request.
func NewMirror(films repositories.FilmRepository, engine *mirror.Engine, syncOnRead bool) *Mirror {
	return &Mirror{films: films, engine: engine, syncOnRead: syncOnRead}
}

func (m *Mirror) ensureFresh(ctx context.Context) error {
	if !m.syncOnRead || m.engine == nil {
		return nil
	}
	_, err := m.engine.SyncAll(ctx)
	return err
}

func (m *Mirror) List(ctx context.Context, offset, limit int) ([]models.FilmView, int64, error) {
	if err := m.ensureFresh(ctx); err != nil {
		return nil, 0, err
	}
	return m.films.ListWithCommentCounts(ctx, offset, limit)
}

func (m *Mirror) Get(ctx context.Context, id uint) (*models.FilmView, error) {
	if err := m.ensureFresh(ctx); err != nil {
		return nil, err
	}
	view, err := m.films.GetWithCommentCount(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return view, err
}

func (m *Mirror) Exists(ctx context.Context, id uint) (bool, error) {
	return m.films.Exists(ctx, id)
}
