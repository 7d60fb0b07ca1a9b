package repositories

import (
	"context"

	"github.com/coded-movies/films-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FilmRepository defines the interface for film data operations
type FilmRepository interface {
	ReplaceAll(ctx context.Context, films []models.Film) error
	ListWithCommentCounts(ctx context.Context, offset, limit int) ([]models.FilmView, int64, error)
	GetWithCommentCount(ctx context.Context, id uint) (*models.FilmView, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

// PostgresFilmRepository implements FilmRepository for PostgreSQL
type PostgresFilmRepository struct {
	db *gorm.DB
}

// NewPostgresFilmRepository creates a new PostgresFilmRepository
func NewPostgresFilmRepository(db *gorm.DB) *PostgresFilmRepository {
	return &PostgresFilmRepository{db: db}
}

// ReplaceAll reconciles the local film table with one upstream snapshot.
// Every film is upserted by its upstream id (unconditional overwrite of
// title and release_date) and rows absent from the snapshot are pruned,
// all inside a single transaction so a failure leaves the prior state
// untouched. Pruned films take their comments with them via the cascade.
func (r *PostgresFilmRepository) ReplaceAll(ctx context.Context, films []models.Film) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uint, 0, len(films))
		for i := range films {
			ids = append(ids, films[i].ID)
		}

		if len(films) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"title", "release_date"}),
			}).Create(&films).Error
			if err != nil {
				return err
			}
		}

		prune := tx.Model(&models.Film{})
		if len(ids) > 0 {
			prune = prune.Where("id NOT IN ?", ids)
		} else {
			prune = prune.Where("1 = 1")
		}
		return prune.Delete(&models.Film{}).Error
	})
}

// ListWithCommentCounts returns one page of films annotated with their live
// comment counts, ordered by (release_date, id) ascending, plus the total
// number of films before pagination.
func (r *PostgresFilmRepository) ListWithCommentCounts(ctx context.Context, offset, limit int) ([]models.FilmView, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Film{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	views := []models.FilmView{}
	err := r.db.WithContext(ctx).Model(&models.Film{}).
		Select("films.id, films.title, films.release_date, COUNT(comments.id) AS comment_count").
		Joins("LEFT JOIN comments ON comments.film_id = films.id").
		Group("films.id, films.title, films.release_date").
		Order("films.release_date ASC, films.id ASC").
		Offset(offset).Limit(limit).
		Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetWithCommentCount retrieves a single film with its live comment count.
// Returns gorm.ErrRecordNotFound if the film is unknown locally.
func (r *PostgresFilmRepository) GetWithCommentCount(ctx context.Context, id uint) (*models.FilmView, error) {
	var film models.Film
	if err := r.db.WithContext(ctx).First(&film, id).Error; err != nil {
		return nil, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("film_id = ?", id).Count(&count).Error
	if err != nil {
		return nil, err
	}

	view := film.View(count)
	return &view, nil
}

// Exists reports whether a film with the given id is known locally.
func (r *PostgresFilmRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Film{}).
		Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
