package repositories

import (
	"context"

	"github.com/coded-movies/films-api/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	GetCommentsByFilmID(ctx context.Context, filmID uint, offset, limit int) ([]models.Comment, int64, error)
	GetAllComments(ctx context.Context, offset, limit int) ([]models.Comment, int64, error)
	DeleteComment(ctx context.Context, id uint) error
	CountsByFilm(ctx context.Context) (map[uint]int64, error)
	CountByFilm(ctx context.Context, filmID uint) (int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment persists a new comment. The id and created_at are assigned
// by the store.
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetCommentByID retrieves a comment by its id.
func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByFilmID returns one page of a film's comments ordered by
// (created_at, id) ascending, a stable total order even when timestamps
// collide, plus the film's total comment count.
func (r *PostgresCommentRepository) GetCommentsByFilmID(ctx context.Context, filmID uint, offset, limit int) ([]models.Comment, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("film_id = ?", filmID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	comments := []models.Comment{}
	err = r.db.WithContext(ctx).
		Where("film_id = ?", filmID).
		Order("created_at ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// GetAllComments returns one page of comments across all films, same
// ordering rule as the film-scoped listing.
func (r *PostgresCommentRepository) GetAllComments(ctx context.Context, offset, limit int) ([]models.Comment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// DeleteComment deletes a comment by id. Deleting an unknown id returns
// gorm.ErrRecordNotFound.
func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountsByFilm returns comment counts grouped by film id. Films without
// comments are simply absent from the map.
func (r *PostgresCommentRepository) CountsByFilm(ctx context.Context) (map[uint]int64, error) {
	type row struct {
		FilmID uint
		N      int64
	}
	rows := []row{}
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("film_id, COUNT(*) AS n").
		Group("film_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.FilmID] = r.N
	}
	return counts, nil
}

// CountByFilm returns the comment count for a single film.
func (r *PostgresCommentRepository) CountByFilm(ctx context.Context, filmID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("film_id = ?", filmID).Count(&count).Error
	return count, err
}
