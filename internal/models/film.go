package models

// Film mirrors one record of the upstream catalog. The primary key is the
// upstream numeric id, never generated locally: resyncs are expected to
// collide on it and overwrite title/release_date in place.
type Film struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Title       string `json:"title" gorm:"size:255;index"`
	ReleaseDate Date   `json:"release_date"`

	Comments []Comment `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// FilmView is a Film enriched with its live comment count. The count is
// derived at query time and never stored.
type FilmView struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	ReleaseDate  Date   `json:"release_date"`
	CommentCount int64  `json:"comment_count"`
}

// View converts a Film into a FilmView with the given comment count.
func (f Film) View(commentCount int64) FilmView {
	return FilmView{
		ID:           f.ID,
		Title:        f.Title,
		ReleaseDate:  f.ReleaseDate,
		CommentCount: commentCount,
	}
}
