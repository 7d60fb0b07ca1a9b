package models

import "time"

// Comment is a user-submitted comment on a film. Comments are created once
// and never updated; they are removed individually or by cascade when their
// film disappears from the upstream catalog.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FilmID    uint      `json:"film" gorm:"index:idx_comments_film_created,priority:1"`
	Film      *Film     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Text      string    `json:"text" gorm:"size:500"`
	IPAddress *string   `json:"ip_address"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_comments_film_created,priority:2"`
}

// CreateCommentRequest defines the request body for creating a comment under
// a film. The max tag counts runes, matching the 500-character column limit.
type CreateCommentRequest struct {
	Text string `json:"text" validate:"max=500"`
}

// CreateFlatCommentRequest is the body for the flat comments collection,
// where the target film is part of the payload instead of the URL.
type CreateFlatCommentRequest struct {
	Film uint   `json:"film" validate:"required"`
	Text string `json:"text" validate:"max=500"`
}
