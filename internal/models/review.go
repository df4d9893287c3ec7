package models

import (
	"time"
)

// Review represents a single user review attached to a place. Rows are
// append-only: an id that already exists in the table is never updated.
// When the provider has no durable review id, one is synthesized as
// "source:place_id:index" so re-ingesting the same response is a no-op.
type Review struct {
	ID          string     `json:"id" db:"id" gorm:"primaryKey"`
	PlaceID     string     `json:"place_id" db:"place_id" gorm:"not null;index"`
	Source      string     `json:"source" db:"source"` // which provider (e.g. "google")
	Rating      *float64   `json:"rating" db:"rating"`
	Text        string     `json:"text" db:"text" gorm:"type:text"`
	Lang        string     `json:"lang" db:"lang"`
	PublishedAt *time.Time `json:"published_at" db:"published_at"`
	Author      string     `json:"author" db:"author"`
	URL         string     `json:"url" db:"url"`

	// Relationships
	Place Place `json:"place,omitempty" gorm:"foreignKey:PlaceID;references:PlaceID"`
}

// TableName sets the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
