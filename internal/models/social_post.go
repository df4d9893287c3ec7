package models

import (
	"time"
)

// SocialPost represents a post fetched from a social page (Facebook Graph
// API). The raw provider payload is stored alongside the normalized fields
// so posts can be reprocessed later. The place association is a loose hint
// and is not enforced as a foreign key.
type SocialPost struct {
	ID        string     `json:"id" db:"id" gorm:"primaryKey"` // provider post id
	Platform  string     `json:"platform" db:"platform" gorm:"default:facebook"`
	PlaceID   *string    `json:"place_id" db:"place_id"`
	Text      string     `json:"text" db:"text" gorm:"type:text"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	URL       string     `json:"url" db:"url"`
	Raw       string     `json:"raw" db:"raw" gorm:"type:text"` // original provider JSON
}

// TableName sets the table name for the SocialPost model
func (SocialPost) TableName() string {
	return "social_posts"
}
