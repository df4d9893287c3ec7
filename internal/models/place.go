package models

import (
	"encoding/json"
	"time"
)

// Place represents a point of interest collected from a places provider.
// The provider's place id is the primary key and never changes; every other
// field is overwritten on re-ingestion when the incoming value is present.
type Place struct {
	PlaceID      string   `json:"place_id" db:"place_id" gorm:"primaryKey"`
	Name         string   `json:"name" db:"name"`
	Address      string   `json:"address" db:"address"`
	Lat          *float64 `json:"lat" db:"lat"`
	Lng          *float64 `json:"lng" db:"lng"`
	Rating       *float64 `json:"rating" db:"rating"`
	ReviewsCount *int     `json:"reviews_count" db:"reviews_count"`
	Website      string   `json:"website" db:"website"`
	Phone        string   `json:"phone" db:"phone"`
	Types        string   `json:"types" db:"types" gorm:"type:text"` // JSON array of category tags
	Summary      string   `json:"summary" db:"summary" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:PlaceID;references:PlaceID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for the Place model
func (Place) TableName() string {
	return "places"
}

// TypeList decodes the serialized category tags back into a list.
func (p *Place) TypeList() []string {
	if p.Types == "" {
		return []string{}
	}
	var types []string
	if err := json.Unmarshal([]byte(p.Types), &types); err != nil {
		return []string{}
	}
	return types
}
